package api

import (
	"errors"
	"time"

	models "TradePulse/internal/domain/models"
	"TradePulse/internal/ledger"
	"TradePulse/internal/service/metrics"
	"TradePulse/internal/service/ratelimit"
	"TradePulse/internal/usecase"
	xhttp "TradePulse/pkg/http"
	xlogger "TradePulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DefaultUserID is assumed when the X-User-ID header is absent.
const DefaultUserID = "demo_user"

const userIDHeader = "X-User-ID"

// Order placement throttle, per user.
const (
	orderBurst     = 5
	orderRefillSec = 2
)

// TradingHandler serves the paper-trading endpoints.
type TradingHandler struct {
	logger *xlogger.Logger
	svc    *usecase.TradingService
	rl     *ratelimit.Limiter
}

func NewTradingHandler(logger *xlogger.Logger, svc *usecase.TradingService) *TradingHandler {
	return &TradingHandler{logger: logger, svc: svc, rl: ratelimit.New()}
}

func (h *TradingHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/trading")
	g.POST("/orders", h.PlaceOrder)
	g.POST("/positions/close", h.ClosePosition)
	g.GET("/account", h.Account)
	g.GET("/prices", h.Prices)
	g.GET("/pairs", h.Pairs)
}

func userID(c echo.Context) string {
	if id := c.Request().Header.Get(userIDHeader); id != "" {
		return id
	}
	return DefaultUserID
}

// PlaceOrder executes one market order for the calling user.
func (h *TradingHandler) PlaceOrder(c echo.Context) error {
	start := time.Now()
	endpoint := "orders"
	defer func() { metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	uid := userID(c)
	if !h.rl.Allow(uid+":orders", orderBurst, orderRefillSec) {
		h.logger.Warn("order rate limited", xlogger.String("user", uid))
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("too many orders, slow down"))
	}

	req := &models.PlaceOrderRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		return xhttp.BadRequestResponse(c, verr)
	}

	order, err := h.svc.PlaceOrder(c.Request().Context(), uid, *req)
	if err != nil {
		if errors.Is(err, ledger.ErrUnsupportedOrderType) {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
		}
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("place order failed", xlogger.Error(err), xlogger.String("user", uid))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, order)
}

// ClosePosition closes one open position at the current mark.
func (h *TradingHandler) ClosePosition(c echo.Context) error {
	endpoint := "positions_close"
	req := &models.ClosePositionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		return xhttp.BadRequestResponse(c, verr)
	}

	uid := userID(c)
	pos, pnl, err := h.svc.ClosePosition(c.Request().Context(), uid, req.PositionID)
	if err != nil {
		if errors.Is(err, ledger.ErrPositionNotFound) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("position %s not found", req.PositionID))
		}
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("close position failed", xlogger.Error(err), xlogger.String("user", uid))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, echo.Map{
		"position": pos,
		"pnl":      pnl,
	})
}

// Account returns the account snapshot plus derived aggregates.
func (h *TradingHandler) Account(c echo.Context) error {
	acc := h.svc.Account(userID(c))
	return xhttp.SuccessResponse(c, echo.Map{
		"account":      acc,
		"margin_level": acc.MarginLevel(),
		"total_pnl":    acc.TotalPnL(),
		"win_rate":     acc.WinRate(),
		"positions":    len(acc.Positions),
	})
}

// Prices returns the current simulated price snapshot.
func (h *TradingHandler) Prices(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.svc.Prices())
}

// Pairs lists the supported trading pairs.
func (h *TradingHandler) Pairs(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.svc.Pairs())
}
