package api

import (
	"time"

	models "TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
	"TradePulse/internal/service/metrics"
	"TradePulse/internal/usecase"
	xhttp "TradePulse/pkg/http"
	xlogger "TradePulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PredictHandler serves the prediction endpoints.
type PredictHandler struct {
	logger *xlogger.Logger
	svc    *usecase.PredictionService
}

func NewPredictHandler(logger *xlogger.Logger, svc *usecase.PredictionService) *PredictHandler {
	return &PredictHandler{logger: logger, svc: svc}
}

func (h *PredictHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/predict", h.Predict)
	g.GET("/predict/models", h.Models)
}

// Predict scores a caller-supplied market snapshot. The model is selected
// with the ?model= query parameter; unknown selectors fall back to the
// ensemble.
func (h *PredictHandler) Predict(c echo.Context) error {
	start := time.Now()
	endpoint := "predict"
	defer func() { metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		return xhttp.BadRequestResponse(c, verr)
	}
	req.Timeframe = string(domrepo.NormalizeTimeframe(req.Timeframe))

	res, cached := h.svc.Predict(req.Input(), c.QueryParam("model"))
	if cached {
		c.Response().Header().Set("X-Cache", "HIT")
	} else {
		c.Response().Header().Set("X-Cache", "MISS")
	}
	return xhttp.SuccessResponse(c, res)
}

// Models lists the selectable models.
func (h *PredictHandler) Models(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.svc.Models())
}
