// Package api holds the Echo HTTP handlers for the prediction and
// paper-trading endpoints.
package api

import (
	"time"

	"TradePulse/internal/service/metrics"
	xhttp "TradePulse/pkg/http"

	"github.com/labstack/echo/v4"
)

// Router aggregates all HTTP handlers into one route registrar.
type Router struct {
	predict *PredictHandler
	trading *TradingHandler
	ws      *WSHandler

	startedAt time.Time
}

func NewRouter(predict *PredictHandler, trading *TradingHandler, ws *WSHandler) *Router {
	metrics.Register()
	return &Router{
		predict:   predict,
		trading:   trading,
		ws:        ws,
		startedAt: time.Now(),
	}
}

func (r *Router) RegisterRoutes(e *echo.Echo) {
	r.predict.RegisterRoutes(e)
	r.trading.RegisterRoutes(e)
	if r.ws != nil {
		r.ws.RegisterRoutes(e)
	}
	e.GET("/api/health", r.Health)
}

// Health reports liveness and a few cheap process stats.
func (r *Router) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, echo.Map{
		"status":          "ok",
		"uptime_seconds":  int(time.Since(r.startedAt).Seconds()),
		"active_accounts": r.trading.svc.ActiveAccounts(),
	})
}

var _ xhttp.Handler = (*Router)(nil)
