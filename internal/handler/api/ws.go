package api

import (
	"net/http"
	"time"

	xlogger "TradePulse/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const wsWriteTimeout = 5 * time.Second

// PriceStream is the subscription surface of the price board.
type PriceStream interface {
	Snapshot() map[string]float64
	Subscribe() (<-chan map[string]float64, func())
}

// WSHandler streams price snapshots over a websocket. Each connection gets
// its own board subscription; slow clients miss ticks instead of backing up
// the board.
type WSHandler struct {
	logger   *xlogger.Logger
	stream   PriceStream
	upgrader websocket.Upgrader
}

func NewWSHandler(logger *xlogger.Logger, stream PriceStream) *WSHandler {
	return &WSHandler{
		logger: logger,
		stream: stream,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *WSHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/prices", h.Prices)
}

// Prices upgrades the connection and pushes one JSON snapshot per tick,
// starting with the current snapshot so the client renders immediately.
func (h *WSHandler) Prices(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	ticks, cancel := h.stream.Subscribe()
	defer cancel()

	if err := h.write(conn, h.stream.Snapshot()); err != nil {
		return nil
	}

	// Drain client frames so close/ping handling works; any read error
	// ends the stream.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return nil
		case snap, ok := <-ticks:
			if !ok {
				return nil
			}
			if err := h.write(conn, snap); err != nil {
				h.logger.Debug("ws client gone", xlogger.Error(err))
				return nil
			}
		}
	}
}

func (h *WSHandler) write(conn *websocket.Conn, snap map[string]float64) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteJSON(snap)
}
