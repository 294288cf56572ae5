package repository

import (
	"context"

	"TradePulse/internal/domain/models"
)

// Publisher delivers resolved order events to an external stream.
type Publisher interface {
	Publish(ctx context.Context, ev *models.OrderEvent) error
	Close() error
}

// PriceSource exposes the simulated price board to readers. Implementations
// must be safe for concurrent use.
type PriceSource interface {
	Price(symbol string) (float64, bool)
	Snapshot() map[string]float64
	History(symbol string, n int) []float64
	Symbols() []string
}

// Metrics records operational measurements.
type Metrics interface {
	RecordPrediction(model string, signal string)
	RecordCacheLookup(hit bool)
	RecordOrder(status string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
