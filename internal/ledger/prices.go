package ledger

import (
	"context"
	"sync"
	"time"

	repo "TradePulse/internal/domain/repository"
)

// Rand is the injectable randomness source driving the price walk.
// *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// tick volatility of the random walk, 0.1% max amplitude per step
const tickVolatility = 0.001

// DefaultBasePrices seeds the board with the supported trading pairs.
func DefaultBasePrices() map[string]float64 {
	return map[string]float64{
		"BTCUSDT":   43250,
		"ETHUSDT":   2678,
		"BNBUSDT":   312,
		"SOLUSDT":   67,
		"XRPUSDT":   0.62,
		"ADAUSDT":   0.35,
		"AVAXUSDT":  28,
		"DOGEUSDT":  0.08,
		"TRXUSDT":   0.11,
		"DOTUSDT":   6.5,
		"MATICUSDT": 0.85,
		"LTCUSDT":   75,
		"SHIBUSDT":  0.000012,
		"UNIUSDT":   8.5,
		"ATOMUSDT":  12,
		"LINKUSDT":  15,
	}
}

// PriceBoard is the shared symbol -> last price table the paper ledger marks
// positions against. Prices advance on a fixed tick by an independent random
// jitter per symbol; they are not derived from any real feed.
type PriceBoard struct {
	mu      sync.RWMutex
	prices  map[string]float64
	history map[string][]float64
	rng     Rand

	histLimit int

	subMu sync.Mutex
	subs  map[chan map[string]float64]struct{}
}

// NewPriceBoard seeds a board from base prices.
func NewPriceBoard(base map[string]float64, rng Rand) *PriceBoard {
	b := &PriceBoard{
		prices:    make(map[string]float64, len(base)),
		history:   make(map[string][]float64, len(base)),
		rng:       rng,
		histLimit: 288,
		subs:      make(map[chan map[string]float64]struct{}),
	}
	for sym, p := range base {
		b.prices[sym] = p
		b.history[sym] = []float64{p}
	}
	return b
}

// Run advances the board every interval until ctx is cancelled.
func (b *PriceBoard) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			b.Advance()
		}
	}
}

// Advance applies one random-walk step to every symbol and notifies
// subscribers with the fresh snapshot.
func (b *PriceBoard) Advance() {
	b.mu.Lock()
	for sym, p := range b.prices {
		change := (b.rng.Float64() - 0.5) * 2 * tickVolatility
		next := p * (1 + change)
		b.prices[sym] = next

		h := append(b.history[sym], next)
		if len(h) > b.histLimit {
			h = h[len(h)-b.histLimit:]
		}
		b.history[sym] = h
	}
	b.mu.Unlock()

	b.broadcast(b.Snapshot())
}

// Price returns the last price for symbol.
func (b *PriceBoard) Price(symbol string) (float64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p, ok := b.prices[symbol]
	return p, ok
}

// Snapshot returns a copy of the full price table.
func (b *PriceBoard) Snapshot() map[string]float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]float64, len(b.prices))
	for sym, p := range b.prices {
		out[sym] = p
	}
	return out
}

// History returns up to the last n prices for symbol, chronological.
func (b *PriceBoard) History(symbol string, n int) []float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	h := b.history[symbol]
	if len(h) > n {
		h = h[len(h)-n:]
	}
	out := make([]float64, len(h))
	copy(out, h)
	return out
}

// Symbols lists the tracked trading pairs.
func (b *PriceBoard) Symbols() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.prices))
	for sym := range b.prices {
		out = append(out, sym)
	}
	return out
}

// Subscribe registers a snapshot channel fed on every tick. Slow consumers
// miss ticks instead of blocking the board. The returned cancel func must be
// called to release the subscription.
func (b *PriceBoard) Subscribe() (<-chan map[string]float64, func()) {
	ch := make(chan map[string]float64, 1)
	b.subMu.Lock()
	b.subs[ch] = struct{}{}
	b.subMu.Unlock()

	cancel := func() {
		b.subMu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.subMu.Unlock()
	}
	return ch, cancel
}

func (b *PriceBoard) broadcast(snap map[string]float64) {
	b.subMu.Lock()
	defer b.subMu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

var _ repo.PriceSource = (*PriceBoard)(nil)
