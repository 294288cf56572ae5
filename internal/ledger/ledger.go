// Package ledger implements the in-memory paper-trading accounts: balances,
// open positions, and order history, marked against the simulated price
// board. Accounts are created lazily with a fixed starting balance and live
// for the process lifetime.
package ledger

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"TradePulse/internal/domain/models"
	repo "TradePulse/internal/domain/repository"
)

var (
	// ErrPositionNotFound is returned when closing an unknown position id.
	ErrPositionNotFound = errors.New("position not found")
	// ErrUnsupportedOrderType is returned for non-market orders.
	ErrUnsupportedOrderType = errors.New("only market orders are supported")
)

// Config tunes the ledger behavior.
type Config struct {
	StartBalance      float64
	FeeRate           float64
	OrderHistoryLimit int
}

// DefaultConfig gives every new account a $10,000 starting balance and
// charges a 0.1% taker fee.
func DefaultConfig() Config {
	return Config{
		StartBalance:      10000,
		FeeRate:           0.001,
		OrderHistoryLimit: 20,
	}
}

type accountEntry struct {
	mu  sync.Mutex
	acc *models.Account
}

// Ledger owns every account, keyed by an opaque user id. Each account is
// guarded by its own mutex so order placement and aggregate recomputation
// stay atomic per account under concurrent callers.
type Ledger struct {
	cfg    Config
	prices repo.PriceSource

	mu       sync.Mutex
	accounts map[string]*accountEntry
}

// New creates an empty ledger marking against prices.
func New(cfg Config, prices repo.PriceSource) *Ledger {
	return &Ledger{
		cfg:      cfg,
		prices:   prices,
		accounts: make(map[string]*accountEntry),
	}
}

func (l *Ledger) entry(userID string) *accountEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.accounts[userID]
	if !ok {
		e = &accountEntry{acc: &models.Account{
			Balance:    l.cfg.StartBalance,
			Equity:     l.cfg.StartBalance,
			FreeMargin: l.cfg.StartBalance,
		}}
		l.accounts[userID] = e
	}
	return e
}

// ActiveAccounts returns the number of accounts created so far.
func (l *Ledger) ActiveAccounts() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.accounts)
}

func (l *Ledger) priceOr(symbol string, fallback float64) float64 {
	if p, ok := l.prices.Price(symbol); ok {
		return p
	}
	return fallback
}

// recompute refreshes per-position marks and the account aggregates.
// Callers must hold the account mutex.
func (l *Ledger) recompute(acc *models.Account) {
	var totalPnL float64
	for _, pos := range acc.Positions {
		price := l.priceOr(pos.Symbol, pos.EntryPrice)
		pnl := pos.UnrealizedPnL(price)
		pos.CurrentPrice = price
		pos.PnL = pnl
		pos.PnLPercent = pnl / (pos.EntryPrice * pos.Size) * 100
		totalPnL += pnl
	}
	acc.Equity = acc.Balance + totalPnL
	acc.FreeMargin = acc.Equity - acc.Margin
}

// PlaceMarketOrder executes a market order synchronously: it resolves to
// filled or rejected before returning, never pending. A buy whose total cost
// exceeds free margin is rejected without touching any state. Sells only
// credit the balance; they do not open shorts or reduce existing longs.
func (l *Ledger) PlaceMarketOrder(userID, symbol string, side models.OrderSide, amount float64) (*models.Order, error) {
	e := l.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	price := l.priceOr(symbol, 50000)
	fee := amount * price * l.cfg.FeeRate
	totalCost := amount*price + fee

	order := &models.Order{
		ID:        "order_" + uuid.NewString(),
		Symbol:    symbol,
		Side:      side,
		Type:      models.OrderMarket,
		Amount:    amount,
		Price:     price,
		Timestamp: time.Now(),
	}

	if side == models.SideBuy && totalCost > e.acc.FreeMargin {
		order.Status = models.StatusRejected
		return order, nil
	}

	order.Status = models.StatusFilled
	order.FilledAmount = amount

	if side == models.SideBuy {
		e.acc.Balance -= totalCost
		e.acc.Positions = append(e.acc.Positions, &models.Position{
			ID:           "pos_" + uuid.NewString(),
			Symbol:       symbol,
			Side:         models.PositionLong,
			Size:         amount,
			EntryPrice:   price,
			CurrentPrice: price,
			Timestamp:    time.Now(),
		})
	} else {
		e.acc.Balance += amount*price - fee
	}

	e.acc.Orders = append(e.acc.Orders, order)
	l.recompute(e.acc)
	return order, nil
}

// ClosePosition removes the position and credits its entry value plus PnL at
// the current mark. Returns ErrPositionNotFound when the id is unknown.
func (l *Ledger) ClosePosition(userID, positionID string) (*models.Position, float64, error) {
	e := l.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := -1
	for i, p := range e.acc.Positions {
		if p.ID == positionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, 0, ErrPositionNotFound
	}

	pos := e.acc.Positions[idx]
	price := l.priceOr(pos.Symbol, pos.EntryPrice)
	pnl := pos.UnrealizedPnL(price)

	e.acc.Balance += pos.EntryPrice*pos.Size + pnl
	e.acc.Positions = append(e.acc.Positions[:idx], e.acc.Positions[idx+1:]...)
	l.recompute(e.acc)

	pos.CurrentPrice = price
	pos.PnL = pnl
	pos.PnLPercent = pnl / (pos.EntryPrice * pos.Size) * 100
	return pos, pnl, nil
}

// Positions returns a copy of the open positions for userID.
func (l *Ledger) Positions(userID string) []*models.Position {
	e := l.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	l.recompute(e.acc)

	out := make([]*models.Position, len(e.acc.Positions))
	for i, p := range e.acc.Positions {
		cp := *p
		out[i] = &cp
	}
	return out
}

// GetAccount returns a snapshot of the account with aggregates recomputed
// against the latest prices. The order history is bounded to the configured
// display window.
func (l *Ledger) GetAccount(userID string) *models.Account {
	e := l.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	l.recompute(e.acc)

	snap := &models.Account{
		Balance:    e.acc.Balance,
		Equity:     e.acc.Equity,
		Margin:     e.acc.Margin,
		FreeMargin: e.acc.FreeMargin,
	}
	snap.Positions = make([]*models.Position, len(e.acc.Positions))
	for i, p := range e.acc.Positions {
		cp := *p
		snap.Positions[i] = &cp
	}

	orders := e.acc.Orders
	if limit := l.cfg.OrderHistoryLimit; limit > 0 && len(orders) > limit {
		orders = orders[len(orders)-limit:]
	}
	snap.Orders = make([]*models.Order, len(orders))
	for i, o := range orders {
		cp := *o
		snap.Orders[i] = &cp
	}
	return snap
}
