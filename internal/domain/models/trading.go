package models

import "time"

// OrderSide is the direction of an order.
type OrderSide string

const (
	SideBuy  OrderSide = "buy"
	SideSell OrderSide = "sell"
)

// OrderType is the execution style of an order. Only market orders are
// executed by the simulated ledger; limit and stop are rejected upstream.
type OrderType string

const (
	OrderMarket OrderType = "market"
	OrderLimit  OrderType = "limit"
	OrderStop   OrderType = "stop"
)

// OrderStatus is the lifecycle state of an order. Market orders resolve
// synchronously, so pending is never observed by callers.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusFilled    OrderStatus = "filled"
	StatusCancelled OrderStatus = "cancelled"
	StatusRejected  OrderStatus = "rejected"
)

// PositionSide is the direction of an open position.
type PositionSide string

const (
	PositionLong  PositionSide = "long"
	PositionShort PositionSide = "short"
)

// Order is an immutable record of one order placement outcome.
type Order struct {
	ID           string      `json:"id"`
	Symbol       string      `json:"symbol"`
	Side         OrderSide   `json:"side"`
	Type         OrderType   `json:"type"`
	Amount       float64     `json:"amount"`
	Price        float64     `json:"price"`
	Status       OrderStatus `json:"status"`
	FilledAmount float64     `json:"filled_amount"`
	Timestamp    time.Time   `json:"timestamp"`
}

// Position is an open holding marked against the simulated price board.
type Position struct {
	ID           string       `json:"id"`
	Symbol       string       `json:"symbol"`
	Side         PositionSide `json:"side"`
	Size         float64      `json:"size"`
	EntryPrice   float64      `json:"entry_price"`
	CurrentPrice float64      `json:"current_price"`
	PnL          float64      `json:"pnl"`
	PnLPercent   float64      `json:"pnl_percent"`
	Timestamp    time.Time    `json:"timestamp"`
}

// UnrealizedPnL computes profit/loss of the position at price.
func (p *Position) UnrealizedPnL(price float64) float64 {
	diff := price - p.EntryPrice
	if p.Side == PositionShort {
		diff = -diff
	}
	return diff * p.Size
}

// Account is the per-user paper-trading state. Invariants after every
// mutation: Equity == Balance + sum of position PnL and
// FreeMargin == Equity - Margin.
type Account struct {
	Balance    float64     `json:"balance"`
	Equity     float64     `json:"equity"`
	Margin     float64     `json:"margin"`
	FreeMargin float64     `json:"free_margin"`
	Positions  []*Position `json:"positions"`
	Orders     []*Order    `json:"orders"`
}

// MarginLevel returns equity over margin as a percentage, 0 when no margin
// is in use.
func (a *Account) MarginLevel() float64 {
	if a.Margin <= 0 {
		return 0
	}
	return a.Equity / a.Margin * 100
}

// TotalPnL sums the unrealized PnL over all open positions.
func (a *Account) TotalPnL() float64 {
	var total float64
	for _, p := range a.Positions {
		total += p.PnL
	}
	return total
}

// WinRate returns the share of filled orders in the history as a percentage.
func (a *Account) WinRate() float64 {
	if len(a.Orders) == 0 {
		return 0
	}
	filled := 0
	for _, o := range a.Orders {
		if o.Status == StatusFilled {
			filled++
		}
	}
	return float64(filled) / float64(len(a.Orders)) * 100
}

// OrderEvent is the payload published to the order-event stream when a
// market order resolves.
type OrderEvent struct {
	UserID  string  `json:"user_id"`
	Order   *Order  `json:"order"`
	Balance float64 `json:"balance"`
	Equity  float64 `json:"equity"`
}
