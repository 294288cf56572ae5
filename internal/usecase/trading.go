package usecase

import (
	"context"

	"TradePulse/internal/domain/models"
	repo "TradePulse/internal/domain/repository"
	"TradePulse/internal/ledger"
	"TradePulse/pkg/logger"
)

// TradingService wraps the paper-trading ledger with metrics and the
// optional order-event stream.
type TradingService struct {
	ledger    *ledger.Ledger
	prices    repo.PriceSource
	publisher repo.Publisher // nil when order events are disabled
	metrics   repo.Metrics
	log       *logger.Logger
}

func NewTradingService(l *ledger.Ledger, prices repo.PriceSource, publisher repo.Publisher, metrics repo.Metrics, log *logger.Logger) *TradingService {
	return &TradingService{ledger: l, prices: prices, publisher: publisher, metrics: metrics, log: log}
}

// PlaceOrder executes one market order for userID. Non-market types are
// refused before reaching the ledger.
func (s *TradingService) PlaceOrder(ctx context.Context, userID string, req models.PlaceOrderRequest) (*models.Order, error) {
	if models.OrderType(req.Type) != models.OrderMarket {
		return nil, ledger.ErrUnsupportedOrderType
	}

	order, err := s.ledger.PlaceMarketOrder(userID, req.Symbol, models.OrderSide(req.Side), req.Amount)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordOrder(string(order.Status))

	if s.publisher != nil {
		acc := s.ledger.GetAccount(userID)
		ev := &models.OrderEvent{UserID: userID, Order: order, Balance: acc.Balance, Equity: acc.Equity}
		if err := s.publisher.Publish(ctx, ev); err != nil {
			// order events are best-effort; the fill already happened
			s.metrics.RecordError("order_publish")
			s.log.Warn("order event publish failed", logger.Error(err), logger.String("order_id", order.ID))
		}
	}
	return order, nil
}

// ClosePosition closes one open position at the current mark.
func (s *TradingService) ClosePosition(ctx context.Context, userID, positionID string) (*models.Position, float64, error) {
	pos, pnl, err := s.ledger.ClosePosition(userID, positionID)
	if err != nil {
		return nil, 0, err
	}
	s.log.Info("position closed",
		logger.String("user", userID),
		logger.String("symbol", pos.Symbol),
		logger.Float64("pnl", pnl),
	)
	return pos, pnl, nil
}

// Account returns the account snapshot with aggregates recomputed.
func (s *TradingService) Account(userID string) *models.Account {
	return s.ledger.GetAccount(userID)
}

// Positions returns the open positions for userID.
func (s *TradingService) Positions(userID string) []*models.Position {
	return s.ledger.Positions(userID)
}

// Prices returns the current simulated price snapshot.
func (s *TradingService) Prices() map[string]float64 {
	return s.prices.Snapshot()
}

// Pairs lists the supported trading pairs.
func (s *TradingService) Pairs() []string {
	return s.prices.Symbols()
}

// ActiveAccounts reports the number of accounts seen so far.
func (s *TradingService) ActiveAccounts() int {
	return s.ledger.ActiveAccounts()
}
