package usecase

import (
	"context"
	"time"

	"TradePulse/internal/domain/models"
	"TradePulse/internal/services/indicator"
	"TradePulse/pkg/logger"
)

const (
	// autoTraderUser owns every position the loop opens.
	autoTraderUser = "auto_trader"

	// neutralVolume stands in for real exchange volume, which the
	// simulator does not model. It lands in the +10 confidence band of
	// the technical battery without tipping the direction either way.
	neutralVolume = 1.5e9

	trendLookback = 10

	// historyWindow covers the 26-sample MACD requirement with room to spare.
	historyWindow = 96
)

// AutoTraderConfig tunes the background trading loop.
type AutoTraderConfig struct {
	Enabled       bool
	Interval      time.Duration
	Stake         float64 // quote-currency amount per entry
	MinConfidence int
	Model         string
}

func DefaultAutoTraderConfig() AutoTraderConfig {
	return AutoTraderConfig{
		Enabled:       false,
		Interval:      30 * time.Second,
		Stake:         500,
		MinConfidence: 72,
		Model:         "ensemble",
	}
}

// AutoTrader periodically scores every simulated pair and trades the
// signals on its own paper account. Buys open longs; sells close any
// open long on the symbol rather than opening a short.
type AutoTrader struct {
	cfg        AutoTraderConfig
	prediction *PredictionService
	trading    *TradingService
	log        *logger.Logger
}

func NewAutoTrader(cfg AutoTraderConfig, prediction *PredictionService, trading *TradingService, log *logger.Logger) *AutoTrader {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultAutoTraderConfig().Interval
	}
	return &AutoTrader{cfg: cfg, prediction: prediction, trading: trading, log: log}
}

// Run blocks until ctx is cancelled, trading one pass per interval.
func (a *AutoTrader) Run(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.Interval)
	defer ticker.Stop()

	a.log.Info("auto trader started",
		logger.Duration("interval", a.cfg.Interval),
		logger.Int("min_confidence", a.cfg.MinConfidence),
	)

	for {
		select {
		case <-ctx.Done():
			a.log.Info("auto trader stopped")
			return
		case <-ticker.C:
			a.Pass(ctx)
		}
	}
}

// Pass runs one scoring-and-trading sweep over all pairs.
func (a *AutoTrader) Pass(ctx context.Context) {
	for _, symbol := range a.trading.Pairs() {
		a.tradeSymbol(ctx, symbol)
	}
}

func (a *AutoTrader) tradeSymbol(ctx context.Context, symbol string) {
	history := a.trading.prices.History(symbol, historyWindow)
	if len(history) < 2 {
		return
	}

	in := a.buildInput(symbol, history)
	res, _ := a.prediction.Predict(in, a.cfg.Model)
	if res.Confidence < a.cfg.MinConfidence {
		return
	}

	switch res.Prediction {
	case models.SignalBuy:
		price, ok := a.trading.prices.Price(symbol)
		if !ok || price <= 0 {
			return
		}
		order, err := a.trading.PlaceOrder(ctx, autoTraderUser, models.PlaceOrderRequest{
			Symbol: symbol,
			Side:   string(models.SideBuy),
			Type:   string(models.OrderMarket),
			Amount: a.cfg.Stake / price, // stake is quoted in USDT, orders in base units
		})
		if err != nil {
			a.log.Warn("auto buy failed", logger.String("symbol", symbol), logger.Error(err))
			return
		}
		if order.Status == models.StatusRejected {
			a.log.Warn("auto buy rejected",
				logger.String("symbol", symbol),
				logger.String("order_id", order.ID),
			)
			return
		}
		a.log.Info("auto buy filled",
			logger.String("symbol", symbol),
			logger.String("order_id", order.ID),
			logger.Int("confidence", res.Confidence),
		)
	case models.SignalSell:
		a.closeLongs(ctx, symbol, res.Confidence)
	}
}

func (a *AutoTrader) closeLongs(ctx context.Context, symbol string, confidence int) {
	for _, pos := range a.trading.Positions(autoTraderUser) {
		if pos.Symbol != symbol || pos.Side != models.PositionLong {
			continue
		}
		closed, pnl, err := a.trading.ClosePosition(ctx, autoTraderUser, pos.ID)
		if err != nil {
			a.log.Warn("auto close failed", logger.String("position_id", pos.ID), logger.Error(err))
			continue
		}
		a.log.Info("auto close on sell signal",
			logger.String("symbol", closed.Symbol),
			logger.Float64("pnl", pnl),
			logger.Int("confidence", confidence),
		)
	}
}

// buildInput derives a scoring snapshot from simulated history alone.
// Volume and sentiment have no simulated source, so both stay neutral.
func (a *AutoTrader) buildInput(symbol string, history []float64) models.PredictionInput {
	macd, _, _ := indicator.MACD(history)

	trend := models.TrendSideways
	if len(history) > trendLookback {
		cur := history[len(history)-1]
		past := history[len(history)-1-trendLookback]
		switch {
		case cur > past*1.002:
			trend = models.TrendUp
		case cur < past*0.998:
			trend = models.TrendDown
		}
	}

	return models.PredictionInput{
		Symbol:        symbol,
		Timeframe:     "1h",
		RSI:           indicator.RSI(history, indicator.DefaultRSIPeriod),
		MACD:          macd,
		Volume:        neutralVolume,
		Trend:         trend,
		Sentiment:     models.SentimentNeutral,
		PriceHistory:  history,
		PredictPeriod: "24h",
	}
}
