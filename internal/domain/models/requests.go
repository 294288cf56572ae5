package models

// Requests for the prediction and trading HTTP endpoints. Defined in domain
// for consistency and reuse.

type PredictRequest struct {
	Symbol        string    `json:"symbol" validate:"required"`
	Timeframe     string    `json:"timeframe" default:"1h" validate:"oneof=1m 5m 15m 1h 4h 1d"`
	PredictPeriod string    `json:"predict_period" default:"24h"`
	Data          MarketData `json:"data" validate:"required"`
}

// MarketData is the indicator snapshot portion of a predict request.
type MarketData struct {
	RSI           float64   `json:"rsi" validate:"gte=0,lte=100"`
	MACD          float64   `json:"macd"`
	Volume        float64   `json:"volume" validate:"gte=0"`
	Trend         Trend     `json:"trend" default:"sideways" validate:"oneof=up down sideways"`
	NewsSentiment Sentiment `json:"news_sentiment" default:"neutral" validate:"oneof=positive neutral negative"`
	PriceHistory  []float64 `json:"price_history"`
}

// Input converts the request into the model-facing snapshot.
func (r *PredictRequest) Input() PredictionInput {
	return PredictionInput{
		Symbol:        r.Symbol,
		Timeframe:     r.Timeframe,
		RSI:           r.Data.RSI,
		MACD:          r.Data.MACD,
		Volume:        r.Data.Volume,
		Trend:         r.Data.Trend,
		Sentiment:     r.Data.NewsSentiment,
		PriceHistory:  r.Data.PriceHistory,
		PredictPeriod: r.PredictPeriod,
	}
}

type PlaceOrderRequest struct {
	Symbol string  `json:"symbol" validate:"required"`
	Side   string  `json:"side" validate:"required,oneof=buy sell"`
	Type   string  `json:"type" default:"market" validate:"oneof=market limit stop"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Price  float64 `json:"price" validate:"gte=0"`
}

type ClosePositionRequest struct {
	PositionID string `json:"position_id" validate:"required"`
}
