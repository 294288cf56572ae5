package models

import "time"

// Trend describes the caller-observed direction of recent price action.
type Trend string

const (
	TrendUp       Trend = "up"
	TrendDown     Trend = "down"
	TrendSideways Trend = "sideways"
)

// Sentiment describes aggregated news/market sentiment polarity.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Signal is the discrete trading recommendation produced by a model.
type Signal string

const (
	SignalBuy  Signal = "buy"
	SignalSell Signal = "sell"
	SignalHold Signal = "hold"
)

// RiskLevel is a coarse risk classification attached to a prediction.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// PredictionInput is the caller-supplied snapshot a model scores.
// Models never fetch their own data; PriceHistory is chronological with the
// last element being the current price.
type PredictionInput struct {
	Symbol        string
	Timeframe     string
	RSI           float64
	MACD          float64
	Volume        float64
	Trend         Trend
	Sentiment     Sentiment
	PriceHistory  []float64
	PredictPeriod string
}

// CurrentPrice returns the most recent price of the snapshot, or the
// fallback when the history is empty.
func (in *PredictionInput) CurrentPrice(fallback float64) float64 {
	if len(in.PriceHistory) == 0 {
		return fallback
	}
	return in.PriceHistory[len(in.PriceHistory)-1]
}

// PredictionResult is the outcome of scoring one PredictionInput.
// Invariants: ProbabilityUp + ProbabilityDown == 100 and
// Confidence is clamped into [30,95].
type PredictionResult struct {
	Symbol          string    `json:"symbol"`
	Prediction      Signal    `json:"prediction"`
	Confidence      int       `json:"confidence"`
	ProbabilityUp   int       `json:"probability_up"`
	ProbabilityDown int       `json:"probability_down"`
	TargetPrice     float64   `json:"target_price"`
	StopLoss        float64   `json:"stop_loss"`
	Reasoning       string    `json:"reasoning"`
	RiskLevel       RiskLevel `json:"risk_level"`
	ModelUsed       string    `json:"model_used"`
	Timestamp       time.Time `json:"timestamp"`
}

// IndicatorSnapshot bundles the derived technical indicators for one series.
// It is recomputed on each request and never persisted.
type IndicatorSnapshot struct {
	RSI       float64        `json:"rsi"`
	MACD      float64        `json:"macd"`
	Signal    float64        `json:"signal"`
	Histogram float64        `json:"histogram"`
	SMAShort  float64        `json:"sma_short"`
	SMALong   float64        `json:"sma_long"`
	Bollinger BollingerBands `json:"bollinger"`
	VolumeSMA float64        `json:"volume_sma"`
}

// BollingerBands holds the moving-average envelope for a price window.
type BollingerBands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// Candle represents one OHLCV sample of a chronological price series.
type Candle struct {
	Bucket time.Time
	Symbol string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}
