package predictor

import (
	"fmt"
	"math"
	"time"

	"TradePulse/internal/domain/models"
	domsvc "TradePulse/internal/domain/service"
)

// featureWeights is the fixed weight vector of the feature-scored model.
type featureWeights struct {
	RSI       float64
	MACD      float64
	Volume    float64
	Trend     float64
	Sentiment float64
}

var defaultWeights = featureWeights{
	RSI:       0.35,
	MACD:      0.25,
	Volume:    0.15,
	Trend:     0.15,
	Sentiment: 0.10,
}

// WeightedModel normalizes five features and pushes their weighted sum
// through a logistic function. It is fully deterministic.
type WeightedModel struct {
	weights featureWeights
}

func NewWeightedModel() *WeightedModel {
	return &WeightedModel{weights: defaultWeights}
}

func (m *WeightedModel) Name() string { return "ml" }

func trendScore(t models.Trend) float64 {
	switch t {
	case models.TrendUp:
		return 1
	case models.TrendDown:
		return -1
	default:
		return 0
	}
}

func sentimentScore(s models.Sentiment) float64 {
	switch s {
	case models.SentimentPositive:
		return 1
	case models.SentimentNegative:
		return -1
	default:
		return 0
	}
}

func (m *WeightedModel) Predict(in models.PredictionInput) models.PredictionResult {
	rsiNorm := (in.RSI - 50) / 50
	macdStrength := math.Tanh(in.MACD * 1000)
	volumeRatio := math.Log(in.Volume/1e9 + 1)

	score := rsiNorm*m.weights.RSI +
		macdStrength*m.weights.MACD +
		volumeRatio*m.weights.Volume +
		trendScore(in.Trend)*m.weights.Trend +
		sentimentScore(in.Sentiment)*m.weights.Sentiment

	upF := sigmoid(score*3) * 100
	confF := math.Min(95, 60+math.Abs(score)*30)

	var signal models.Signal
	switch {
	case upF > 65 && confF > 70:
		signal = models.SignalBuy
	case 100-upF > 65 && confF > 70:
		signal = models.SignalSell
	default:
		signal = models.SignalHold
	}

	price := in.CurrentPrice(defaultPrice)
	vol := 0.02 + math.Abs(score)*0.01

	var target, stop float64
	switch signal {
	case models.SignalBuy:
		target = price * (1 + vol)
		stop = price * 0.97
	case models.SignalSell:
		target = price * (1 - vol)
		stop = price * 1.03
	default:
		target = price
		stop = price * 0.98
	}

	risk := models.RiskHigh
	switch {
	case confF > 80:
		risk = models.RiskLow
	case confF > 60:
		risk = models.RiskMedium
	}

	up, down := probPair(upF)
	return models.PredictionResult{
		Symbol:          in.Symbol,
		Prediction:      signal,
		Confidence:      clampConfidence(confF),
		ProbabilityUp:   up,
		ProbabilityDown: down,
		TargetPrice:     target,
		StopLoss:        stop,
		Reasoning:       fmt.Sprintf("feature score %.3f over weighted rsi/macd/volume/trend/sentiment inputs", score),
		RiskLevel:       risk,
		ModelUsed:       "Machine Learning Model v1.5",
		Timestamp:       time.Now(),
	}
}

var _ domsvc.Model = (*WeightedModel)(nil)
