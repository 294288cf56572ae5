package predictor

import (
	"fmt"
	"math"
	"strings"
	"time"

	"TradePulse/internal/domain/models"
	domsvc "TradePulse/internal/domain/service"
)

// ruleConfig parameterizes the signal battery so the checks live in one
// place instead of being duplicated per model.
type ruleConfig struct {
	rsiOversold    float64
	rsiOverbought  float64
	rsiLow         float64
	rsiHigh        float64
	macdThreshold  float64
	volumeHighBar  float64
	volumeNormBar  float64
	momentumWindow int
	momentumBar    float64
}

var defaultRules = ruleConfig{
	rsiOversold:    30,
	rsiOverbought:  70,
	rsiLow:         40,
	rsiHigh:        60,
	macdThreshold:  0.001,
	volumeHighBar:  2e9,
	volumeNormBar:  1e9,
	momentumWindow: 5,
	momentumBar:    0.02,
}

// battery is the outcome of running the six checks over one snapshot.
type battery struct {
	bullish    int
	bearish    int
	confidence float64
	reasons    []string
}

// runBattery accumulates weighted bullish/bearish counts and a confidence
// score from the six independent checks.
func runBattery(in models.PredictionInput, cfg ruleConfig) battery {
	b := battery{confidence: 40}

	// RSI extremes and mild zones
	switch {
	case in.RSI < cfg.rsiOversold:
		b.bullish += 3
		b.confidence += 20
		b.reasons = append(b.reasons, fmt.Sprintf("RSI oversold (%.1f) - strong buy signal", in.RSI))
	case in.RSI > cfg.rsiOverbought:
		b.bearish += 3
		b.confidence += 20
		b.reasons = append(b.reasons, fmt.Sprintf("RSI overbought (%.1f) - strong sell signal", in.RSI))
	case in.RSI < cfg.rsiLow:
		b.bullish++
		b.confidence += 10
		b.reasons = append(b.reasons, fmt.Sprintf("RSI leaning low (%.1f) - buy bias", in.RSI))
	case in.RSI > cfg.rsiHigh:
		b.bearish++
		b.confidence += 10
		b.reasons = append(b.reasons, fmt.Sprintf("RSI leaning high (%.1f) - sell bias", in.RSI))
	}

	// MACD sign
	if in.MACD > cfg.macdThreshold {
		b.bullish += 2
		b.confidence += 15
		b.reasons = append(b.reasons, fmt.Sprintf("MACD bullish cross (%.4f) - upward momentum", in.MACD))
	} else if in.MACD < -cfg.macdThreshold {
		b.bearish += 2
		b.confidence += 15
		b.reasons = append(b.reasons, fmt.Sprintf("MACD bearish cross (%.4f) - downward momentum", in.MACD))
	}

	// Trend direction
	switch in.Trend {
	case models.TrendUp:
		b.bullish += 2
		b.confidence += 15
		b.reasons = append(b.reasons, "price trend up - trade with the trend")
	case models.TrendDown:
		b.bearish += 2
		b.confidence += 15
		b.reasons = append(b.reasons, "price trend down - trade with the trend")
	default:
		b.reasons = append(b.reasons, "price consolidating - waiting for breakout")
	}

	// Volume magnitude tiers affect confidence only
	switch {
	case in.Volume > cfg.volumeHighBar:
		b.confidence += 15
		b.reasons = append(b.reasons, "volume elevated - high signal reliability")
	case in.Volume > cfg.volumeNormBar:
		b.confidence += 10
		b.reasons = append(b.reasons, "volume normal - signal valid")
	default:
		b.confidence -= 5
		b.reasons = append(b.reasons, "volume thin - reduced signal reliability")
	}

	// Sentiment polarity
	switch in.Sentiment {
	case models.SentimentPositive:
		b.bullish++
		b.confidence += 8
		b.reasons = append(b.reasons, "market sentiment positive - supportive backdrop")
	case models.SentimentNegative:
		b.bearish++
		b.confidence += 8
		b.reasons = append(b.reasons, "market sentiment negative - headwind")
	}

	// Short-window price momentum
	if len(in.PriceHistory) >= cfg.momentumWindow {
		recent := in.PriceHistory[len(in.PriceHistory)-cfg.momentumWindow:]
		change := (recent[len(recent)-1] - recent[0]) / recent[0]
		if change > cfg.momentumBar {
			b.bullish++
			b.confidence += 8
			b.reasons = append(b.reasons, fmt.Sprintf("recent gain %.1f%% - momentum continuation", change*100))
		} else if change < -cfg.momentumBar {
			b.bearish++
			b.confidence += 8
			b.reasons = append(b.reasons, fmt.Sprintf("recent drop %.1f%% - downside continuation", math.Abs(change)*100))
		}
	}

	return b
}

// TechnicalModel is the rule-battery scorer.
type TechnicalModel struct {
	rules ruleConfig
	rng   Rand
}

func NewTechnicalModel(rng Rand) *TechnicalModel {
	return &TechnicalModel{rules: defaultRules, rng: rng}
}

func (m *TechnicalModel) Name() string { return "technical" }

func (m *TechnicalModel) Predict(in models.PredictionInput) models.PredictionResult {
	b := runBattery(in, m.rules)

	var (
		signal models.Signal
		upF    float64
		risk   models.RiskLevel
	)
	switch {
	case b.bullish > b.bearish+2 && b.confidence > 70:
		signal = models.SignalBuy
		upF = math.Min(90, 55+float64(b.bullish)*6)
		risk = models.RiskMedium
		if b.confidence > 85 {
			risk = models.RiskLow
		}
	case b.bearish > b.bullish+2 && b.confidence > 70:
		signal = models.SignalSell
		downF := math.Min(90, 55+float64(b.bearish)*6)
		upF = 100 - downF
		risk = models.RiskMedium
		if b.confidence > 85 {
			risk = models.RiskLow
		}
	default:
		// neutral band: probability is a documented small random value
		// near 45-55 rather than a calibrated estimate
		signal = models.SignalHold
		upF = 45 + m.rng.Float64()*10
		risk = models.RiskMedium
	}

	price := in.CurrentPrice(defaultPrice)
	// 1%-5% volatility band derived from the raw confidence score
	vol := math.Min(0.05, math.Max(0.01, b.confidence/2000))

	var target, stop float64
	switch signal {
	case models.SignalBuy:
		target = price * (1 + vol*(b.confidence/100))
		stop = price * (1 - vol*0.6)
	case models.SignalSell:
		target = price * (1 - vol*(b.confidence/100))
		stop = price * (1 + vol*0.6)
	default:
		target = price
		stop = price * (1 - vol*0.5)
	}

	up, down := probPair(upF)
	return models.PredictionResult{
		Symbol:          in.Symbol,
		Prediction:      signal,
		Confidence:      clampConfidence(b.confidence),
		ProbabilityUp:   up,
		ProbabilityDown: down,
		TargetPrice:     target,
		StopLoss:        stop,
		Reasoning:       strings.Join(b.reasons, "; "),
		RiskLevel:       risk,
		ModelUsed:       "Technical Analysis Model v2.0",
		Timestamp:       time.Now(),
	}
}

var _ domsvc.Model = (*TechnicalModel)(nil)
