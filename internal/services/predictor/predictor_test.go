package predictor

import (
	"math"
	"testing"
	"time"

	"TradePulse/internal/domain/models"
	domsvc "TradePulse/internal/domain/service"
)

type fixedRand struct{ v float64 }

func (f fixedRand) Float64() float64 { return f.v }

// stubModel returns a canned result, for exercising the ensemble blend.
type stubModel struct {
	name string
	res  models.PredictionResult
}

func (s stubModel) Name() string                                           { return s.name }
func (s stubModel) Predict(models.PredictionInput) models.PredictionResult { return s.res }

var _ domsvc.Model = stubModel{}

func bullishInput() models.PredictionInput {
	return models.PredictionInput{
		Symbol:       "BTCUSDT",
		Timeframe:    "1h",
		RSI:          25,
		MACD:         0.002,
		Volume:       2.5e9,
		Trend:        models.TrendUp,
		Sentiment:    models.SentimentPositive,
		PriceHistory: []float64{100, 101, 102, 103, 104},
	}
}

func bearishInput() models.PredictionInput {
	return models.PredictionInput{
		Symbol:       "ETHUSDT",
		Timeframe:    "1h",
		RSI:          75,
		MACD:         -0.002,
		Volume:       2.5e9,
		Trend:        models.TrendDown,
		Sentiment:    models.SentimentNegative,
		PriceHistory: []float64{104, 103, 102, 101, 100},
	}
}

func neutralInput() models.PredictionInput {
	return models.PredictionInput{
		Symbol:       "BTCUSDT",
		Timeframe:    "1h",
		RSI:          50,
		MACD:         0,
		Volume:       1.5e9,
		Trend:        models.TrendSideways,
		Sentiment:    models.SentimentNeutral,
		PriceHistory: []float64{100, 100.1},
	}
}

func checkInvariants(t *testing.T, r models.PredictionResult) {
	t.Helper()
	if r.ProbabilityUp+r.ProbabilityDown != 100 {
		t.Errorf("probability complement violated: up=%d down=%d", r.ProbabilityUp, r.ProbabilityDown)
	}
	if r.Confidence < 30 || r.Confidence > 95 {
		t.Errorf("confidence out of [30,95]: %d", r.Confidence)
	}
	if r.Timestamp.IsZero() {
		t.Errorf("timestamp not set")
	}
}

func TestTechnicalStrongBuyScenario(t *testing.T) {
	m := NewTechnicalModel(fixedRand{0.5})
	r := m.Predict(bullishInput())
	checkInvariants(t, r)

	if r.Prediction != models.SignalBuy {
		t.Fatalf("expected buy, got %s (%s)", r.Prediction, r.Reasoning)
	}
	// 9 bullish signals cap probability-up at 90
	if r.ProbabilityUp != 90 || r.ProbabilityDown != 10 {
		t.Errorf("expected 90/10 split, got %d/%d", r.ProbabilityUp, r.ProbabilityDown)
	}
	if r.Confidence != 95 {
		t.Errorf("expected clamped confidence 95, got %d", r.Confidence)
	}
	if r.RiskLevel != models.RiskLow {
		t.Errorf("expected low risk at high confidence, got %s", r.RiskLevel)
	}
	if r.TargetPrice <= 104 {
		t.Errorf("buy target should exceed current price, got %v", r.TargetPrice)
	}
	if r.StopLoss >= 104 {
		t.Errorf("buy stop-loss should be below current price, got %v", r.StopLoss)
	}
}

func TestTechnicalStrongSellScenario(t *testing.T) {
	m := NewTechnicalModel(fixedRand{0.5})
	r := m.Predict(bearishInput())
	checkInvariants(t, r)

	if r.Prediction != models.SignalSell {
		t.Fatalf("expected sell, got %s (%s)", r.Prediction, r.Reasoning)
	}
	if r.ProbabilityDown != 90 || r.ProbabilityUp != 10 {
		t.Errorf("expected 10/90 split, got %d/%d", r.ProbabilityUp, r.ProbabilityDown)
	}
	if r.TargetPrice >= 100 {
		t.Errorf("sell target should be below current price, got %v", r.TargetPrice)
	}
	if r.StopLoss <= 100 {
		t.Errorf("sell stop-loss should be above current price, got %v", r.StopLoss)
	}
}

func TestTechnicalHoldNeutralBand(t *testing.T) {
	m := NewTechnicalModel(fixedRand{0.5})
	r := m.Predict(neutralInput())
	checkInvariants(t, r)

	if r.Prediction != models.SignalHold {
		t.Fatalf("expected hold, got %s", r.Prediction)
	}
	// pinned source: 45 + 0.5*10 = 50
	if r.ProbabilityUp != 50 || r.ProbabilityDown != 50 {
		t.Errorf("expected pinned 50/50, got %d/%d", r.ProbabilityUp, r.ProbabilityDown)
	}
	if r.RiskLevel != models.RiskMedium {
		t.Errorf("hold should carry medium risk, got %s", r.RiskLevel)
	}
	if r.TargetPrice != 100.1 {
		t.Errorf("hold target should equal current price, got %v", r.TargetPrice)
	}
}

func TestTechnicalHoldProbabilityRange(t *testing.T) {
	for _, v := range []float64{0, 0.25, 0.999} {
		m := NewTechnicalModel(fixedRand{v})
		r := m.Predict(neutralInput())
		if r.ProbabilityUp < 45 || r.ProbabilityUp > 55 {
			t.Errorf("hold probability outside neutral band: %d (rand=%v)", r.ProbabilityUp, v)
		}
		checkInvariants(t, r)
	}
}

func TestWeightedModelSell(t *testing.T) {
	m := NewWeightedModel()
	r := m.Predict(models.PredictionInput{
		Symbol:       "BTCUSDT",
		RSI:          10,
		MACD:         -0.005,
		Volume:       0,
		Trend:        models.TrendDown,
		Sentiment:    models.SentimentNegative,
		PriceHistory: []float64{50000},
	})
	checkInvariants(t, r)

	if r.Prediction != models.SignalSell {
		t.Fatalf("expected sell, got %s (%s)", r.Prediction, r.Reasoning)
	}
	if r.RiskLevel != models.RiskLow {
		t.Errorf("expected low risk above 80 confidence, got %s at %d", r.RiskLevel, r.Confidence)
	}
	if r.StopLoss != 50000*1.03 {
		t.Errorf("sell stop should be fixed 1.03x, got %v", r.StopLoss)
	}
}

func TestWeightedModelNeutralHolds(t *testing.T) {
	m := NewWeightedModel()
	r := m.Predict(neutralInput())
	checkInvariants(t, r)
	if r.Prediction != models.SignalHold {
		t.Fatalf("expected hold on neutral features, got %s", r.Prediction)
	}
}

func TestWeightedModelDeterministic(t *testing.T) {
	m := NewWeightedModel()
	in := bullishInput()
	a := m.Predict(in)
	b := m.Predict(in)
	a.Timestamp, b.Timestamp = time.Time{}, time.Time{}
	if a != b {
		t.Fatalf("weighted model must be deterministic: %+v vs %+v", a, b)
	}
}

func TestEnsembleAgreementBonus(t *testing.T) {
	tr := models.PredictionResult{Prediction: models.SignalBuy, ProbabilityUp: 80, ProbabilityDown: 20, Confidence: 80, TargetPrice: 110, StopLoss: 95}
	mr := models.PredictionResult{Prediction: models.SignalBuy, ProbabilityUp: 70, ProbabilityDown: 30, Confidence: 75, TargetPrice: 108, StopLoss: 97}

	e := NewEnsembleModel(stubModel{"technical", tr}, stubModel{"ml", mr})
	r := e.Predict(bullishInput())
	checkInvariants(t, r)

	wantConf := int(math.Round(math.Min(95, (0.6*80+0.4*75)*1.1)))
	if r.Confidence != wantConf {
		t.Errorf("agreement bonus: want confidence %d, got %d", wantConf, r.Confidence)
	}
	wantUp := int(math.Round(0.6*80 + 0.4*70))
	if r.ProbabilityUp != wantUp {
		t.Errorf("want blended probability %d, got %d", wantUp, r.ProbabilityUp)
	}
	if r.Prediction != models.SignalBuy {
		t.Errorf("expected buy, got %s", r.Prediction)
	}
	if r.TargetPrice != 109 || r.StopLoss != 96 {
		t.Errorf("target/stop should be sub-model means, got %v/%v", r.TargetPrice, r.StopLoss)
	}
}

func TestEnsembleDisagreementPenalty(t *testing.T) {
	tr := models.PredictionResult{Prediction: models.SignalBuy, ProbabilityUp: 80, ProbabilityDown: 20, Confidence: 80, TargetPrice: 110, StopLoss: 95}
	mr := models.PredictionResult{Prediction: models.SignalHold, ProbabilityUp: 50, ProbabilityDown: 50, Confidence: 75, TargetPrice: 100, StopLoss: 98}

	e := NewEnsembleModel(stubModel{"technical", tr}, stubModel{"ml", mr})
	r := e.Predict(bullishInput())
	checkInvariants(t, r)

	wantConf := int(math.Round((0.6*80 + 0.4*75) * 0.9))
	if r.Confidence != wantConf {
		t.Errorf("disagreement penalty: want confidence %d, got %d", wantConf, r.Confidence)
	}
}

func TestEnsembleEndToEndInvariants(t *testing.T) {
	reg := NewRegistry(fixedRand{0.5})
	for _, in := range []models.PredictionInput{bullishInput(), bearishInput(), neutralInput()} {
		for _, name := range reg.Names() {
			r := reg.Resolve(name).Predict(in)
			checkInvariants(t, r)
		}
	}
}

func TestRegistryDefaultsToEnsemble(t *testing.T) {
	reg := NewRegistry(fixedRand{0.5})
	if got := reg.Resolve("").Name(); got != "ensemble" {
		t.Fatalf("empty selector should resolve to ensemble, got %s", got)
	}
	if got := reg.Resolve("nonsense").Name(); got != "ensemble" {
		t.Fatalf("unknown selector should resolve to ensemble, got %s", got)
	}
	if got := reg.Resolve("technical").Name(); got != "technical" {
		t.Fatalf("expected technical, got %s", got)
	}
	if got := reg.Resolve("ml").Name(); got != "ml" {
		t.Fatalf("expected ml, got %s", got)
	}
}
