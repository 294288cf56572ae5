package predictor

import (
	"fmt"
	"time"

	"TradePulse/internal/domain/models"
	domsvc "TradePulse/internal/domain/service"
)

const (
	technicalWeight = 0.6
	mlWeight        = 0.4

	agreementBonus  = 1.1
	disagreePenalty = 0.9
)

// EnsembleModel blends the technical and feature-weighted models, scaling
// confidence up when the two agree on direction and down when they do not.
// This is the default model.
type EnsembleModel struct {
	technical domsvc.Model
	ml        domsvc.Model
}

func NewEnsembleModel(technical, ml domsvc.Model) *EnsembleModel {
	return &EnsembleModel{technical: technical, ml: ml}
}

func (m *EnsembleModel) Name() string { return "ensemble" }

func (m *EnsembleModel) Predict(in models.PredictionInput) models.PredictionResult {
	tr := m.technical.Predict(in)
	mr := m.ml.Predict(in)

	upF := float64(tr.ProbabilityUp)*technicalWeight + float64(mr.ProbabilityUp)*mlWeight
	confF := float64(tr.Confidence)*technicalWeight + float64(mr.Confidence)*mlWeight

	agree := tr.Prediction == mr.Prediction
	if agree {
		confF *= agreementBonus
	} else {
		confF *= disagreePenalty
	}

	var signal models.Signal
	switch {
	case upF > 65 && confF > 70:
		signal = models.SignalBuy
	case upF < 35 && confF > 70:
		signal = models.SignalSell
	default:
		signal = models.SignalHold
	}

	risk := models.RiskHigh
	switch {
	case confF > 85:
		risk = models.RiskLow
	case confF > 65:
		risk = models.RiskMedium
	}

	up, down := probPair(upF)
	return models.PredictionResult{
		Symbol:          in.Symbol,
		Prediction:      signal,
		Confidence:      clampConfidence(confF),
		ProbabilityUp:   up,
		ProbabilityDown: down,
		TargetPrice:     (tr.TargetPrice + mr.TargetPrice) / 2,
		StopLoss:        (tr.StopLoss + mr.StopLoss) / 2,
		Reasoning:       fmt.Sprintf("ensemble blend - technical: %s, ml: %s, agreement: %t", tr.Prediction, mr.Prediction, agree),
		RiskLevel:       risk,
		ModelUsed:       "Ensemble Model v2.0 (Technical + ML)",
		Timestamp:       time.Now(),
	}
}

var _ domsvc.Model = (*EnsembleModel)(nil)

// Registry resolves a model by its selector name, defaulting to ensemble.
type Registry struct {
	technical domsvc.Model
	ml        domsvc.Model
	ensemble  domsvc.Model
}

// NewRegistry builds the three standard models over one randomness source.
func NewRegistry(rng Rand) *Registry {
	tech := NewTechnicalModel(rng)
	ml := NewWeightedModel()
	return &Registry{
		technical: tech,
		ml:        ml,
		ensemble:  NewEnsembleModel(tech, ml),
	}
}

// Resolve returns the model for name; unknown or empty names resolve to the
// ensemble.
func (r *Registry) Resolve(name string) domsvc.Model {
	switch name {
	case "technical":
		return r.technical
	case "ml":
		return r.ml
	default:
		return r.ensemble
	}
}

// Names lists the available model selectors.
func (r *Registry) Names() []string {
	return []string{"technical", "ml", "ensemble"}
}
