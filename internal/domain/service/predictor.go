package service

import (
	"TradePulse/internal/domain/models"
)

// Model scores one caller-supplied snapshot into a recommendation.
// Implementations are pure; only the hold branch of the technical model
// consumes randomness, through the injected source.
type Model interface {
	Name() string
	Predict(in models.PredictionInput) models.PredictionResult
}
