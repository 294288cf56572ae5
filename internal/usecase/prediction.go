package usecase

import (
	"time"

	"TradePulse/internal/domain/models"
	repo "TradePulse/internal/domain/repository"
	"TradePulse/internal/service/cache"
	"TradePulse/internal/services/predictor"
)

// ModelInfo describes one selectable prediction model.
type ModelInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Accuracy    string `json:"accuracy"`
	Speed       string `json:"speed"`
}

// PredictionService fronts the model registry with the freshness cache.
// The cache key deliberately excludes the model selector: within one
// freshness window all selectors see the first result computed for the
// (symbol, timeframe, period) triple.
type PredictionService struct {
	registry *predictor.Registry
	cache    *cache.PredictionCache
	metrics  repo.Metrics
}

func NewPredictionService(registry *predictor.Registry, c *cache.PredictionCache, metrics repo.Metrics) *PredictionService {
	return &PredictionService{registry: registry, cache: c, metrics: metrics}
}

// Predict scores the snapshot with the selected model, serving a fresh
// cached result when one exists. The second return reports a cache hit.
func (s *PredictionService) Predict(in models.PredictionInput, modelName string) (models.PredictionResult, bool) {
	key := cache.Key(in.Symbol, in.Timeframe, in.PredictPeriod)
	if res, ok := s.cache.Get(key); ok {
		s.metrics.RecordCacheLookup(true)
		return res, true
	}
	s.metrics.RecordCacheLookup(false)

	m := s.registry.Resolve(modelName)
	start := time.Now()
	res := m.Predict(in)
	s.metrics.RecordLatency("predict", time.Since(start).Seconds())
	s.metrics.RecordPrediction(m.Name(), string(res.Prediction))

	s.cache.Put(key, res)
	return res, false
}

// Models lists the available selectors for the discovery endpoint.
func (s *PredictionService) Models() []ModelInfo {
	return []ModelInfo{
		{Name: "technical", Description: "Rule battery over RSI, MACD, trend, volume, sentiment and momentum", Accuracy: "75%", Speed: "fast"},
		{Name: "ml", Description: "Weighted feature model with logistic output", Accuracy: "78%", Speed: "medium"},
		{Name: "ensemble", Description: "Blend of technical and ml with an agreement bonus", Accuracy: "82%", Speed: "medium"},
	}
}
