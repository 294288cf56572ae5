package cache

import (
	"encoding/json"
	"strings"
	"time"

	"TradePulse/internal/domain/models"
)

// DefaultFreshness is the reference freshness window for cached predictions.
const DefaultFreshness = 3 * time.Minute

// PredictionCache memoizes scored predictions per (symbol, timeframe,
// period) for a freshness window. A stale or missing entry is a miss; the
// caller recomputes and stores. Overwrites are idempotent, so a race between
// miss-detect and store costs at most a duplicate computation.
type PredictionCache struct {
	backend   BytesCache
	freshness time.Duration
}

func NewPredictionCache(backend BytesCache, freshness time.Duration) *PredictionCache {
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	return &PredictionCache{backend: backend, freshness: freshness}
}

// Key builds the cache key for one prediction request.
func Key(symbol, timeframe, period string) string {
	return strings.Join([]string{symbol, timeframe, period}, "|")
}

// Get returns the cached result for key when it is still fresh.
func (c *PredictionCache) Get(key string) (models.PredictionResult, bool) {
	var res models.PredictionResult
	b, ok, err := c.backend.GetBytes(key)
	if err != nil || !ok {
		return res, false
	}
	if err := json.Unmarshal(b, &res); err != nil {
		return res, false
	}
	return res, true
}

// Put stores a freshly computed result under key.
func (c *PredictionCache) Put(key string, res models.PredictionResult) {
	b, err := json.Marshal(res)
	if err != nil {
		return
	}
	_ = c.backend.SetBytes(key, b, c.freshness)
}
