package predictor

import (
	"math"
	"math/rand"
	"sync"
)

// Rand is the injectable randomness source. Only the technical model's hold
// branch draws from it; everything else is a pure function of the input.
// *rand.Rand satisfies it, so tests can pin a seed.
type Rand interface {
	Float64() float64
}

type lockedRand struct {
	mu  sync.Mutex
	src *rand.Rand
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Float64()
}

// NewSeededRand returns a seedable source safe for concurrent scoring.
func NewSeededRand(seed int64) Rand {
	return &lockedRand{src: rand.New(rand.NewSource(seed))}
}

const (
	confidenceFloor = 30
	confidenceCeil  = 95

	// fallback when the caller supplies an empty price history
	defaultPrice = 50000
)

func clampConfidence(c float64) int {
	if c > confidenceCeil {
		c = confidenceCeil
	}
	if c < confidenceFloor {
		c = confidenceFloor
	}
	return int(math.Round(c))
}

// probPair rounds probability-up once and derives the complement from the
// rounded value, keeping the pair summed to exactly 100.
func probPair(up float64) (int, int) {
	u := int(math.Round(up))
	if u < 0 {
		u = 0
	}
	if u > 100 {
		u = 100
	}
	return u, 100 - u
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
