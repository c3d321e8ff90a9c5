package domain

import (
	"github.com/alphalist/backend/pkg/crypto"
)

type WeightedCandidate struct {
	UserID string
	Weight float64
}

// Sampler picks one candidate proportionally to weight. Every call costs one
// attempt: it may decline the pick, and the caller owns the attempt budget.
type Sampler interface {
	Pick(candidates []WeightedCandidate) (int, bool)
}

// rejectionSampler picks a uniformly random candidate and accepts it with
// probability weight/maxWeight.
type rejectionSampler struct{}

func NewRejectionSampler() *rejectionSampler {
	return &rejectionSampler{}
}

func (s *rejectionSampler) Pick(candidates []WeightedCandidate) (int, bool) {
	if len(candidates) == 0 {
		return 0, false
	}

	maxWeight := candidates[0].Weight
	for _, c := range candidates[1:] {
		if c.Weight > maxWeight {
			maxWeight = c.Weight
		}
	}

	if maxWeight <= 0 {
		return 0, false
	}

	i := crypto.RandIntn(len(candidates))
	if crypto.RandFloat64() < candidates[i].Weight/maxWeight {
		return i, true
	}

	return 0, false
}

// prefixSumSampler walks cumulative weights and always accepts. The random
// source is injectable so draws can be made deterministic.
type prefixSumSampler struct {
	rand func() float64
}

func NewPrefixSumSampler(rand func() float64) *prefixSumSampler {
	if rand == nil {
		rand = crypto.RandFloat64
	}

	return &prefixSumSampler{rand: rand}
}

func (s *prefixSumSampler) Pick(candidates []WeightedCandidate) (int, bool) {
	total := 0.0
	for _, c := range candidates {
		total += c.Weight
	}

	if total <= 0 {
		return 0, false
	}

	target := s.rand() * total
	cumulative := 0.0
	for i, c := range candidates {
		cumulative += c.Weight
		if target < cumulative {
			return i, true
		}
	}

	return len(candidates) - 1, true
}
