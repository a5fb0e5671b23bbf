// Package random provides the injectable randomness used by the director.
//
// Every roll in the gameplay code goes through a Source so that sessions can
// be replayed from a seed and tests can script exact outcomes.
package random

import (
	"math/rand/v2"
	"sync"
)

// Source yields uniformly distributed numbers in [0, 1).
type Source interface {
	Float64() float64
}

// Seeded is a deterministic Source backed by a PCG generator.
// It is safe for concurrent use.
type Seeded struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeeded creates a Source that replays the same stream for the same seed.
func NewSeeded(seed uint64) *Seeded {
	return &Seeded{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewSeed returns a fresh seed for runs that need not be reproducible.
func NewSeed() uint64 {
	return rand.Uint64()
}

// Float64 implements Source.
func (s *Seeded) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// sequence cycles through a fixed list of values.
type sequence struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// Sequence returns a Source that cycles through values. An empty list yields 0.
func Sequence(values ...float64) Source {
	return &sequence{values: values}
}

func (s *sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// Fixed returns a Source that always yields v.
func Fixed(v float64) Source {
	return Sequence(v)
}

// Intn returns a value in [0, n). It returns 0 when n <= 0.
func Intn(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(src.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// WeightedIndex picks an index with probability proportional to its weight.
// Non-positive weights are never picked. Returns -1 when nothing can be picked.
func WeightedIndex(src Source, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}

	roll := src.Float64() * total
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = i
		if roll < w {
			return i
		}
		roll -= w
	}
	return last
}

// Shuffle performs a Fisher-Yates shuffle over n elements using swap.
func Shuffle(src Source, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := Intn(src, i+1)
		swap(i, j)
	}
}
