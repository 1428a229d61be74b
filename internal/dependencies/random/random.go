package random

import (
	"math/rand/v2"
	"sync"
)

// Random provides random number generation that can be mocked for testing
type Random interface {
	// Float64 returns a random float in [0, 1)
	Float64() float64

	// Intn returns a random int in [0, n)
	Intn(n int) int
}

// MathRandom implements Random on a math/rand/v2 generator
type MathRandom struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New creates a MathRandom seeded from the runtime's random source
func New() *MathRandom {
	return NewSeeded(rand.Uint64(), rand.Uint64())
}

// NewSeeded creates a MathRandom with a fixed PCG seed, giving a repeatable sequence
func NewSeeded(seed1, seed2 uint64) *MathRandom {
	return &MathRandom{r: rand.New(rand.NewPCG(seed1, seed2))}
}

// Float64 returns a random float in [0, 1)
func (m *MathRandom) Float64() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.r.Float64()
}

// Intn returns a random int in [0, n), or 0 when n <= 0
func (m *MathRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.r.IntN(n)
}
