package dice

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
	"sync"
)

// cryptoSource implements Source using crypto/rand.
//
// Invariant: All values produced are cryptographically secure and uniformly
// distributed in [0, n) for any n > 0.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
// Panics with "dice: crypto/rand failure: <err>" if crypto/rand fails.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// seededSource is a deterministic PCG source for reproducible runs.
type seededSource struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeededSource returns a deterministic Source; equal seeds replay equal sequences.
func NewSeededSource(seed uint64) Source {
	return &seededSource{rng: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Intn returns a deterministic pseudo-random int in [0, n).
//
// Precondition: n > 0.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// ScriptedSource replays a fixed cycle of unit-interval draws.
// Each call to Intn(n) consumes one draw f and returns floor(f*n).
// It is safe for concurrent use.
type ScriptedSource struct {
	mu    sync.Mutex
	draws []float64
	next  int
}

// NewScriptedSource returns a source that cycles through draws.
//
// Precondition: len(draws) > 0; every draw is in [0, 1).
func NewScriptedSource(draws ...float64) *ScriptedSource {
	if len(draws) == 0 {
		panic("dice: NewScriptedSource requires at least one draw")
	}
	return &ScriptedSource{draws: draws}
}

// Intn maps the next scripted draw onto [0, n).
func (s *ScriptedSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	s.mu.Lock()
	f := s.draws[s.next%len(s.draws)]
	s.next++
	s.mu.Unlock()

	v := int(f * float64(n))
	if v >= n {
		v = n - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}

// Consumed returns how many draws have been taken.
func (s *ScriptedSource) Consumed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}
