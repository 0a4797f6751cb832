// Package economy holds the credit balances of a run and the persisted
// lifetime total. State is passed explicitly; nothing here is global.
package economy

import (
	"context"
	"math"
)

// Persister reads and writes a named numeric value.
type Persister interface {
	LoadNumber(ctx context.Context, key string, def float64) float64
	SaveNumber(ctx context.Context, key string, value float64) bool
}

// State is the credit balance for one run.
type State struct {
	// RunCredits are the credits collected during the current run.
	RunCredits int
	// TotalCredits is the lifetime balance, including RunCredits.
	TotalCredits int

	key string
}

// Load reads the lifetime total stored under key.
//
// Precondition: p must be non-nil.
// Postcondition: RunCredits == 0; TotalCredits >= 0.
func Load(ctx context.Context, p Persister, key string) *State {
	total := p.LoadNumber(ctx, key, 0)
	if total < 0 || math.IsNaN(total) || total > math.MaxInt32 {
		total = 0
	}
	return &State{TotalCredits: int(total), key: key}
}

// Earn adds n credits to both balances. Non-positive amounts are ignored.
//
// Postcondition: Returns the new RunCredits.
func (s *State) Earn(n int) int {
	if n > 0 {
		s.RunCredits += n
		s.TotalCredits += n
	}
	return s.RunCredits
}

// Spend deducts n from the lifetime total.
//
// Postcondition: Returns false and leaves balances untouched when n <= 0 or
// TotalCredits < n.
func (s *State) Spend(n int) bool {
	if n <= 0 || s.TotalCredits < n {
		return false
	}
	s.TotalCredits -= n
	return true
}

// Save writes TotalCredits back under the key it was loaded from.
//
// Postcondition: Returns the persister's success flag.
func (s *State) Save(ctx context.Context, p Persister) bool {
	return p.SaveNumber(ctx, s.key, float64(s.TotalCredits))
}

// Key returns the persistence key this state was loaded from.
func (s *State) Key() string {
	return s.key
}
