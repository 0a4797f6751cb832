// Package dice provides the randomness abstraction used by every probabilistic
// rule in the simulation: evasion, loot, currency, spawn placement.
package dice

// Source is the randomness provider for all draws.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// floatResolution is the number of distinct values Float can return; 2^53
// keeps every draw exactly representable as a float64.
const floatResolution = 1 << 53

// Float returns a uniform draw in [0, 1) from src.
//
// Postcondition: 0 <= result < 1.
func Float(src Source) float64 {
	return float64(src.Intn(floatResolution)) / floatResolution
}
