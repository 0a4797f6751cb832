package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged draws.
// Every draw is logged at debug level with its label, value, and outcome.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from src and logs each draw to logger.
//
// Precondition: src must be non-nil. A nil logger discards log output.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// Float returns a uniform draw in [0, 1).
func (r *Roller) Float(label string) float64 {
	v := Float(r.src)
	r.logger.Debug("dice draw",
		zap.String("label", label),
		zap.Float64("value", v),
	)
	return v
}

// Chance draws once and reports whether the draw fell below p.
// p <= 0 never succeeds; p >= 1 always succeeds. A draw is consumed either way.
func (r *Roller) Chance(label string, p float64) bool {
	v := Float(r.src)
	ok := v < p
	r.logger.Debug("dice chance",
		zap.String("label", label),
		zap.Float64("probability", p),
		zap.Float64("value", v),
		zap.Bool("success", ok),
	)
	return ok
}

// Between returns a uniform draw in [lo, hi).
func (r *Roller) Between(label string, lo, hi float64) float64 {
	return lo + r.Float(label)*(hi-lo)
}

// Pick returns a uniform index in [0, n).
//
// Precondition: n > 0.
func (r *Roller) Pick(label string, n int) int {
	v := r.src.Intn(n)
	r.logger.Debug("dice pick",
		zap.String("label", label),
		zap.Int("n", n),
		zap.Int("value", v),
	)
	return v
}
