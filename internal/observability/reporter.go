package observability

import (
	"sync"

	"go.uber.org/zap"
)

// Reporter receives rejected-input warnings from gameplay operations.
//
// Gameplay code never fails on bad numeric input; it skips the mutation and
// reports here instead.
type Reporter interface {
	// InvalidInput records that op rejected value.
	InvalidInput(op string, value float64)
}

// ZapReporter forwards warnings to a zap logger at warn level.
type ZapReporter struct {
	logger *zap.Logger
}

// NewZapReporter returns a Reporter that logs through logger.
//
// Postcondition: a nil logger yields a reporter that discards everything.
func NewZapReporter(logger *zap.Logger) *ZapReporter {
	return &ZapReporter{logger: OrNop(logger)}
}

// InvalidInput logs the rejected value.
func (r *ZapReporter) InvalidInput(op string, value float64) {
	r.logger.Warn("invalid input rejected",
		zap.String("op", op),
		zap.Float64("value", value),
	)
}

// CountingReporter tallies warnings per operation. It is safe for concurrent use.
type CountingReporter struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewCountingReporter returns an empty CountingReporter.
func NewCountingReporter() *CountingReporter {
	return &CountingReporter{counts: make(map[string]int)}
}

// InvalidInput increments the tally for op.
func (c *CountingReporter) InvalidInput(op string, _ float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[op]++
}

// Count returns the number of warnings recorded for op.
func (c *CountingReporter) Count(op string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[op]
}

// Total returns the number of warnings recorded across all operations.
func (c *CountingReporter) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.counts {
		n += v
	}
	return n
}
