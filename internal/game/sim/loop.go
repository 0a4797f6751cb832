package sim

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/neonsurge/internal/observability"
)

// FrameSource produces the next frame. It owns input sampling and physics
// stepping, so the collisions it reports are those of the elapsed delta.
type FrameSource interface {
	Frame(delta time.Duration) Frame
}

// Loop drives a World at a fixed interval.
type Loop struct {
	world    *World
	source   FrameSource
	interval time.Duration
	logger   *zap.Logger
}

// NewLoop returns a loop that ticks world every interval.
//
// Precondition: interval must be > 0; world and source must be non-nil.
func NewLoop(world *World, source FrameSource, interval time.Duration, logger *zap.Logger) *Loop {
	if interval <= 0 {
		panic("sim.NewLoop: interval must be > 0")
	}
	return &Loop{world: world, source: source, interval: interval, logger: observability.OrNop(logger)}
}

// Step runs one frame. While the world is paused the source is not asked for
// a frame, so neither input nor physics advance.
func (l *Loop) Step() Report {
	if l.world.Paused() || l.world.Over() {
		return l.world.Tick(Frame{})
	}
	return l.world.Tick(l.source.Frame(l.interval))
}

// Run steps the world once per interval until ctx is cancelled or the run ends.
//
// Postcondition: returns nil when the player died, ctx.Err() otherwise.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if r := l.Step(); r.Over {
				l.logger.Info("loop finished", zap.Uint64("ticks", r.Tick), zap.Int("score", l.world.Score()))
				return nil
			}
		}
	}
}
