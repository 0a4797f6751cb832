package sim_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/neonsurge/internal/game/player"
	"github.com/cory-johannsen/neonsurge/internal/game/sim"
)

type countingSource struct {
	calls  int
	deltas []time.Duration
	next   func() sim.Frame
}

func (s *countingSource) Frame(delta time.Duration) sim.Frame {
	s.calls++
	s.deltas = append(s.deltas, delta)
	f := sim.Frame{}
	if s.next != nil {
		f = s.next()
	}
	f.Delta = delta
	return f
}

func TestNewLoop_RejectsNonPositiveInterval(t *testing.T) {
	h := newHarness(t, 0.99)
	assert.Panics(t, func() { sim.NewLoop(h.world, &countingSource{}, 0, nil) })
}

func TestLoop_StepUsesInterval(t *testing.T) {
	h := newHarness(t, 0.99)
	src := &countingSource{}
	l := sim.NewLoop(h.world, src, 20*time.Millisecond, nil)

	r := l.Step()
	assert.Equal(t, uint64(1), r.Tick)
	assert.Equal(t, []time.Duration{20 * time.Millisecond}, src.deltas)
	assert.Equal(t, start.Add(20*time.Millisecond), h.world.Now())
}

func TestLoop_PausedStepSkipsSource(t *testing.T) {
	h := newHarness(t, 0.99)
	src := &countingSource{}
	l := sim.NewLoop(h.world, src, 20*time.Millisecond, nil)
	h.world.SetPaused(true)

	r := l.Step()
	assert.True(t, r.Paused)
	assert.Zero(t, src.calls)
	assert.Equal(t, start, h.world.Now())
}

func TestLoop_RunStopsOnCancel(t *testing.T) {
	h := newHarness(t, 0.99)
	src := &countingSource{}
	l := sim.NewLoop(h.world, src, 2*time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := l.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Positive(t, src.calls)
	assert.False(t, h.world.Over())
}

func TestLoop_RunEndsWhenPlayerDies(t *testing.T) {
	h := newHarness(t, 0.99)
	h.world.Player().Actor.Health = 1
	src := &countingSource{next: func() sim.Frame {
		enemies := h.world.Enemies()
		if len(enemies) == 0 {
			return sim.Frame{}
		}
		return sim.Frame{Collisions: []sim.Collision{{Kind: sim.ActorActor, A: player.ID, B: enemies[0].ID}}}
	}}
	l := sim.NewLoop(h.world, src, time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, l.Run(ctx))
	assert.True(t, h.world.Over())
	assert.Equal(t, 1, src.calls)
}
