package physics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/neonsurge/internal/game/geom"
	"github.com/cory-johannsen/neonsurge/internal/game/physics"
	"github.com/cory-johannsen/neonsurge/internal/game/sim"
)

var bounds = geom.Bounds{Width: 1000, Height: 1000}

func TestStep_IntegratesVelocity(t *testing.T) {
	s := physics.NewSpace(bounds)
	s.Place(sim.Body{ID: "a", Kind: sim.BodyActor, Position: geom.Vec{X: 100, Y: 100}, Radius: 5})
	s.SetVelocity("a", geom.Vec{X: 100, Y: -50})
	s.Step(500 * time.Millisecond)
	pos, ok := s.Position("a")
	require.True(t, ok)
	assert.InDelta(t, 150, pos.X, 1e-9)
	assert.InDelta(t, 75, pos.Y, 1e-9)
}

func TestStep_ActorBlockedByWallPerAxis(t *testing.T) {
	s := physics.NewSpace(bounds)
	s.SetWalls([]geom.Rect{{Center: geom.Vec{X: 200, Y: 100}, Width: 20, Height: 400}})
	s.Place(sim.Body{ID: "a", Kind: sim.BodyActor, Position: geom.Vec{X: 170, Y: 100}, Radius: 10})
	s.SetVelocity("a", geom.Vec{X: 100, Y: 100})
	s.Step(100 * time.Millisecond)
	pos, _ := s.Position("a")
	assert.InDelta(t, 170, pos.X, 1e-9, "x motion into the wall is refused")
	assert.InDelta(t, 110, pos.Y, 1e-9, "y motion along the wall proceeds")
}

func TestStep_ActorClampedToBounds(t *testing.T) {
	s := physics.NewSpace(bounds)
	s.Place(sim.Body{ID: "a", Kind: sim.BodyActor, Position: geom.Vec{X: 990, Y: 500}, Radius: 15})
	s.SetVelocity("a", geom.Vec{X: 1000})
	s.Step(time.Second)
	pos, _ := s.Position("a")
	assert.InDelta(t, 985, pos.X, 1e-9)
}

func TestOverlaps_ReportsEveryPairKind(t *testing.T) {
	s := physics.NewSpace(bounds)
	s.SetWalls([]geom.Rect{{Center: geom.Vec{X: 500, Y: 500}, Width: 10, Height: 10}})
	s.Place(sim.Body{ID: "player", Kind: sim.BodyActor, Position: geom.Vec{X: 100, Y: 100}, Radius: 15})
	s.Place(sim.Body{ID: "enemy", Kind: sim.BodyActor, Position: geom.Vec{X: 120, Y: 100}, Radius: 10})
	s.Place(sim.Body{ID: "bullet", Kind: sim.BodyProjectile, Position: geom.Vec{X: 125, Y: 100}, Radius: 2})
	s.Place(sim.Body{ID: "wallshot", Kind: sim.BodyProjectile, Position: geom.Vec{X: 503, Y: 500}, Radius: 2})
	s.Place(sim.Body{ID: "coin", Kind: sim.BodyPickup, Position: geom.Vec{X: 90, Y: 100}, Radius: 10})

	got := s.Overlaps()
	assert.Equal(t, []sim.Collision{
		{Kind: sim.ProjectileActor, A: "bullet", B: "enemy"},
		{Kind: sim.ProjectileWall, A: "wallshot"},
		{Kind: sim.ActorActor, A: "player", B: "enemy"},
		{Kind: sim.ActorPickup, A: "player", B: "coin"},
	}, got)
}

func TestOverlaps_ProjectileLeavingBoundsHitsWall(t *testing.T) {
	s := physics.NewSpace(bounds)
	s.Place(sim.Body{ID: "p", Kind: sim.BodyProjectile, Position: geom.Vec{X: 995, Y: 500}, Velocity: geom.Vec{X: 100}, Radius: 2})
	got := s.Step(100 * time.Millisecond)
	require.Len(t, got, 1)
	assert.Equal(t, sim.ProjectileWall, got[0].Kind)
}

func TestRemove(t *testing.T) {
	s := physics.NewSpace(bounds)
	s.Place(sim.Body{ID: "a", Kind: sim.BodyActor})
	s.Place(sim.Body{ID: "a", Kind: sim.BodyActor, Position: geom.Vec{X: 1}})
	assert.Equal(t, 1, s.Len())
	s.Remove("a")
	s.Remove("a")
	_, ok := s.Position("a")
	assert.False(t, ok)
	assert.Zero(t, s.Len())
}

func TestCircleRect(t *testing.T) {
	r := geom.Rect{Center: geom.Vec{X: 0, Y: 0}, Width: 10, Height: 10}
	assert.True(t, physics.CircleRect(geom.Vec{X: 0, Y: 0}, 1, r))
	assert.True(t, physics.CircleRect(geom.Vec{X: 8, Y: 0}, 3, r))
	assert.False(t, physics.CircleRect(geom.Vec{X: 9, Y: 0}, 3, r))
	assert.False(t, physics.CircleRect(geom.Vec{X: 8, Y: 8}, 3, r), "corner distance is diagonal")
}

func TestProperty_CirclesSymmetric(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := geom.Vec{X: rapid.Float64Range(-100, 100).Draw(rt, "ax"), Y: rapid.Float64Range(-100, 100).Draw(rt, "ay")}
		b := geom.Vec{X: rapid.Float64Range(-100, 100).Draw(rt, "bx"), Y: rapid.Float64Range(-100, 100).Draw(rt, "by")}
		ra := rapid.Float64Range(0, 50).Draw(rt, "ra")
		rb := rapid.Float64Range(0, 50).Draw(rt, "rb")
		assert.Equal(rt, physics.Circles(a, ra, b, rb), physics.Circles(b, rb, a, ra))
	})
}

var _ sim.Physics = (*physics.Space)(nil)
