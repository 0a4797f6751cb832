// Package physics is a kinematic circle-and-wall space used to drive the
// simulation headlessly. It integrates velocities and reports overlaps.
package physics

import (
	"slices"
	"time"

	"github.com/cory-johannsen/neonsurge/internal/game/geom"
	"github.com/cory-johannsen/neonsurge/internal/game/sim"
)

// Space holds bodies and walls. It is not safe for concurrent use.
type Space struct {
	bounds geom.Bounds
	bodies map[string]*sim.Body
	order  []string
	walls  []geom.Rect
}

// NewSpace returns an empty space over bounds.
func NewSpace(bounds geom.Bounds) *Space {
	return &Space{bounds: bounds, bodies: make(map[string]*sim.Body)}
}

// Position implements sim.Physics.
func (s *Space) Position(id string) (geom.Vec, bool) {
	b, ok := s.bodies[id]
	if !ok {
		return geom.Vec{}, false
	}
	return b.Position, true
}

// Place implements sim.Physics.
func (s *Space) Place(b sim.Body) {
	if _, exists := s.bodies[b.ID]; !exists {
		s.order = append(s.order, b.ID)
	}
	body := b
	s.bodies[b.ID] = &body
}

// SetVelocity implements sim.Physics.
func (s *Space) SetVelocity(id string, v geom.Vec) {
	if b, ok := s.bodies[id]; ok {
		b.Velocity = v
	}
}

// Remove implements sim.Physics.
func (s *Space) Remove(id string) {
	if _, ok := s.bodies[id]; !ok {
		return
	}
	delete(s.bodies, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
}

// SetWalls implements sim.Physics.
func (s *Space) SetWalls(walls []geom.Rect) {
	s.walls = slices.Clone(walls)
}

// Walls returns the current wall set.
func (s *Space) Walls() []geom.Rect { return s.walls }

// Len returns the number of bodies.
func (s *Space) Len() int { return len(s.order) }

// Step integrates every body over delta, then reports the overlaps of the
// resulting state. Actors are stopped by walls per axis and kept inside the
// bounds; projectiles pass through and report wall contact instead.
//
// Postcondition: collisions are ordered by body insertion order.
func (s *Space) Step(delta time.Duration) []sim.Collision {
	dt := delta.Seconds()
	for _, id := range s.order {
		b := s.bodies[id]
		switch b.Kind {
		case sim.BodyActor:
			s.moveActor(b, dt)
		case sim.BodyProjectile:
			b.Position = b.Position.Add(b.Velocity.Scale(dt))
		}
	}
	return s.Overlaps()
}

func (s *Space) moveActor(b *sim.Body, dt float64) {
	if b.Velocity.IsZero() {
		return
	}
	// A body that starts inside a wall may move freely until it is clear.
	stuck := s.hitsWall(b.Position, b.Radius)
	next := geom.Vec{X: b.Position.X + b.Velocity.X*dt, Y: b.Position.Y}
	if stuck || !s.hitsWall(next, b.Radius) {
		b.Position = next
	}
	next = geom.Vec{X: b.Position.X, Y: b.Position.Y + b.Velocity.Y*dt}
	if stuck || !s.hitsWall(next, b.Radius) {
		b.Position = next
	}
	b.Position = s.bounds.ClampInset(b.Position, b.Radius)
}

func (s *Space) hitsWall(c geom.Vec, r float64) bool {
	for _, w := range s.walls {
		if CircleRect(c, r, w) {
			return true
		}
	}
	return false
}

// Overlaps reports every current overlap without moving anything.
func (s *Space) Overlaps() []sim.Collision {
	var actors, projectiles, pickups []*sim.Body
	for _, id := range s.order {
		b := s.bodies[id]
		switch b.Kind {
		case sim.BodyActor:
			actors = append(actors, b)
		case sim.BodyProjectile:
			projectiles = append(projectiles, b)
		case sim.BodyPickup:
			pickups = append(pickups, b)
		}
	}

	var out []sim.Collision
	for _, p := range projectiles {
		for _, a := range actors {
			if Circles(p.Position, p.Radius, a.Position, a.Radius) {
				out = append(out, sim.Collision{Kind: sim.ProjectileActor, A: p.ID, B: a.ID})
			}
		}
		if s.hitsWall(p.Position, p.Radius) || !s.inside(p.Position) {
			out = append(out, sim.Collision{Kind: sim.ProjectileWall, A: p.ID})
		}
	}
	for i, a := range actors {
		for _, b := range actors[i+1:] {
			if Circles(a.Position, a.Radius, b.Position, b.Radius) {
				out = append(out, sim.Collision{Kind: sim.ActorActor, A: a.ID, B: b.ID})
			}
		}
	}
	for _, a := range actors {
		for _, pk := range pickups {
			if Circles(a.Position, a.Radius, pk.Position, pk.Radius) {
				out = append(out, sim.Collision{Kind: sim.ActorPickup, A: a.ID, B: pk.ID})
			}
		}
	}
	return out
}

func (s *Space) inside(p geom.Vec) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= s.bounds.Width && p.Y <= s.bounds.Height
}

// Circles reports whether two circles touch or overlap.
func Circles(a geom.Vec, ra float64, b geom.Vec, rb float64) bool {
	return geom.Distance(a, b) <= ra+rb
}

// CircleRect reports whether a circle touches or overlaps a rectangle.
func CircleRect(c geom.Vec, r float64, rect geom.Rect) bool {
	hw, hh := rect.Width/2, rect.Height/2
	nearest := geom.Vec{
		X: geom.Clamp(c.X, rect.Center.X-hw, rect.Center.X+hw),
		Y: geom.Clamp(c.Y, rect.Center.Y-hh, rect.Center.Y+hh),
	}
	return geom.Distance(c, nearest) <= r
}
