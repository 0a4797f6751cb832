// Package behavior implements per-archetype movement and attack policies.
//
// Each archetype is a Brain selected by an enum discriminant. A Brain returns
// an Intent; it never moves actors or spawns projectiles itself.
package behavior

import (
	"time"

	"github.com/cory-johannsen/neonsurge/internal/game/combat"
	"github.com/cory-johannsen/neonsurge/internal/game/content"
	"github.com/cory-johannsen/neonsurge/internal/game/geom"
)

// Archetype is the behaviour discriminant.
type Archetype int

const (
	Chaser Archetype = iota
	Shooter
	Speedy
	Tank
	Boss
)

// String returns the content ID of the archetype.
func (a Archetype) String() string {
	switch a {
	case Chaser:
		return "chaser"
	case Shooter:
		return "shooter"
	case Speedy:
		return "speedy"
	case Tank:
		return "tank"
	case Boss:
		return "boss"
	default:
		return "unknown"
	}
}

// ArchetypeFor maps a content definition onto a behaviour. Unknown IDs fall
// back on their shape: a boss profile means Boss, a ranged attack means
// Shooter, anything else chases.
func ArchetypeFor(def *content.ArchetypeDef) Archetype {
	switch {
	case def.IsBoss():
		return Boss
	case def.ID == "speedy":
		return Speedy
	case def.ID == "tank":
		return Tank
	case def.Ranged != nil:
		return Shooter
	default:
		return Chaser
	}
}

// Context is the read-only world view a Brain decides from.
type Context struct {
	Self geom.Vec
	// Player is meaningful only when PlayerAlive is true.
	Player      geom.Vec
	PlayerAlive bool
	Now         time.Time
}

// Shot is a request to spawn one enemy projectile.
type Shot struct {
	Heading  float64
	Speed    float64
	Damage   float64
	Size     float64
	Lifetime time.Duration
}

// Intent is a Brain's decision for one tick.
type Intent struct {
	Velocity geom.Vec
	Shots    []Shot
	// PhaseEntered is non-zero on the tick a boss enters a new phase.
	PhaseEntered Phase
}

// Brain decides an actor's movement and attacks each tick.
type Brain interface {
	Behave(self *combat.Actor, ctx Context) Intent
}

// NewBrain returns the Brain for def.
//
// Postcondition: the returned Brain owns any per-actor cooldown state and must
// not be shared between actors.
func NewBrain(def *content.ArchetypeDef) Brain {
	switch ArchetypeFor(def) {
	case Boss:
		return NewBossBrain(def.Boss)
	case Shooter:
		if def.Ranged != nil {
			return &shooterBrain{attack: *def.Ranged, size: def.Size / 3}
		}
	}
	return chaseBrain{}
}

// Toward returns the velocity of magnitude speed from from toward to.
func Toward(from, to geom.Vec, speed float64) geom.Vec {
	if from == to {
		return geom.Vec{}
	}
	return geom.FromAngle(geom.Angle(from, to), speed)
}

// chaseBrain moves straight at the player; damage is dealt on contact.
type chaseBrain struct{}

func (chaseBrain) Behave(self *combat.Actor, ctx Context) Intent {
	if !ctx.PlayerAlive || !self.Alive() {
		return Intent{}
	}
	return Intent{Velocity: Toward(ctx.Self, ctx.Player, self.BaseSpeed)}
}
