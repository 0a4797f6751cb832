package behavior

import (
	"time"

	"github.com/cory-johannsen/neonsurge/internal/game/combat"
	"github.com/cory-johannsen/neonsurge/internal/game/content"
	"github.com/cory-johannsen/neonsurge/internal/game/geom"
)

// Mode is a shooter's distance-driven sub-state.
type Mode int

const (
	Approach Mode = iota
	Hold
	Retreat
)

// ShooterMode classifies distance against the preferred range and band.
// It is a pure function re-evaluated every tick.
func ShooterMode(distance, rng, band float64) Mode {
	switch {
	case distance > rng+band:
		return Approach
	case distance < rng-band:
		return Retreat
	default:
		return Hold
	}
}

type shooterBrain struct {
	attack   content.RangedAttack
	size     float64
	lastShot time.Time
	fired    bool
}

func (b *shooterBrain) Behave(self *combat.Actor, ctx Context) Intent {
	if !ctx.PlayerAlive || !self.Alive() {
		return Intent{}
	}
	d := geom.Distance(ctx.Self, ctx.Player)
	var in Intent
	switch ShooterMode(d, b.attack.Range, b.attack.Band) {
	case Approach:
		in.Velocity = Toward(ctx.Self, ctx.Player, self.BaseSpeed)
	case Retreat:
		in.Velocity = Toward(ctx.Self, ctx.Player, self.BaseSpeed).Scale(-1)
	}
	if d <= b.attack.Range && (!b.fired || ctx.Now.Sub(b.lastShot) >= b.attack.Cooldown) {
		b.lastShot = ctx.Now
		b.fired = true
		in.Shots = append(in.Shots, Shot{
			Heading:  geom.Angle(ctx.Self, ctx.Player),
			Speed:    b.attack.BulletSpeed,
			Damage:   self.BaseDamage,
			Size:     b.size,
			Lifetime: b.attack.Lifetime,
		})
	}
	return in
}
