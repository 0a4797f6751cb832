package behavior

import (
	"time"

	"github.com/cory-johannsen/neonsurge/internal/game/combat"
	"github.com/cory-johannsen/neonsurge/internal/game/content"
	"github.com/cory-johannsen/neonsurge/internal/game/geom"
	"github.com/cory-johannsen/neonsurge/internal/game/invariant"
)

// Phase is a boss's combat mode. Higher numbers are entered at lower health.
type Phase int

const (
	PhaseNone Phase = iota
	Phase1
	Phase2
	Phase3
)

// bossBulletSize is the radius of boss projectiles.
const bossBulletSize = 6

// PhaseFor maps a health fraction onto a phase, checking thresholds high to low.
func PhaseFor(fraction float64, p *content.BossProfile) Phase {
	switch {
	case fraction > p.Phase2Above:
		return Phase1
	case fraction > p.Phase3Above:
		return Phase2
	default:
		return Phase3
	}
}

// BossBrain is the ratcheted three-phase boss state machine.
type BossBrain struct {
	profile     *content.BossProfile
	phase       Phase
	cfg         content.BossPhase
	lastShot    time.Time
	fired       bool
	lastDash    time.Time
	dashUntil   time.Time
	rotation    float64
	transitions int
}

// NewBossBrain creates a brain in Phase1.
//
// Precondition: profile must be non-nil.
func NewBossBrain(profile *content.BossProfile) *BossBrain {
	return &BossBrain{profile: profile, phase: Phase1, cfg: profile.Phases[0]}
}

// Phase returns the current phase.
func (b *BossBrain) Phase() Phase { return b.phase }

// Transitions returns how many phase changes have occurred.
func (b *BossBrain) Transitions() int { return b.transitions }

// Observe re-evaluates the phase for fraction at now. The phase only ever
// ratchets toward Phase3; observing a healthier fraction is ignored.
//
// Postcondition: returns the newly entered phase, or PhaseNone when unchanged.
func (b *BossBrain) Observe(fraction float64, now time.Time) Phase {
	next := PhaseFor(fraction, b.profile)
	if next <= b.phase {
		return PhaseNone
	}
	prev := b.phase
	b.phase = next
	b.cfg = b.profile.Phases[next-1]
	b.lastDash = now
	b.dashUntil = time.Time{}
	b.transitions++
	invariant.Check(b.phase > prev, "boss phase moved upward")
	return next
}

// Dashing reports whether a dash is in progress at now.
func (b *BossBrain) Dashing(now time.Time) bool {
	return now.Before(b.dashUntil)
}

// Behave advances the boss one tick.
func (b *BossBrain) Behave(self *combat.Actor, ctx Context) Intent {
	var in Intent
	in.PhaseEntered = b.Observe(self.HealthFraction(), ctx.Now)
	if !ctx.PlayerAlive || !self.Alive() {
		return in
	}
	b.rotation += b.profile.RotationStep

	speed := self.BaseSpeed * b.cfg.SpeedFactor
	switch {
	case b.Dashing(ctx.Now):
		in.Velocity = Toward(ctx.Self, ctx.Player, speed*b.cfg.DashFactor)
	case b.cfg.DashEvery > 0 && ctx.Now.Sub(b.lastDash) >= b.cfg.DashEvery:
		b.lastDash = ctx.Now
		b.dashUntil = ctx.Now.Add(b.cfg.DashDuration)
		in.Velocity = Toward(ctx.Self, ctx.Player, speed*b.cfg.DashFactor)
	default:
		move := b.cfg.MoveFactor
		if move == 0 {
			move = 1
		}
		in.Velocity = Toward(ctx.Self, ctx.Player, speed*move)
	}

	if b.fired && ctx.Now.Sub(b.lastShot) < b.cfg.Cooldown {
		return in
	}
	b.lastShot = ctx.Now
	b.fired = true
	var headings []float64
	if b.cfg.FanCount > 0 {
		headings = append(headings, combat.FanAngles(geom.Angle(ctx.Self, ctx.Player), b.cfg.FanCount, b.cfg.FanSpread)...)
	}
	if b.cfg.BarrageCount > 0 {
		headings = append(headings, combat.RingAngles(b.cfg.BarrageCount, b.rotation)...)
	}
	for _, h := range headings {
		in.Shots = append(in.Shots, Shot{
			Heading:  h,
			Speed:    b.cfg.BulletSpeed,
			Damage:   self.BaseDamage,
			Size:     bossBulletSize,
			Lifetime: b.profile.BulletLife,
		})
	}
	return in
}
