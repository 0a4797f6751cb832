// Package combat implements the actor model, damage resolution, and the
// weapon/projectile lifecycle.
package combat

import (
	"math"

	"github.com/cory-johannsen/neonsurge/internal/game/stats"
)

// Variant distinguishes the player from enemies and the boss.
type Variant int

const (
	VariantPlayer Variant = iota
	VariantEnemy
	VariantBoss
)

// String returns a human-readable variant label.
func (v Variant) String() string {
	switch v {
	case VariantPlayer:
		return "player"
	case VariantEnemy:
		return "enemy"
	case VariantBoss:
		return "boss"
	default:
		return "unknown"
	}
}

// Actor is one participant in the simulation. Position is owned by the
// physics collaborator and looked up by ID, never stored here.
type Actor struct {
	ID        string
	Variant   Variant
	Archetype string
	Health    float64
	MaxHealth float64
	BaseSpeed float64
	// BaseDamage is contact damage for enemies and the weapon-independent
	// damage baseline for the player.
	BaseDamage       float64
	ArmorBase        float64
	EvasionBase      float64
	DamageMultiplier float64
	Size             float64
	// ScoreValue is credited as score and experience on kill.
	ScoreValue int
	// Mods holds item and skill contributions; nil for actors without them.
	Mods *stats.Set
	// Dead is set once by the damage pipeline when Health reaches zero.
	Dead bool
}

// IsPlayer reports whether this actor is the player.
func (a *Actor) IsPlayer() bool { return a.Variant == VariantPlayer }

// IsBoss reports whether this actor is the boss.
func (a *Actor) IsBoss() bool { return a.Variant == VariantBoss }

// Alive reports whether the actor can still act and be damaged.
func (a *Actor) Alive() bool { return !a.Dead && a.Health > 0 }

// BaseValues returns the actor's unmodified stats by channel.
func (a *Actor) BaseValues() stats.Values {
	return stats.Values{}.
		With(stats.Speed, a.BaseSpeed).
		With(stats.DamageMultiplier, a.DamageMultiplier).
		With(stats.Armor, a.ArmorBase).
		With(stats.Evasion, a.EvasionBase)
}

// Effective resolves base stats against the actor's modifiers.
func (a *Actor) Effective() stats.Effective {
	return stats.Resolve(a.BaseValues(), a.Mods)
}

// HealthFraction returns Health/MaxHealth in [0, 1].
//
// Postcondition: returns 0 when MaxHealth <= 0.
func (a *Actor) HealthFraction() float64 {
	if a.MaxHealth <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, a.Health/a.MaxHealth))
}

// Heal raises Health by amount, clamped to MaxHealth. Dead actors and
// non-positive or non-finite amounts are ignored.
//
// Postcondition: Health <= MaxHealth.
func (a *Actor) Heal(amount float64) {
	if a.Dead || !(amount > 0) || math.IsInf(amount, 0) {
		return
	}
	a.Health = math.Min(a.MaxHealth, a.Health+amount)
}

// FullHeal restores Health to MaxHealth.
func (a *Actor) FullHeal() {
	if !a.Dead {
		a.Health = a.MaxHealth
	}
}

// RaiseMaxHealth adds delta to MaxHealth and the same amount to Health.
//
// Postcondition: 0 <= Health <= MaxHealth.
func (a *Actor) RaiseMaxHealth(delta float64) {
	a.MaxHealth += delta
	if a.MaxHealth < 0 {
		a.MaxHealth = 0
	}
	if !a.Dead {
		a.Health += delta
	}
	a.Health = math.Max(0, math.Min(a.Health, a.MaxHealth))
}

// GrantOneShot applies a one-time stat grant. Only the max-health channel has
// a one-time form; other channels are ignored.
func (a *Actor) GrantOneShot(ch stats.Channel, delta float64) {
	if ch == stats.MaxHealth {
		a.RaiseMaxHealth(delta)
	}
}
