package combat

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/neonsurge/internal/game/content"
	"github.com/cory-johannsen/neonsurge/internal/game/geom"
	"github.com/cory-johannsen/neonsurge/internal/game/stats"
)

const (
	// DefaultFanSpread is used when a multi-projectile shot has no spread of its own.
	DefaultFanSpread = 0.15
	// PenetratingMaxHits is how many distinct hits a penetrating projectile survives.
	PenetratingMaxHits = 3
)

// Faction separates player projectiles from enemy projectiles.
type Faction int

const (
	FactionPlayer Faction = iota
	FactionEnemy
)

// ShotModifiers carries the shooter's effective stats into a shot.
type ShotModifiers struct {
	DamageMultiplier float64
	ExtraBullets     int
	FireRateBonus    float64
	PenetrationBonus int
	ExplosionBonus   float64
}

// ShotModifiersFrom extracts the weapon-relevant channels from eff.
func ShotModifiersFrom(eff stats.Effective) ShotModifiers {
	return ShotModifiers{
		DamageMultiplier: eff.Stat(stats.DamageMultiplier),
		ExtraBullets:     eff.Whole(stats.ExtraBullets),
		FireRateBonus:    eff.Stat(stats.FireRateBonus),
		PenetrationBonus: eff.Whole(stats.PenetrationBonus),
		ExplosionBonus:   eff.Stat(stats.ExplosionBonus),
	}
}

// FanAngles returns n headings centred on base, spread apart by spread radians.
// A multi-projectile fan with zero spread uses DefaultFanSpread.
func FanAngles(base float64, n int, spread float64) []float64 {
	if n < 1 {
		return nil
	}
	if n > 1 && spread == 0 {
		spread = DefaultFanSpread
	}
	out := make([]float64, n)
	mid := float64(n-1) / 2
	for i := range out {
		out[i] = base + spread*(float64(i)-mid)
	}
	return out
}

// RingAngles returns n headings evenly spaced around a full circle, offset by rotation.
func RingAngles(n int, rotation float64) []float64 {
	if n < 1 {
		return nil
	}
	out := make([]float64, n)
	step := 2 * math.Pi / float64(n)
	for i := range out {
		out[i] = rotation + step*float64(i)
	}
	return out
}

// Weapon is one equipped weapon with its cooldown stamp.
type Weapon struct {
	Def      *content.WeaponDef
	lastFire time.Time
	fired    bool
}

// NewWeapon creates a weapon ready to fire immediately.
func NewWeapon(def *content.WeaponDef) *Weapon {
	return &Weapon{Def: def}
}

// Cooldown returns the fire interval reduced by fireRateBonus.
func (w *Weapon) Cooldown(fireRateBonus float64) time.Duration {
	return time.Duration(float64(w.Def.FireRate) * (1 - fireRateBonus))
}

// Ready reports whether the cooldown has elapsed at now.
func (w *Weapon) Ready(now time.Time, fireRateBonus float64) bool {
	if !w.fired {
		return true
	}
	return now.Sub(w.lastFire) >= w.Cooldown(fireRateBonus)
}

// Fire spawns the shot's projectiles aimed from origin toward target.
//
// Postcondition: returns nil and leaves the cooldown untouched when not Ready;
// otherwise returns bulletCount+ExtraBullets projectiles and stamps now.
func (w *Weapon) Fire(now time.Time, owner string, origin, target geom.Vec, mods ShotModifiers) []*Projectile {
	if !w.Ready(now, mods.FireRateBonus) {
		return nil
	}
	w.lastFire = now
	w.fired = true

	maxHits := 1
	if w.Def.Penetration {
		maxHits = PenetratingMaxHits + mods.PenetrationBonus
	}
	radius := 0.0
	if w.Def.ExplosionRadius > 0 {
		radius = w.Def.ExplosionRadius + mods.ExplosionBonus
	}
	mult := mods.DamageMultiplier
	if mult == 0 {
		mult = 1
	}

	n := w.Def.BulletCount + mods.ExtraBullets
	angles := FanAngles(geom.Angle(origin, target), n, w.Def.Spread)
	out := make([]*Projectile, 0, n)
	for _, a := range angles {
		out = append(out, NewProjectile(ProjectileSpec{
			Owner:           owner,
			Faction:         FactionPlayer,
			Origin:          origin,
			Heading:         a,
			Speed:           w.Def.BulletSpeed,
			Damage:          w.Def.Damage * mult,
			Size:            w.Def.BulletSize,
			MaxHits:         maxHits,
			ExplosionRadius: radius,
			Lifetime:        w.Def.Lifetime,
			Now:             now,
		}))
	}
	return out
}

// ProjectileSpec is the input to NewProjectile.
type ProjectileSpec struct {
	Owner           string
	Faction         Faction
	Origin          geom.Vec
	Heading         float64
	Speed           float64
	Damage          float64
	Size            float64
	MaxHits         int
	ExplosionRadius float64
	Lifetime        time.Duration
	Now             time.Time
}

// Projectile is one live bullet. It is destroyed on lifetime timeout or on
// reaching MaxHits distinct hits.
type Projectile struct {
	ID              string
	Owner           string
	Faction         Faction
	Origin          geom.Vec
	Velocity        geom.Vec
	Damage          float64
	Size            float64
	MaxHits         int
	HitCount        int
	ExplosionRadius float64
	SpawnedAt       time.Time
	Lifetime        time.Duration
	hit             map[string]struct{}
	destroyed       bool
}

// NewProjectile creates a projectile with a fresh ID.
//
// Postcondition: MaxHits >= 1.
func NewProjectile(spec ProjectileSpec) *Projectile {
	maxHits := spec.MaxHits
	if maxHits < 1 {
		maxHits = 1
	}
	return &Projectile{
		ID:              uuid.NewString(),
		Owner:           spec.Owner,
		Faction:         spec.Faction,
		Origin:          spec.Origin,
		Velocity:        geom.FromAngle(spec.Heading, spec.Speed),
		Damage:          spec.Damage,
		Size:            spec.Size,
		MaxHits:         maxHits,
		ExplosionRadius: spec.ExplosionRadius,
		SpawnedAt:       spec.Now,
		Lifetime:        spec.Lifetime,
		hit:             make(map[string]struct{}),
	}
}

// Penetrating reports whether the projectile survives more than one hit.
func (p *Projectile) Penetrating() bool { return p.MaxHits > 1 }

// OnHit records a hit on targetID, regardless of whether damage applied.
//
// Postcondition: counted is false for a destroyed projectile or a repeat hit on
// the same target; destroyed is true once HitCount reaches MaxHits.
func (p *Projectile) OnHit(targetID string) (counted, destroyed bool) {
	if p.destroyed {
		return false, true
	}
	if _, seen := p.hit[targetID]; seen {
		return false, false
	}
	p.hit[targetID] = struct{}{}
	p.HitCount++
	if p.HitCount >= p.MaxHits {
		p.destroyed = true
	}
	return true, p.destroyed
}

// Destroy marks the projectile as spent, e.g. on hitting a wall.
func (p *Projectile) Destroy() { p.destroyed = true }

// Destroyed reports whether the projectile has been spent.
func (p *Projectile) Destroyed() bool { return p.destroyed }

// Expired reports whether the projectile's lifetime has elapsed at now.
func (p *Projectile) Expired(now time.Time) bool {
	return now.Sub(p.SpawnedAt) >= p.Lifetime
}
