// Package content provides the static gameplay catalogue: enemy archetypes,
// weapons, items, and skills, loaded from YAML.
package content

import (
	"errors"
	"fmt"
	"time"

	"github.com/cory-johannsen/neonsurge/internal/game/stats"
)

// RangedAttack configures an archetype that holds distance and fires at the player.
type RangedAttack struct {
	// Range is the preferred distance to the player.
	Range float64 `yaml:"range"`
	// Band is the half-width of the hold-and-fire band around Range.
	Band        float64       `yaml:"band"`
	Cooldown    time.Duration `yaml:"cooldown"`
	BulletSpeed float64       `yaml:"bullet_speed"`
	Lifetime    time.Duration `yaml:"lifetime"`
}

// BossPhase configures one phase of the boss state machine.
type BossPhase struct {
	// SpeedFactor scales the boss's base speed on entering the phase.
	SpeedFactor float64       `yaml:"speed_factor"`
	Cooldown    time.Duration `yaml:"cooldown"`
	// MoveFactor scales speed during normal movement (phase 2 walks slower between dashes).
	MoveFactor float64 `yaml:"move_factor"`
	// FanCount and FanSpread describe an aimed fan; zero FanCount disables it.
	FanCount  int     `yaml:"fan_count"`
	FanSpread float64 `yaml:"fan_spread"`
	// BarrageCount fires a rotating radial ring; zero disables it.
	BarrageCount int     `yaml:"barrage_count"`
	BulletSpeed  float64 `yaml:"bullet_speed"`
	// Dash settings; zero DashEvery disables dashing.
	DashEvery    time.Duration `yaml:"dash_every"`
	DashDuration time.Duration `yaml:"dash_duration"`
	DashFactor   float64       `yaml:"dash_factor"`
}

// BossProfile configures the three-phase boss.
type BossProfile struct {
	// Phase2Above and Phase3Above are health fractions: the boss stays in
	// phase 1 while fraction > Phase2Above, phase 2 while fraction > Phase3Above.
	Phase2Above  float64       `yaml:"phase2_above"`
	Phase3Above  float64       `yaml:"phase3_above"`
	RotationStep float64       `yaml:"rotation_step"`
	BulletLife   time.Duration `yaml:"bullet_lifetime"`
	Phases       [3]BossPhase  `yaml:"phases"`
}

// ArchetypeDef is one enemy category.
type ArchetypeDef struct {
	ID     string  `yaml:"id"`
	Name   string  `yaml:"name"`
	Speed  float64 `yaml:"speed"`
	Health float64 `yaml:"health"`
	Damage float64 `yaml:"damage"`
	Size   float64 `yaml:"size"`
	// Score is credited to score and experience on kill.
	Score   int           `yaml:"score"`
	Armor   float64       `yaml:"armor"`
	Evasion float64       `yaml:"evasion"`
	Ranged  *RangedAttack `yaml:"ranged"`
	Boss    *BossProfile  `yaml:"boss"`
}

// IsBoss reports whether the archetype uses the boss state machine.
func (a *ArchetypeDef) IsBoss() bool { return a.Boss != nil }

// Validate collects every violation in a.
func (a *ArchetypeDef) Validate() error {
	var errs []error
	if a.ID == "" {
		return errors.New("archetype: id must not be empty")
	}
	if a.Speed < 0 {
		errs = append(errs, fmt.Errorf("archetype %q: speed must be >= 0", a.ID))
	}
	if a.Health <= 0 {
		errs = append(errs, fmt.Errorf("archetype %q: health must be > 0", a.ID))
	}
	if a.Damage < 0 {
		errs = append(errs, fmt.Errorf("archetype %q: damage must be >= 0", a.ID))
	}
	if a.Score < 0 {
		errs = append(errs, fmt.Errorf("archetype %q: score must be >= 0", a.ID))
	}
	if a.Ranged != nil && a.Ranged.Cooldown <= 0 {
		errs = append(errs, fmt.Errorf("archetype %q: ranged.cooldown must be > 0", a.ID))
	}
	if a.Boss != nil {
		b := a.Boss
		if !(b.Phase3Above > 0 && b.Phase3Above < b.Phase2Above && b.Phase2Above < 1) {
			errs = append(errs, fmt.Errorf("archetype %q: boss thresholds must satisfy 0 < phase3_above < phase2_above < 1", a.ID))
		}
		for i, p := range b.Phases {
			if p.Cooldown <= 0 {
				errs = append(errs, fmt.Errorf("archetype %q: boss phase %d cooldown must be > 0", a.ID, i+1))
			}
		}
	}
	return errors.Join(errs...)
}

// WeaponDef is one player weapon.
type WeaponDef struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Damage      float64       `yaml:"damage"`
	FireRate    time.Duration `yaml:"fire_rate"`
	BulletSpeed float64       `yaml:"bullet_speed"`
	BulletSize  float64       `yaml:"bullet_size"`
	BulletCount int           `yaml:"bullet_count"`
	// Spread is the angle in radians between adjacent projectiles of a fan.
	Spread          float64       `yaml:"spread"`
	Penetration     bool          `yaml:"penetration"`
	ExplosionRadius float64       `yaml:"explosion_radius"`
	Lifetime        time.Duration `yaml:"lifetime"`
}

// Validate collects every violation in w.
func (w *WeaponDef) Validate() error {
	if w.ID == "" {
		return errors.New("weapon: id must not be empty")
	}
	var errs []error
	if w.Damage < 0 {
		errs = append(errs, fmt.Errorf("weapon %q: damage must be >= 0", w.ID))
	}
	if w.FireRate <= 0 {
		errs = append(errs, fmt.Errorf("weapon %q: fire_rate must be > 0", w.ID))
	}
	if w.BulletCount < 1 {
		errs = append(errs, fmt.Errorf("weapon %q: bullet_count must be >= 1", w.ID))
	}
	if w.Lifetime <= 0 {
		errs = append(errs, fmt.Errorf("weapon %q: lifetime must be > 0", w.ID))
	}
	if w.ExplosionRadius < 0 {
		errs = append(errs, fmt.Errorf("weapon %q: explosion_radius must be >= 0", w.ID))
	}
	return errors.Join(errs...)
}

// ItemDef is one consumable drop.
type ItemDef struct {
	ID      string        `yaml:"id"`
	Name    string        `yaml:"name"`
	Channel stats.Channel `yaml:"channel"`
	Effect  float64       `yaml:"effect"`
	// DropChance is the base per-death probability before the drop bonus.
	DropChance float64 `yaml:"drop_chance"`
}

// Validate collects every violation in i.
func (i *ItemDef) Validate() error {
	if i.ID == "" {
		return errors.New("item: id must not be empty")
	}
	var errs []error
	if !i.Channel.Valid() {
		errs = append(errs, fmt.Errorf("item %q: unknown channel", i.ID))
	}
	if i.DropChance < 0 || i.DropChance > 1 {
		errs = append(errs, fmt.Errorf("item %q: drop_chance must be in [0,1]", i.ID))
	}
	return errors.Join(errs...)
}

// SkillDef is one upgradable skill.
type SkillDef struct {
	ID             string        `yaml:"id"`
	Name           string        `yaml:"name"`
	Description    string        `yaml:"description"`
	Channel        stats.Channel `yaml:"channel"`
	EffectPerLevel float64       `yaml:"effect_per_level"`
	MaxLevel       int           `yaml:"max_level"`
	BaseCost       int           `yaml:"base_cost"`
	CostPerLevel   int           `yaml:"cost_per_level"`
	// OneShot skills mutate the actor once per level gained instead of
	// contributing a continuous modifier.
	OneShot bool `yaml:"one_shot"`
}

// Validate collects every violation in s.
func (s *SkillDef) Validate() error {
	if s.ID == "" {
		return errors.New("skill: id must not be empty")
	}
	var errs []error
	if !s.Channel.Valid() {
		errs = append(errs, fmt.Errorf("skill %q: unknown channel", s.ID))
	}
	if s.MaxLevel < 1 {
		errs = append(errs, fmt.Errorf("skill %q: max_level must be >= 1", s.ID))
	}
	if s.BaseCost < 1 {
		errs = append(errs, fmt.Errorf("skill %q: base_cost must be >= 1", s.ID))
	}
	if s.CostPerLevel < 0 {
		errs = append(errs, fmt.Errorf("skill %q: cost_per_level must be >= 0", s.ID))
	}
	return errors.Join(errs...)
}
