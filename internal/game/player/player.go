// Package player composes the player's actor, modifiers, skill tree,
// progression ledger, and weapon loadout.
package player

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/neonsurge/internal/config"
	"github.com/cory-johannsen/neonsurge/internal/game/combat"
	"github.com/cory-johannsen/neonsurge/internal/game/content"
	"github.com/cory-johannsen/neonsurge/internal/game/geom"
	"github.com/cory-johannsen/neonsurge/internal/game/progression"
	"github.com/cory-johannsen/neonsurge/internal/game/skill"
	"github.com/cory-johannsen/neonsurge/internal/game/stats"
	"github.com/cory-johannsen/neonsurge/internal/observability"
)

// ID is the player's actor ID.
const ID = "player"

// Player is the controllable actor and everything it owns.
// It is not safe for concurrent use; the simulation tick serialises access.
type Player struct {
	Actor  *combat.Actor
	Mods   *stats.Set
	Skills *skill.Tree
	Ledger *progression.Ledger

	catalogue  *content.Catalogue
	magnetBase float64
	weapons    map[string]*combat.Weapon
	unlocked   []string
	current    string
	pickups    []string
	logger     *zap.Logger
}

// New creates a level-1 player with only the starting weapon unlocked.
//
// Postcondition: returns an error if cfg.StartingWeapon is not in catalogue.
func New(cfg config.PlayerConfig, catalogue *content.Catalogue, reporter observability.Reporter, logger *zap.Logger) (*Player, error) {
	logger = observability.OrNop(logger)
	def, ok := catalogue.Weapon(cfg.StartingWeapon)
	if !ok {
		return nil, fmt.Errorf("starting weapon %q not in catalogue", cfg.StartingWeapon)
	}
	mods := stats.NewSet()
	actor := &combat.Actor{
		ID:               ID,
		Variant:          combat.VariantPlayer,
		Health:           cfg.MaxHealth,
		MaxHealth:        cfg.MaxHealth,
		BaseSpeed:        cfg.Speed,
		BaseDamage:       cfg.BaseDamage,
		DamageMultiplier: 1,
		Mods:             mods,
	}
	p := &Player{
		Actor: actor,
		Mods:  mods,
		Ledger: progression.NewLedger(progression.Curve{
			ExpBase:         cfg.ExpBase,
			ExpMultiplier:   cfg.ExpMultiplier,
			SPPerLevel:      cfg.SPPerLevel,
			BonusSPInterval: cfg.BonusSPInterval,
			LevelUpHP:       cfg.LevelUpHP,
			LevelUpDamage:   cfg.LevelUpDamage,
			LevelUpSpeed:    cfg.LevelUpSpeed,
		}, reporter, logger),
		catalogue:  catalogue,
		magnetBase: cfg.BaseMagnetRange,
		weapons:    map[string]*combat.Weapon{def.ID: combat.NewWeapon(def)},
		unlocked:   []string{def.ID},
		current:    def.ID,
		logger:     logger,
	}
	p.Skills = skill.NewTree(catalogue.Skills(), mods, actor, logger)
	return p, nil
}

// Effective resolves the player's stats.
func (p *Player) Effective() stats.Effective { return p.Actor.Effective() }

// Speed returns the effective movement speed.
func (p *Player) Speed() float64 { return p.Effective().Stat(stats.Speed) }

// MagnetRange returns the pickup attraction radius, or 0 when no magnet bonus
// has been acquired.
func (p *Player) MagnetRange() float64 {
	m := p.Effective().Stat(stats.MagnetRange)
	if m <= 0 {
		return 0
	}
	return p.magnetBase + m
}

// PickupItem applies a consumed item. Max-health items raise max and current
// health once; every other item adds an append-only modifier.
func (p *Player) PickupItem(def *content.ItemDef) {
	p.Mods.AddItem(def.ID, def.Channel, def.Effect)
	if def.Channel == stats.MaxHealth {
		p.Actor.RaiseMaxHealth(def.Effect)
	}
	p.pickups = append(p.pickups, def.ID)
	p.logger.Debug("item picked up", zap.String("item", def.ID))
}

// Pickups returns the IDs of every consumed item, in order.
func (p *Player) Pickups() []string { return p.pickups }

// UpgradeSkill spends skill points on kind.
func (p *Player) UpgradeSkill(kind string) bool {
	return p.Skills.Upgrade(kind, p.Ledger)
}

// GainExp credits experience with the exp-bonus channel applied.
func (p *Player) GainExp(amount float64) progression.GainResult {
	return p.Ledger.GainExp(amount, p.Effective().Stat(stats.ExpBonus), p)
}

// LevelUp applies the per-level grants and fully heals.
func (p *Player) LevelUp(hp, damageMultiplier, speed float64) {
	p.Actor.MaxHealth += hp
	p.Actor.DamageMultiplier += damageMultiplier
	p.Actor.BaseSpeed += speed
	p.Actor.FullHeal()
}

// Regen heals regen-rate health per second of delta.
//
// Postcondition: Health never exceeds MaxHealth.
func (p *Player) Regen(delta time.Duration) {
	rate := p.Effective().Stat(stats.RegenRate)
	if rate <= 0 || delta <= 0 {
		return
	}
	p.Actor.Heal(rate * delta.Seconds())
}

// Fire shoots the current weapon from origin toward aim.
//
// Postcondition: returns nil while dead or cooling down.
func (p *Player) Fire(now time.Time, origin, aim geom.Vec) []*combat.Projectile {
	if !p.Actor.Alive() {
		return nil
	}
	return p.weapons[p.current].Fire(now, ID, origin, aim, combat.ShotModifiersFrom(p.Effective()))
}

// CurrentWeapon returns the equipped weapon.
func (p *Player) CurrentWeapon() *combat.Weapon { return p.weapons[p.current] }

// UnlockedWeapons returns the unlocked weapon IDs in unlock order.
func (p *Player) UnlockedWeapons() []string { return p.unlocked }

// UnlockWeapon makes id available to SwitchWeapon.
//
// Postcondition: returns false when id is unknown or already unlocked.
func (p *Player) UnlockWeapon(id string) bool {
	if _, ok := p.catalogue.Weapon(id); !ok {
		return false
	}
	for _, u := range p.unlocked {
		if u == id {
			return false
		}
	}
	p.unlocked = append(p.unlocked, id)
	return true
}

// SwitchWeapon equips id. Each weapon keeps its own cooldown stamp.
//
// Postcondition: returns false and keeps the current weapon when id is locked.
func (p *Player) SwitchWeapon(id string) bool {
	locked := true
	for _, u := range p.unlocked {
		if u == id {
			locked = false
			break
		}
	}
	if locked {
		return false
	}
	if _, ok := p.weapons[id]; !ok {
		def, _ := p.catalogue.Weapon(id)
		p.weapons[id] = combat.NewWeapon(def)
	}
	p.current = id
	return true
}
