// Package director owns encounter pacing: difficulty, spawn composition, the
// boss trigger, map layout, and loot rolls.
package director

import (
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/neonsurge/internal/config"
	"github.com/cory-johannsen/neonsurge/internal/game/combat"
	"github.com/cory-johannsen/neonsurge/internal/game/content"
	"github.com/cory-johannsen/neonsurge/internal/game/dice"
	"github.com/cory-johannsen/neonsurge/internal/game/geom"
	"github.com/cory-johannsen/neonsurge/internal/observability"
)

// SpawnRequest asks the simulation to place a new actor.
type SpawnRequest struct {
	Def      *content.ArchetypeDef
	Actor    *combat.Actor
	Position geom.Vec
}

// Plan is the outcome of one Evaluate call.
type Plan struct {
	Spawns []SpawnRequest
	// Boss is non-nil on the evaluation that triggered a boss.
	Boss *SpawnRequest
	// Layout is non-nil when the map was regenerated.
	Layout *Layout
	// DifficultyRaised is true when DifficultyLevel incremented.
	DifficultyRaised bool
}

// Director owns the difficulty curve and the single active-boss reference.
// No other component creates or clears the boss.
// It is not safe for concurrent use; the simulation tick serialises access.
type Director struct {
	cfg       config.DirectorConfig
	catalogue *content.Catalogue
	roller    *dice.Roller
	bounds    geom.Bounds
	mapSpec   MapSpec
	logger    *zap.Logger

	difficulty          int
	lastDifficultyScore int
	lastBossScore       int
	boss                *combat.Actor
	layout              Layout
}

// New creates a director at difficulty level 1.
//
// Precondition: cfg passed config validation; catalogue and roller are non-nil.
func New(cfg config.DirectorConfig, catalogue *content.Catalogue, roller *dice.Roller, bounds geom.Bounds, logger *zap.Logger) *Director {
	return &Director{
		cfg:        cfg,
		catalogue:  catalogue,
		roller:     roller,
		bounds:     bounds,
		mapSpec:    DefaultMapSpec(),
		logger:     observability.OrNop(logger),
		difficulty: 1,
	}
}

// DifficultyLevel returns the current level, starting at 1.
func (d *Director) DifficultyLevel() int { return d.difficulty }

// HPMultiplier returns 1 + (level-1)*0.1.
func (d *Director) HPMultiplier() float64 { return 1 + float64(d.difficulty-1)*0.1 }

// SpeedMultiplier returns 1 + (level-1)*0.05.
func (d *Director) SpeedMultiplier() float64 { return 1 + float64(d.difficulty-1)*0.05 }

// ActiveBoss returns the live boss, or nil.
func (d *Director) ActiveBoss() *combat.Actor { return d.boss }

// Layout returns the current map layout.
func (d *Director) Layout() Layout { return d.layout }

// Start generates the opening open-pattern map and the initial wave.
func (d *Director) Start(player geom.Vec) (Layout, []SpawnRequest) {
	d.layout = GenerateLayout(PatternOpen, d.bounds, player, d.mapSpec, d.roller)
	spawns := make([]SpawnRequest, 0, d.cfg.PopulationFloor)
	for i := 0; i < d.cfg.PopulationFloor; i++ {
		spawns = append(spawns, d.spawnTrash(player))
	}
	return d.layout, spawns
}

// Regenerate replaces the layout with pattern p.
func (d *Director) Regenerate(p Pattern, player geom.Vec) Layout {
	d.layout = GenerateLayout(p, d.bounds, player, d.mapSpec, d.roller)
	return d.layout
}

// Evaluate runs one pacing step against the post-damage state of the tick.
//
// Order: refill one actor toward the population floor while no boss is active,
// trigger the boss when score has advanced BossInterval since the last
// trigger, then raise difficulty when score has advanced DifficultyInterval.
func (d *Director) Evaluate(score, population int, player geom.Vec) Plan {
	var plan Plan

	if d.boss == nil && population < d.cfg.PopulationFloor && population < d.cfg.MaxEnemies {
		plan.Spawns = append(plan.Spawns, d.spawnTrash(player))
	}

	if d.boss == nil && score >= d.lastBossScore+d.cfg.BossInterval {
		if req, ok := d.spawnBoss(player); ok {
			d.lastBossScore = score
			layout := d.Regenerate(PatternArena, player)
			plan.Boss = &req
			plan.Layout = &layout
		}
	}

	if score >= d.lastDifficultyScore+d.cfg.DifficultyInterval {
		d.difficulty++
		d.lastDifficultyScore = score
		plan.DifficultyRaised = true
		d.logger.Info("difficulty increased",
			zap.Int("level", d.difficulty),
			zap.Float64("hp_multiplier", d.HPMultiplier()),
			zap.Float64("speed_multiplier", d.SpeedMultiplier()),
		)
	}
	return plan
}

// BossDefeated clears the active-boss reference if boss is the active boss.
//
// Postcondition: returns false and changes nothing for any other actor.
func (d *Director) BossDefeated(boss *combat.Actor) bool {
	if d.boss == nil || boss != d.boss {
		return false
	}
	d.logger.Info("boss defeated", zap.String("boss", boss.ID))
	d.boss = nil
	return true
}

// RollLoot performs a single death roll.
func (d *Director) RollLoot(dropBonus float64) LootResult {
	return RollLoot(d.catalogue.Items(), dropBonus, d.cfg.CreditDropChance, d.cfg.CreditValue, d.roller)
}

// BossLoot performs BossDropRolls independent death rolls.
func (d *Director) BossLoot(dropBonus float64) []LootResult {
	out := make([]LootResult, 0, d.cfg.BossDropRolls)
	for i := 0; i < d.cfg.BossDropRolls; i++ {
		out = append(out, d.RollLoot(dropBonus))
	}
	return out
}

// Scatter returns a point jittered within ±radius of p, for spreading drops.
func (d *Director) Scatter(p geom.Vec, radius float64) geom.Vec {
	return geom.Vec{
		X: p.X + d.roller.Between("scatter_x", -radius, radius),
		Y: p.Y + d.roller.Between("scatter_y", -radius, radius),
	}
}

func (d *Director) spawnPoint(player geom.Vec, margin float64) geom.Vec {
	angle := d.roller.Between("spawn_angle", 0, 2*math.Pi)
	return d.bounds.ClampInset(player.Add(geom.FromAngle(angle, d.cfg.SpawnDistance)), margin)
}

// spawnTrash picks a non-boss archetype uniformly and scales it by the
// current difficulty.
func (d *Director) spawnTrash(player geom.Vec) SpawnRequest {
	pool := d.catalogue.SpawnPool()
	def, _ := d.catalogue.Archetype(pool[d.roller.Pick("spawn_archetype", len(pool))])
	hp := def.Health * d.HPMultiplier()
	return SpawnRequest{
		Def: def,
		Actor: &combat.Actor{
			ID:               uuid.NewString(),
			Variant:          combat.VariantEnemy,
			Archetype:        def.ID,
			Health:           hp,
			MaxHealth:        hp,
			BaseSpeed:        def.Speed * d.SpeedMultiplier(),
			BaseDamage:       def.Damage,
			ArmorBase:        def.Armor,
			EvasionBase:      def.Evasion,
			DamageMultiplier: 1,
			Size:             def.Size,
			ScoreValue:       def.Score,
		},
		Position: d.spawnPoint(player, d.cfg.SpawnMargin),
	}
}

func (d *Director) spawnBoss(player geom.Vec) (SpawnRequest, bool) {
	def, ok := d.catalogue.Boss()
	if !ok {
		return SpawnRequest{}, false
	}
	d.boss = &combat.Actor{
		ID:               uuid.NewString(),
		Variant:          combat.VariantBoss,
		Archetype:        def.ID,
		Health:           def.Health,
		MaxHealth:        def.Health,
		BaseSpeed:        def.Speed,
		BaseDamage:       def.Damage,
		ArmorBase:        def.Armor,
		EvasionBase:      def.Evasion,
		DamageMultiplier: 1,
		Size:             def.Size,
		ScoreValue:       def.Score,
	}
	d.logger.Info("boss spawned", zap.String("boss", d.boss.ID), zap.String("archetype", def.ID))
	return SpawnRequest{Def: def, Actor: d.boss, Position: d.spawnPoint(player, d.cfg.BossSpawnMargin)}, true
}
