// Package sim runs the per-frame simulation: input, behaviour, collision
// response, pickups, and encounter pacing, in a fixed order.
package sim

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/neonsurge/internal/config"
	"github.com/cory-johannsen/neonsurge/internal/economy"
	"github.com/cory-johannsen/neonsurge/internal/game/behavior"
	"github.com/cory-johannsen/neonsurge/internal/game/combat"
	"github.com/cory-johannsen/neonsurge/internal/game/content"
	"github.com/cory-johannsen/neonsurge/internal/game/dice"
	"github.com/cory-johannsen/neonsurge/internal/game/director"
	"github.com/cory-johannsen/neonsurge/internal/game/event"
	"github.com/cory-johannsen/neonsurge/internal/game/geom"
	"github.com/cory-johannsen/neonsurge/internal/game/player"
	"github.com/cory-johannsen/neonsurge/internal/game/stats"
	"github.com/cory-johannsen/neonsurge/internal/observability"
)

const (
	// PlayerRadius is the player's collision radius.
	PlayerRadius = 15
	// PickupRadius is the collision radius of items and credits.
	PickupRadius = 10
	// diagonalFactor keeps diagonal movement at roughly straight-line speed.
	diagonalFactor = 0.707
	magnetStep     = 5
	magnetDeadZone = 10
	bossScatter    = 50
)

// Input is the player's control state for one frame.
type Input struct {
	// Move is the desired direction; each axis is clamped to [-1, 1].
	Move geom.Vec
	// Aim is the world-space point the player aims at.
	Aim geom.Vec
	// Fire requests a shot with the current weapon.
	Fire bool
	// Weapon, when non-empty, requests a switch to that weapon.
	Weapon string
}

// Frame is everything the world consumes for one tick.
type Frame struct {
	Delta      time.Duration
	Input      Input
	Collisions []Collision
}

// Report summarises one tick.
type Report struct {
	Tick    uint64
	Paused  bool
	Over    bool
	Kills   int
	Spawned int
}

// PickupKind distinguishes item drops from credit drops.
type PickupKind int

const (
	PickupItem PickupKind = iota
	PickupCredit
)

// Pickup is a collectible lying in the world.
type Pickup struct {
	ID       string
	Kind     PickupKind
	Item     *content.ItemDef
	Credits  int
	Position geom.Vec
}

type enemy struct {
	actor   *combat.Actor
	def     *content.ArchetypeDef
	brain   behavior.Brain
	removed bool
}

// Options configures New.
type Options struct {
	Config    config.Config
	Catalogue *content.Catalogue
	Physics   Physics
	Roller    *dice.Roller
	// Bus receives progress events; nil creates a private bus.
	Bus *event.Bus
	// Economy receives collected credits; nil starts an unpersisted zero balance.
	Economy  *economy.State
	Reporter observability.Reporter
	Logger   *zap.Logger
	// Start is the simulation time of the first frame.
	Start time.Time
}

// World is one run. It is not safe for concurrent use; a single loop must
// drive Tick.
type World struct {
	physics  Physics
	bus      *event.Bus
	director *director.Director
	pipeline *combat.Pipeline
	player   *player.Player
	economy  *economy.State
	logger   *zap.Logger

	enemies     []*enemy
	byID        map[string]*enemy
	projectiles []*combat.Projectile
	projByID    map[string]*combat.Projectile
	pickups     []*Pickup
	pickupByID  map[string]*Pickup

	score  int
	now    time.Time
	tick   uint64
	paused bool
	over   bool
}

// New builds a world, places the player at the map centre, lays out the
// opening map, and spawns the first wave.
//
// Precondition: opts.Config passed Validate; Catalogue, Physics, and Roller are non-nil.
// Postcondition: Returns a ready World or a non-nil error.
func New(opts Options) (*World, error) {
	if opts.Catalogue == nil || opts.Physics == nil || opts.Roller == nil {
		return nil, errors.New("sim: catalogue, physics, and roller are required")
	}
	logger := observability.OrNop(opts.Logger)
	reporter := opts.Reporter
	if reporter == nil {
		reporter = observability.NewZapReporter(logger)
	}
	p, err := player.New(opts.Config.Player, opts.Catalogue, reporter, logger)
	if err != nil {
		return nil, fmt.Errorf("creating player: %w", err)
	}
	bus := opts.Bus
	if bus == nil {
		bus = event.NewBus()
	}
	econ := opts.Economy
	if econ == nil {
		econ = &economy.State{}
	}
	bounds := geom.Bounds{Width: opts.Config.Simulation.MapWidth, Height: opts.Config.Simulation.MapHeight}

	w := &World{
		physics:    opts.Physics,
		bus:        bus,
		director:   director.New(opts.Config.Director, opts.Catalogue, opts.Roller, bounds, logger),
		pipeline:   combat.NewPipeline(opts.Roller, reporter, logger),
		player:     p,
		economy:    econ,
		logger:     logger,
		byID:       make(map[string]*enemy),
		projByID:   make(map[string]*combat.Projectile),
		pickupByID: make(map[string]*Pickup),
		now:        opts.Start,
	}

	start := bounds.Center()
	w.physics.Place(Body{ID: player.ID, Kind: BodyActor, Position: start, Radius: PlayerRadius})
	layout, wave := w.director.Start(start)
	w.physics.SetWalls(layout.Walls)
	for _, req := range wave {
		w.spawn(req)
	}
	logger.Info("run started",
		zap.String("layout", layout.Pattern.String()),
		zap.Int("walls", len(layout.Walls)),
		zap.Int("enemies", len(wave)),
		zap.String("weapon", p.CurrentWeapon().Def.ID),
	)
	return w, nil
}

// Player returns the player.
func (w *World) Player() *player.Player { return w.player }

// Director returns the encounter director.
func (w *World) Director() *director.Director { return w.director }

// Economy returns the run's credit state.
func (w *World) Economy() *economy.State { return w.economy }

// Bus returns the event bus.
func (w *World) Bus() *event.Bus { return w.bus }

// Score returns the accumulated score.
func (w *World) Score() int { return w.score }

// Now returns the simulation time; it only advances on unpaused ticks.
func (w *World) Now() time.Time { return w.now }

// Over reports whether the player has died.
func (w *World) Over() bool { return w.over }

// Paused reports whether ticks are frozen.
func (w *World) Paused() bool { return w.paused }

// SetPaused freezes or resumes the tick, e.g. while the skill menu is open.
// Skill upgrades remain available while paused. The driver must also stop
// stepping physics while paused.
func (w *World) SetPaused(paused bool) {
	if w.paused == paused {
		return
	}
	w.paused = paused
	w.logger.Debug("pause toggled", zap.Bool("paused", paused))
}

// Enemies returns the living enemies, boss included, in spawn order.
func (w *World) Enemies() []*combat.Actor {
	out := make([]*combat.Actor, 0, len(w.enemies))
	for _, e := range w.enemies {
		if !e.removed && e.actor.Alive() {
			out = append(out, e.actor)
		}
	}
	return out
}

// Projectiles returns the live projectiles in launch order.
func (w *World) Projectiles() []*combat.Projectile {
	out := make([]*combat.Projectile, 0, len(w.projectiles))
	for _, p := range w.projectiles {
		if !p.Destroyed() {
			out = append(out, p)
		}
	}
	return out
}

// Pickups returns the uncollected pickups in drop order.
func (w *World) Pickups() []Pickup {
	out := make([]Pickup, 0, len(w.pickups))
	for _, pk := range w.pickups {
		out = append(out, *pk)
	}
	return out
}

// Tick advances the world by one frame.
//
// Order: input and movement, regeneration, enemy behaviour and enemy
// attacks, player attack, collision response, projectile expiry, magnet,
// then the director evaluates against the post-damage state.
//
// Postcondition: a paused or finished world is left untouched.
func (w *World) Tick(f Frame) Report {
	if w.over {
		return Report{Tick: w.tick, Over: true}
	}
	if w.paused {
		return Report{Tick: w.tick, Paused: true}
	}
	w.tick++
	if f.Delta > 0 {
		w.now = w.now.Add(f.Delta)
	}
	r := Report{Tick: w.tick}

	w.applyInput(f.Input)
	w.player.Regen(f.Delta)
	w.runBrains()
	if f.Input.Fire {
		w.playerFire(f.Input.Aim)
	}

	for _, c := range f.Collisions {
		w.resolve(c, &r)
		if w.over {
			break
		}
	}

	w.expireProjectiles()
	w.sweep()

	if !w.over {
		w.pullPickups()
		w.evaluate(&r)
		if boss := w.director.ActiveBoss(); boss != nil {
			w.bus.Emit(event.Event{Kind: event.BossHealthChanged, Health: boss.Health, MaxHealth: boss.MaxHealth})
		}
	}
	r.Over = w.over
	return r
}

func (w *World) applyInput(in Input) {
	if in.Weapon != "" && in.Weapon != w.player.CurrentWeapon().Def.ID {
		if !w.player.SwitchWeapon(in.Weapon) {
			w.logger.Debug("weapon locked", zap.String("weapon", in.Weapon))
		}
	}
	x := geom.Clamp(in.Move.X, -1, 1)
	y := geom.Clamp(in.Move.Y, -1, 1)
	v := geom.Vec{X: x, Y: y}.Scale(w.player.Speed())
	if x != 0 && y != 0 {
		v = v.Scale(diagonalFactor)
	}
	w.physics.SetVelocity(player.ID, v)
}

func (w *World) playerPosition() geom.Vec {
	pos, _ := w.physics.Position(player.ID)
	return pos
}

func (w *World) runBrains() {
	ppos := w.playerPosition()
	alive := w.player.Actor.Alive()
	for _, e := range w.enemies {
		if e.removed || !e.actor.Alive() {
			continue
		}
		pos, ok := w.physics.Position(e.actor.ID)
		if !ok {
			continue
		}
		in := e.brain.Behave(e.actor, behavior.Context{Self: pos, Player: ppos, PlayerAlive: alive, Now: w.now})
		w.physics.SetVelocity(e.actor.ID, in.Velocity)
		if in.PhaseEntered != behavior.PhaseNone {
			w.logger.Info("boss phase changed",
				zap.String("boss", e.actor.ID),
				zap.Int("phase", int(in.PhaseEntered)),
				zap.Float64("health_fraction", e.actor.HealthFraction()),
			)
			w.bus.Emit(event.Event{Kind: event.BossPhaseChanged, Phase: int(in.PhaseEntered)})
		}
		for _, s := range in.Shots {
			w.launch(combat.NewProjectile(combat.ProjectileSpec{
				Owner:    e.actor.ID,
				Faction:  combat.FactionEnemy,
				Origin:   pos,
				Heading:  s.Heading,
				Speed:    s.Speed,
				Damage:   s.Damage,
				Size:     s.Size,
				MaxHits:  1,
				Lifetime: s.Lifetime,
				Now:      w.now,
			}))
		}
	}
}

func (w *World) playerFire(aim geom.Vec) {
	for _, p := range w.player.Fire(w.now, w.playerPosition(), aim) {
		w.launch(p)
	}
}

func (w *World) launch(p *combat.Projectile) {
	w.projectiles = append(w.projectiles, p)
	w.projByID[p.ID] = p
	w.physics.Place(Body{ID: p.ID, Kind: BodyProjectile, Position: p.Origin, Velocity: p.Velocity, Radius: p.Size})
}

func (w *World) spawn(req director.SpawnRequest) {
	e := &enemy{actor: req.Actor, def: req.Def, brain: behavior.NewBrain(req.Def)}
	w.enemies = append(w.enemies, e)
	w.byID[e.actor.ID] = e
	w.physics.Place(Body{ID: e.actor.ID, Kind: BodyActor, Position: req.Position, Radius: req.Actor.Size})
}

func (w *World) evaluate(r *Report) {
	plan := w.director.Evaluate(w.score, w.population(), w.playerPosition())
	for _, req := range plan.Spawns {
		w.spawn(req)
		r.Spawned++
	}
	if plan.Layout != nil {
		w.physics.SetWalls(plan.Layout.Walls)
	}
	if plan.Boss != nil {
		w.spawn(*plan.Boss)
		r.Spawned++
		w.bus.Emit(event.Event{
			Kind:      event.BossSpawned,
			Score:     w.score,
			Health:    plan.Boss.Actor.Health,
			MaxHealth: plan.Boss.Actor.MaxHealth,
		})
	}
	if plan.DifficultyRaised {
		w.bus.Emit(event.Event{Kind: event.DifficultyIncrease, Level: w.director.DifficultyLevel(), Score: w.score})
	}
}

// population counts living non-boss enemies.
func (w *World) population() int {
	n := 0
	for _, e := range w.enemies {
		if !e.removed && e.actor.Alive() && !e.actor.IsBoss() {
			n++
		}
	}
	return n
}

func (w *World) expireProjectiles() {
	for _, p := range w.projectiles {
		if !p.Destroyed() && p.Expired(w.now) {
			p.Destroy()
		}
	}
}

// sweep drops destroyed projectiles and removed enemies from the world and physics.
func (w *World) sweep() {
	live := w.projectiles[:0]
	for _, p := range w.projectiles {
		if p.Destroyed() {
			delete(w.projByID, p.ID)
			w.physics.Remove(p.ID)
			continue
		}
		live = append(live, p)
	}
	clear(w.projectiles[len(live):])
	w.projectiles = live

	kept := w.enemies[:0]
	for _, e := range w.enemies {
		if e.removed {
			continue
		}
		kept = append(kept, e)
	}
	clear(w.enemies[len(kept):])
	w.enemies = kept
}

func (w *World) pullPickups() {
	rng := w.player.MagnetRange()
	if rng <= 0 {
		return
	}
	ppos := w.playerPosition()
	for _, pk := range w.pickups {
		d := geom.Distance(pk.Position, ppos)
		if d >= rng || d <= magnetDeadZone {
			continue
		}
		pk.Position = pk.Position.Add(geom.FromAngle(geom.Angle(pk.Position, ppos), magnetStep))
		w.physics.Place(Body{ID: pk.ID, Kind: BodyPickup, Position: pk.Position, Radius: PickupRadius})
	}
}

func (w *World) dropBonus() float64 {
	return w.player.Effective().Stat(stats.DropBonus)
}
