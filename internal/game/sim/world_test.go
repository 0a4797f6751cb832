package sim_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/neonsurge/internal/config"
	"github.com/cory-johannsen/neonsurge/internal/economy"
	"github.com/cory-johannsen/neonsurge/internal/game/combat"
	"github.com/cory-johannsen/neonsurge/internal/game/content"
	"github.com/cory-johannsen/neonsurge/internal/game/dice"
	"github.com/cory-johannsen/neonsurge/internal/game/event"
	"github.com/cory-johannsen/neonsurge/internal/game/geom"
	"github.com/cory-johannsen/neonsurge/internal/game/physics"
	"github.com/cory-johannsen/neonsurge/internal/game/player"
	"github.com/cory-johannsen/neonsurge/internal/game/sim"
	"github.com/cory-johannsen/neonsurge/internal/game/stats"
	"github.com/cory-johannsen/neonsurge/internal/observability"
)

const frame = 16 * time.Millisecond

var start = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

type recorder struct {
	events []event.Event
}

func (r *recorder) kinds() []event.Kind {
	out := make([]event.Kind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

func (r *recorder) last(k event.Kind) (event.Event, bool) {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Kind == k {
			return r.events[i], true
		}
	}
	return event.Event{}, false
}

type harness struct {
	world    *sim.World
	space    *physics.Space
	rec      *recorder
	reporter *observability.CountingReporter
}

// newHarness builds a world whose every random draw is draw. With the
// default catalogue, 0.99 spawns tanks and never drops loot, 0.3 spawns
// shooters and never drops loot, and 0.01 spawns chasers that always drop an
// item and credits.
func newHarness(t *testing.T, draw float64) *harness {
	t.Helper()
	cfg := config.Default()
	space := physics.NewSpace(geom.Bounds{Width: cfg.Simulation.MapWidth, Height: cfg.Simulation.MapHeight})
	bus := event.NewBus()
	rec := &recorder{}
	bus.SubscribeAll(func(e event.Event) { rec.events = append(rec.events, e) })
	reporter := observability.NewCountingReporter()
	w, err := sim.New(sim.Options{
		Config:    cfg,
		Catalogue: content.Default(),
		Physics:   space,
		Roller:    dice.NewLoggedRoller(dice.NewScriptedSource(draw), nil),
		Bus:       bus,
		Economy:   &economy.State{},
		Reporter:  reporter,
		Start:     start,
	})
	require.NoError(t, err)
	return &harness{world: w, space: space, rec: rec, reporter: reporter}
}

func (h *harness) pos(t *testing.T, id string) geom.Vec {
	t.Helper()
	p, ok := h.space.Position(id)
	require.True(t, ok, "no body %s", id)
	return p
}

// shoot fires the current weapon at target and returns the new projectiles.
func (h *harness) shoot(t *testing.T, target *combat.Actor, delta time.Duration) []*combat.Projectile {
	t.Helper()
	before := map[string]bool{}
	for _, p := range h.world.Projectiles() {
		before[p.ID] = true
	}
	h.world.Tick(sim.Frame{Delta: delta, Input: sim.Input{Fire: true, Aim: h.pos(t, target.ID)}})
	var fresh []*combat.Projectile
	for _, p := range h.world.Projectiles() {
		if !before[p.ID] && p.Faction == combat.FactionPlayer {
			fresh = append(fresh, p)
		}
	}
	require.NotEmpty(t, fresh, "weapon did not fire")
	return fresh
}

func hit(p *combat.Projectile, target *combat.Actor) sim.Collision {
	return sim.Collision{Kind: sim.ProjectileActor, A: p.ID, B: target.ID}
}

func TestNew_OpeningState(t *testing.T) {
	cfg := config.Default()
	h := newHarness(t, 0.99)

	assert.Len(t, h.world.Enemies(), cfg.Director.PopulationFloor)
	assert.GreaterOrEqual(t, len(h.space.Walls()), 4)
	assert.Equal(t, geom.Vec{X: cfg.Simulation.MapWidth / 2, Y: cfg.Simulation.MapHeight / 2}, h.pos(t, player.ID))
	assert.Equal(t, "pistol", h.world.Player().CurrentWeapon().Def.ID)
	assert.Equal(t, start, h.world.Now())
	for _, e := range h.world.Enemies() {
		assert.Equal(t, "tank", e.Archetype)
	}
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := sim.New(sim.Options{Config: config.Default()})
	assert.Error(t, err)
}

func TestTick_KillCreditsScoreAndExperience(t *testing.T) {
	h := newHarness(t, 0.99)
	target := h.world.Enemies()[0]
	shots := h.shoot(t, target, frame)
	require.Len(t, shots, 1)
	target.Health = 1

	r := h.world.Tick(sim.Frame{Delta: frame, Collisions: []sim.Collision{hit(shots[0], target)}})

	assert.Equal(t, 1, r.Kills)
	assert.Equal(t, 30, h.world.Score())
	assert.InDelta(t, 30, h.world.Player().Ledger.CurrentExp, 1e-9)
	assert.Empty(t, h.world.Projectiles(), "single-hit projectile is spent")
	assert.Empty(t, h.world.Pickups(), "0.99 draws never drop loot")
	assert.Equal(t, 1, r.Spawned, "population is refilled toward the floor")
	assert.Len(t, h.world.Enemies(), config.Default().Director.PopulationFloor)

	e, ok := h.rec.last(event.ScoreChanged)
	require.True(t, ok)
	assert.Equal(t, 30, e.Score)
}

func TestTick_RepeatHitOnSameTargetIsIgnored(t *testing.T) {
	h := newHarness(t, 0.99)
	target := h.world.Enemies()[0]
	shots := h.shoot(t, target, frame)
	hp := target.Health

	h.world.Tick(sim.Frame{Delta: frame, Collisions: []sim.Collision{hit(shots[0], target), hit(shots[0], target)}})
	assert.InDelta(t, hp-15, target.Health, 1e-9)
}

func TestTick_ContactConsumesEnemyWithoutCredit(t *testing.T) {
	h := newHarness(t, 0.99)
	target := h.world.Enemies()[0]

	r := h.world.Tick(sim.Frame{Delta: frame, Collisions: []sim.Collision{
		{Kind: sim.ActorActor, A: target.ID, B: player.ID},
	}})

	assert.InDelta(t, 85, h.world.Player().Actor.Health, 1e-9)
	assert.Zero(t, h.world.Score())
	assert.Zero(t, r.Kills)
	for _, e := range h.world.Enemies() {
		assert.NotEqual(t, target.ID, e.ID)
	}
	_, ok := h.space.Position(target.ID)
	assert.False(t, ok)
}

func TestTick_EnemyPairContactIgnored(t *testing.T) {
	h := newHarness(t, 0.99)
	es := h.world.Enemies()
	h.world.Tick(sim.Frame{Delta: frame, Collisions: []sim.Collision{
		{Kind: sim.ActorActor, A: es[0].ID, B: es[1].ID},
	}})
	assert.InDelta(t, 100, h.world.Player().Actor.Health, 1e-9)
	assert.Len(t, h.world.Enemies(), len(es))
}

func TestTick_BossLifecycle(t *testing.T) {
	h := newHarness(t, 0.99)
	first := h.world.Enemies()[0]
	shots := h.shoot(t, first, frame)
	first.Health = 1
	first.ScoreValue = 500

	h.world.Tick(sim.Frame{Delta: frame, Collisions: []sim.Collision{hit(shots[0], first)}})

	boss := h.world.Director().ActiveBoss()
	require.NotNil(t, boss, "crossing the boss interval spawns the boss")
	assert.Equal(t, 4, h.world.Player().Ledger.Level)
	assert.Equal(t, 2, h.world.Director().DifficultyLevel())
	assert.Equal(t, []event.Kind{
		event.ScoreChanged,
		event.LevelUp,
		event.BossSpawned,
		event.DifficultyIncrease,
		event.BossHealthChanged,
	}, h.rec.kinds())
	_, placed := h.space.Position(boss.ID)
	assert.True(t, placed)

	shots = h.shoot(t, boss, time.Second)
	boss.Health = 1
	h.rec.events = nil
	r := h.world.Tick(sim.Frame{Delta: frame, Collisions: []sim.Collision{hit(shots[0], boss)}})

	assert.Equal(t, 1, r.Kills)
	assert.Nil(t, h.world.Director().ActiveBoss())
	assert.Equal(t, 700, h.world.Score())
	assert.Equal(t, []event.Kind{
		event.BossPhaseChanged,
		event.ScoreChanged,
		event.BossDefeated,
		event.DifficultyIncrease,
	}, h.rec.kinds())
	phase, _ := h.rec.last(event.BossPhaseChanged)
	assert.Equal(t, 3, phase.Phase)
}

func TestTick_BossContactPersists(t *testing.T) {
	h := newHarness(t, 0.99)
	first := h.world.Enemies()[0]
	shots := h.shoot(t, first, frame)
	first.Health = 1
	first.ScoreValue = 500
	h.world.Tick(sim.Frame{Delta: frame, Collisions: []sim.Collision{hit(shots[0], first)}})
	boss := h.world.Director().ActiveBoss()
	require.NotNil(t, boss)
	maxHP := h.world.Player().Actor.MaxHealth

	h.world.Tick(sim.Frame{Delta: frame, Collisions: []sim.Collision{{Kind: sim.ActorActor, A: player.ID, B: boss.ID}}})

	assert.InDelta(t, maxHP-20, h.world.Player().Actor.Health, 1e-9)
	assert.Same(t, boss, h.world.Director().ActiveBoss())
}

func TestTick_ExplosionKillsEveryEnemyInRadius(t *testing.T) {
	h := newHarness(t, 0.99)
	p := h.world.Player()
	require.True(t, p.UnlockWeapon("rocket_launcher"))
	h.world.Tick(sim.Frame{Delta: frame, Input: sim.Input{Weapon: "rocket_launcher"}})
	require.Equal(t, "rocket_launcher", p.CurrentWeapon().Def.ID)

	enemies := h.world.Enemies()
	for _, e := range enemies {
		e.Health = 10
	}
	target := enemies[0]
	shots := h.shoot(t, target, frame)
	rocket := shots[0]
	h.space.Place(sim.Body{ID: rocket.ID, Kind: sim.BodyProjectile, Position: h.pos(t, target.ID), Radius: rocket.Size})

	r := h.world.Tick(sim.Frame{Delta: frame, Collisions: []sim.Collision{hit(rocket, target)}})

	assert.Equal(t, len(enemies), r.Kills, "spawns share a point, so the blast reaches all of them")
	assert.Equal(t, 30*len(enemies), h.world.Score())
}

func TestTick_EnemyProjectilesOnlyHurtThePlayer(t *testing.T) {
	h := newHarness(t, 0.3)
	enemies := h.world.Enemies()
	shooter := enemies[0]
	require.Equal(t, "shooter", shooter.Archetype)
	h.space.Place(sim.Body{ID: shooter.ID, Kind: sim.BodyActor, Position: h.pos(t, player.ID).Add(geom.Vec{X: 100}), Radius: shooter.Size})

	h.world.Tick(sim.Frame{Delta: frame})
	var bullet *combat.Projectile
	for _, p := range h.world.Projectiles() {
		if p.Owner == shooter.ID {
			bullet = p
		}
	}
	require.NotNil(t, bullet, "shooter in range fires immediately")
	assert.Equal(t, combat.FactionEnemy, bullet.Faction)

	h.world.Tick(sim.Frame{Delta: frame, Collisions: []sim.Collision{
		hit(bullet, enemies[1]),
		{Kind: sim.ProjectileActor, A: bullet.ID, B: player.ID},
	}})
	assert.InDelta(t, 25, enemies[1].Health, 1e-9)
	assert.InDelta(t, 92, h.world.Player().Actor.Health, 1e-9)
}

func TestTick_ProjectileWallDestroys(t *testing.T) {
	h := newHarness(t, 0.99)
	shots := h.shoot(t, h.world.Enemies()[0], frame)
	h.world.Tick(sim.Frame{Delta: frame, Collisions: []sim.Collision{{Kind: sim.ProjectileWall, A: shots[0].ID}}})
	assert.Empty(t, h.world.Projectiles())
	_, ok := h.space.Position(shots[0].ID)
	assert.False(t, ok)
}

func TestTick_ProjectilesExpire(t *testing.T) {
	h := newHarness(t, 0.99)
	h.shoot(t, h.world.Enemies()[0], frame)
	h.world.Tick(sim.Frame{Delta: 2 * time.Second})
	assert.Empty(t, h.world.Projectiles())
}

func TestTick_PickupsAreCollected(t *testing.T) {
	h := newHarness(t, 0.01)
	target := h.world.Enemies()[0]
	require.Equal(t, "chaser", target.Archetype)
	shots := h.shoot(t, target, frame)
	target.Health = 1
	h.world.Tick(sim.Frame{Delta: frame, Collisions: []sim.Collision{hit(shots[0], target)}})

	pickups := h.world.Pickups()
	require.Len(t, pickups, 2)
	assert.Equal(t, sim.PickupItem, pickups[0].Kind)
	assert.Equal(t, "speed_boost", pickups[0].Item.ID)
	assert.Equal(t, sim.PickupCredit, pickups[1].Kind)

	speed := h.world.Player().Speed()
	h.world.Tick(sim.Frame{Delta: frame, Collisions: []sim.Collision{
		{Kind: sim.ActorPickup, A: player.ID, B: pickups[0].ID},
		{Kind: sim.ActorPickup, A: player.ID, B: pickups[1].ID},
		{Kind: sim.ActorPickup, A: player.ID, B: pickups[1].ID},
	}})

	assert.Empty(t, h.world.Pickups())
	assert.InDelta(t, speed+30, h.world.Player().Speed(), 1e-9)
	assert.Equal(t, 5, h.world.Economy().RunCredits)
	assert.Equal(t, 5, h.world.Economy().TotalCredits)
	e, ok := h.rec.last(event.ItemPickedUp)
	require.True(t, ok)
	assert.Equal(t, "speed_boost", e.Item)
	e, ok = h.rec.last(event.CreditsChanged)
	require.True(t, ok)
	assert.Equal(t, 5, e.Credits)
}

func TestTick_EnemyCannotCollectPickups(t *testing.T) {
	h := newHarness(t, 0.01)
	target := h.world.Enemies()[0]
	other := h.world.Enemies()[1]
	shots := h.shoot(t, target, frame)
	target.Health = 1
	h.world.Tick(sim.Frame{Delta: frame, Collisions: []sim.Collision{hit(shots[0], target)}})
	pk := h.world.Pickups()[0]

	h.world.Tick(sim.Frame{Delta: frame, Collisions: []sim.Collision{{Kind: sim.ActorPickup, A: other.ID, B: pk.ID}}})
	assert.Len(t, h.world.Pickups(), 2)
}

func TestTick_MagnetPullsPickups(t *testing.T) {
	h := newHarness(t, 0.01)
	target := h.world.Enemies()[0]
	shots := h.shoot(t, target, frame)
	target.Health = 1
	h.world.Tick(sim.Frame{Delta: frame, Collisions: []sim.Collision{hit(shots[0], target)}})
	before := h.world.Pickups()[0].Position
	ppos := h.pos(t, player.ID)

	h.world.Tick(sim.Frame{Delta: frame})
	assert.Equal(t, before, h.world.Pickups()[0].Position, "no magnet without a magnet bonus")

	h.world.Player().Mods.AddItem("magnet_test", stats.MagnetRange, 1000)
	h.world.Tick(sim.Frame{Delta: frame})
	after := h.world.Pickups()[0].Position
	assert.InDelta(t, geom.Distance(before, ppos)-5, geom.Distance(after, ppos), 1e-9)
	assert.Equal(t, after, h.pos(t, h.world.Pickups()[0].ID))
}

func TestTick_DiagonalMovementIsScaled(t *testing.T) {
	h := newHarness(t, 0.99)
	origin := h.pos(t, player.ID)
	h.world.Tick(sim.Frame{Delta: frame, Input: sim.Input{Move: geom.Vec{X: 1, Y: 1}}})
	h.space.Step(100 * time.Millisecond)
	moved := h.pos(t, player.ID).Sub(origin)
	assert.InDelta(t, 250*0.707*0.1, moved.X, 1e-9)
	assert.InDelta(t, 250*0.707*0.1, moved.Y, 1e-9)

	origin = h.pos(t, player.ID)
	h.world.Tick(sim.Frame{Delta: frame, Input: sim.Input{Move: geom.Vec{X: -3}}})
	h.space.Step(100 * time.Millisecond)
	moved = h.pos(t, player.ID).Sub(origin)
	assert.InDelta(t, -25, moved.X, 1e-9, "axes are clamped to unit magnitude")
	assert.InDelta(t, 0, moved.Y, 1e-9)
}

func TestTick_WeaponSwitchRequiresUnlock(t *testing.T) {
	h := newHarness(t, 0.99)
	h.world.Tick(sim.Frame{Delta: frame, Input: sim.Input{Weapon: "shotgun"}})
	assert.Equal(t, "pistol", h.world.Player().CurrentWeapon().Def.ID)

	require.True(t, h.world.Player().UnlockWeapon("shotgun"))
	h.world.Tick(sim.Frame{Delta: frame, Input: sim.Input{Weapon: "shotgun"}})
	assert.Equal(t, "shotgun", h.world.Player().CurrentWeapon().Def.ID)
	assert.Len(t, h.shoot(t, h.world.Enemies()[0], frame), 5)
}

func TestTick_PausedFreezesEverything(t *testing.T) {
	h := newHarness(t, 0.99)
	h.world.SetPaused(true)
	r := h.world.Tick(sim.Frame{Delta: time.Second, Input: sim.Input{Fire: true, Aim: geom.Vec{X: 1}}})
	assert.True(t, r.Paused)
	assert.Zero(t, r.Tick)
	assert.Equal(t, start, h.world.Now())
	assert.Empty(t, h.world.Projectiles())

	// skill menu stays usable while paused
	h.world.Player().Ledger.Points = 1
	assert.True(t, h.world.Player().UpgradeSkill("power"))

	h.world.SetPaused(false)
	r = h.world.Tick(sim.Frame{Delta: time.Second})
	assert.False(t, r.Paused)
	assert.Equal(t, start.Add(time.Second), h.world.Now())
}

func TestTick_PlayerDeathEndsRun(t *testing.T) {
	h := newHarness(t, 0.99)
	h.world.Player().Actor.Health = 1
	target := h.world.Enemies()[0]

	r := h.world.Tick(sim.Frame{Delta: frame, Collisions: []sim.Collision{
		{Kind: sim.ActorActor, A: player.ID, B: target.ID},
		{Kind: sim.ActorActor, A: player.ID, B: h.world.Enemies()[1].ID},
	}})
	assert.True(t, r.Over)
	assert.True(t, h.world.Over())
	assert.Zero(t, h.world.Player().Actor.Health)
	e, ok := h.rec.last(event.GameOver)
	require.True(t, ok)
	assert.Equal(t, 1, e.Level)

	after := h.world.Tick(sim.Frame{Delta: frame})
	assert.True(t, after.Over)
	assert.Equal(t, r.Tick, after.Tick)
}

func TestTick_RegenHealsOverDelta(t *testing.T) {
	h := newHarness(t, 0.99)
	p := h.world.Player()
	p.Actor.Health = 50
	p.Mods.AddItem("regen_test", stats.RegenRate, 4)
	h.world.Tick(sim.Frame{Delta: 500 * time.Millisecond})
	assert.InDelta(t, 52, p.Actor.Health, 1e-9)
}
