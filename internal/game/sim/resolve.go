package sim

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/neonsurge/internal/game/combat"
	"github.com/cory-johannsen/neonsurge/internal/game/director"
	"github.com/cory-johannsen/neonsurge/internal/game/event"
	"github.com/cory-johannsen/neonsurge/internal/game/geom"
	"github.com/cory-johannsen/neonsurge/internal/game/player"
)

// resolve applies one collision event. Events naming unknown, destroyed, or
// dead participants are ignored.
func (w *World) resolve(c Collision, r *Report) {
	switch c.Kind {
	case ProjectileActor:
		w.projectileHit(c.A, c.B, r)
	case ActorActor:
		w.contact(c.A, c.B)
	case ProjectileWall:
		if p := w.projByID[c.A]; p != nil {
			p.Destroy()
		}
	case ActorPickup:
		if c.A == player.ID {
			w.collect(c.B)
		}
	}
}

// actor returns the live actor with id, or nil.
func (w *World) actor(id string) *combat.Actor {
	if id == player.ID {
		return w.player.Actor
	}
	if e := w.byID[id]; e != nil && !e.removed {
		return e.actor
	}
	return nil
}

func (w *World) projectileHit(pid, aid string, r *Report) {
	p := w.projByID[pid]
	if p == nil || p.Destroyed() {
		return
	}
	target := w.actor(aid)
	if target == nil || !target.Alive() {
		return
	}
	// Projectiles never hurt their own side.
	if (p.Faction == combat.FactionPlayer) == target.IsPlayer() {
		return
	}
	if counted, _ := p.OnHit(aid); !counted {
		return
	}

	out := w.pipeline.ApplyDamage(p.Damage, target)
	if target.IsPlayer() {
		if out.Killed {
			w.gameOver()
		}
		return
	}

	if p.ExplosionRadius > 0 {
		center, ok := w.physics.Position(pid)
		if !ok {
			center, _ = w.physics.Position(aid)
		}
		hits := w.pipeline.Explode(combat.Blast{Center: center, Radius: p.ExplosionRadius, Damage: p.Damage}, w.Enemies(), w.physics)
		for _, h := range hits {
			if h.Outcome.Killed {
				w.onKill(h.Target, r)
			}
		}
	}
	if out.Killed {
		w.onKill(target, r)
	}
}

// contact resolves the player touching an enemy. A regular enemy is consumed
// by the collision without being credited; the boss persists.
func (w *World) contact(a, b string) {
	other := b
	if b == player.ID {
		other = a
	} else if a != player.ID {
		return
	}
	e := w.byID[other]
	if e == nil || e.removed || !e.actor.Alive() || !w.player.Actor.Alive() {
		return
	}
	out := w.pipeline.ApplyDamage(e.actor.BaseDamage, w.player.Actor)
	if !e.actor.IsBoss() {
		w.removeEnemy(e)
	}
	if out.Killed {
		w.gameOver()
	}
}

func (w *World) removeEnemy(e *enemy) {
	e.removed = true
	delete(w.byID, e.actor.ID)
	w.physics.Remove(e.actor.ID)
}

// onKill credits a killed enemy exactly once.
func (w *World) onKill(a *combat.Actor, r *Report) {
	e := w.byID[a.ID]
	if e == nil || e.removed {
		return
	}
	pos, _ := w.physics.Position(a.ID)
	w.removeEnemy(e)
	r.Kills++

	w.addScore(a.ScoreValue)
	w.grantExp(a.ScoreValue)

	if a.IsBoss() {
		for _, loot := range w.director.BossLoot(w.dropBonus()) {
			w.drop(w.director.Scatter(pos, bossScatter), loot)
		}
		w.director.BossDefeated(a)
		w.bus.Emit(event.Event{Kind: event.BossDefeated, Score: w.score})
		return
	}
	w.drop(pos, w.director.RollLoot(w.dropBonus()))
}

func (w *World) addScore(n int) {
	if n <= 0 {
		return
	}
	w.score += n
	w.bus.Emit(event.Event{Kind: event.ScoreChanged, Score: w.score})
}

func (w *World) grantExp(n int) {
	res := w.player.GainExp(float64(n))
	if res.LevelsGained > 0 {
		w.bus.Emit(event.Event{
			Kind:      event.LevelUp,
			Level:     w.player.Ledger.Level,
			Health:    w.player.Actor.Health,
			MaxHealth: w.player.Actor.MaxHealth,
		})
	}
}

func (w *World) drop(at geom.Vec, loot director.LootResult) {
	if loot.Item != nil {
		w.addPickup(&Pickup{ID: uuid.NewString(), Kind: PickupItem, Item: loot.Item, Position: at})
	}
	if loot.Credits > 0 {
		w.addPickup(&Pickup{ID: uuid.NewString(), Kind: PickupCredit, Credits: loot.Credits, Position: at})
	}
}

func (w *World) addPickup(pk *Pickup) {
	w.pickups = append(w.pickups, pk)
	w.pickupByID[pk.ID] = pk
	w.physics.Place(Body{ID: pk.ID, Kind: BodyPickup, Position: pk.Position, Radius: PickupRadius})
}

func (w *World) collect(id string) {
	pk := w.pickupByID[id]
	if pk == nil || !w.player.Actor.Alive() {
		return
	}
	delete(w.pickupByID, id)
	for i, other := range w.pickups {
		if other == pk {
			w.pickups = append(w.pickups[:i], w.pickups[i+1:]...)
			break
		}
	}
	w.physics.Remove(id)

	switch pk.Kind {
	case PickupItem:
		w.player.PickupItem(pk.Item)
		w.bus.Emit(event.Event{Kind: event.ItemPickedUp, Item: pk.Item.ID})
	case PickupCredit:
		w.economy.Earn(pk.Credits)
		w.bus.Emit(event.Event{Kind: event.CreditsChanged, Credits: w.economy.RunCredits})
	}
}

func (w *World) gameOver() {
	if w.over {
		return
	}
	w.over = true
	w.physics.SetVelocity(player.ID, geom.Vec{})
	w.logger.Info("game over",
		zap.Int("score", w.score),
		zap.Int("level", w.player.Ledger.Level),
		zap.Int("run_credits", w.economy.RunCredits),
		zap.Int("difficulty", w.director.DifficultyLevel()),
	)
	w.bus.Emit(event.Event{Kind: event.GameOver, Score: w.score, Level: w.player.Ledger.Level, Credits: w.economy.RunCredits})
}
