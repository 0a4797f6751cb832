package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/neonsurge/internal/game/combat"
	"github.com/cory-johannsen/neonsurge/internal/game/stats"
)

func TestActor_Variant(t *testing.T) {
	p := combat.Actor{Variant: combat.VariantPlayer}
	b := combat.Actor{Variant: combat.VariantBoss}
	assert.True(t, p.IsPlayer())
	assert.False(t, b.IsPlayer())
	assert.True(t, b.IsBoss())
	assert.Equal(t, "boss", b.Variant.String())
}

func TestActor_HealClampsToMax(t *testing.T) {
	a := combat.Actor{Health: 90, MaxHealth: 100}
	a.Heal(25)
	assert.Equal(t, 100.0, a.Health)
	a.Health = 50
	a.Heal(-5)
	assert.Equal(t, 50.0, a.Health)
}

func TestActor_DeadActorsDoNotHeal(t *testing.T) {
	a := combat.Actor{Health: 0, MaxHealth: 100, Dead: true}
	a.Heal(10)
	a.FullHeal()
	assert.Zero(t, a.Health)
}

func TestActor_GrantOneShotRaisesMaxAndCurrent(t *testing.T) {
	a := combat.Actor{Health: 60, MaxHealth: 100}
	a.GrantOneShot(stats.MaxHealth, 20)
	assert.Equal(t, 120.0, a.MaxHealth)
	assert.Equal(t, 80.0, a.Health)

	a.GrantOneShot(stats.Speed, 50)
	assert.Equal(t, 120.0, a.MaxHealth, "only max health has a one-shot form")
}

func TestActor_EffectiveIncludesMods(t *testing.T) {
	mods := stats.NewSet()
	mods.AddItem("speed_boost", stats.Speed, 30)
	a := combat.Actor{BaseSpeed: 250, DamageMultiplier: 1, Mods: mods}
	eff := a.Effective()
	assert.Equal(t, 280.0, eff.Stat(stats.Speed))
	assert.Equal(t, 1.0, eff.Stat(stats.DamageMultiplier))
}

func TestProperty_HealthFractionInUnitInterval(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := combat.Actor{
			Health:    rapid.Float64Range(-10, 500).Draw(rt, "hp"),
			MaxHealth: rapid.Float64Range(0, 400).Draw(rt, "max"),
		}
		f := a.HealthFraction()
		assert.GreaterOrEqual(rt, f, 0.0)
		assert.LessOrEqual(rt, f, 1.0)
	})
}
