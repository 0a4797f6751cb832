package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/neonsurge/internal/game/dice"
)

// TestCryptoSource_Intn_InRange verifies the postcondition:
// every value returned by Intn(6) is in [0, 6).
func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

// TestCryptoSource_Intn_PanicsOnZero verifies the precondition:
// Intn panics when called with n <= 0.
func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

func TestSeededSource_Reproducible(t *testing.T) {
	a := dice.NewSeededSource(42)
	b := dice.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Intn(1000), b.Intn(1000))
	}
}

func TestScriptedSource_MapsDrawsOntoRange(t *testing.T) {
	src := dice.NewScriptedSource(0.0, 0.5, 0.999)
	assert.Equal(t, 0, src.Intn(4))
	assert.Equal(t, 2, src.Intn(4))
	assert.Equal(t, 3, src.Intn(4))
	// cycles
	assert.Equal(t, 0, src.Intn(4))
	assert.Equal(t, 4, src.Consumed())
}

func TestFloat_ScriptedIsExact(t *testing.T) {
	src := dice.NewScriptedSource(0.25, 0.5)
	assert.Equal(t, 0.25, dice.Float(src))
	assert.Equal(t, 0.5, dice.Float(src))
}

func TestRoller_Chance(t *testing.T) {
	r := dice.NewLoggedRoller(dice.NewScriptedSource(0.2, 0.8), nil)
	assert.True(t, r.Chance("a", 0.5))
	assert.False(t, r.Chance("b", 0.5))
}

func TestRoller_Chance_Bounds(t *testing.T) {
	r := dice.NewLoggedRoller(dice.NewScriptedSource(0.0), nil)
	assert.False(t, r.Chance("never", 0))
	assert.True(t, r.Chance("always", 1))
}

func TestRoller_LogsAtDebug(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := dice.NewLoggedRoller(dice.NewScriptedSource(0.1), zap.New(core))
	r.Chance("evasion", 0.3)
	entries := logs.FilterMessage("dice chance").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "evasion", entries[0].ContextMap()["label"])
	assert.Equal(t, true, entries[0].ContextMap()["success"])
}

func TestProperty_FloatInUnitInterval(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		src := dice.NewSeededSource(seed)
		for i := 0; i < 20; i++ {
			f := dice.Float(src)
			assert.GreaterOrEqual(rt, f, 0.0)
			assert.Less(rt, f, 1.0)
		}
	})
}

func TestProperty_BetweenInRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.Float64Range(-100, 100).Draw(rt, "lo")
		width := rapid.Float64Range(0.001, 100).Draw(rt, "width")
		r := dice.NewLoggedRoller(dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed")), nil)
		v := r.Between("x", lo, lo+width)
		assert.GreaterOrEqual(rt, v, lo)
		assert.Less(rt, v, lo+width)
	})
}
