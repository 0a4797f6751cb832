package geom_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/neonsurge/internal/game/geom"
)

func TestDistanceAndAngle(t *testing.T) {
	a := geom.Vec{X: 0, Y: 0}
	b := geom.Vec{X: 3, Y: 4}
	assert.InDelta(t, 5, geom.Distance(a, b), 1e-9)
	assert.InDelta(t, math.Atan2(4, 3), geom.Angle(a, b), 1e-9)
}

func TestFromAngle(t *testing.T) {
	v := geom.FromAngle(math.Pi/2, 10)
	assert.InDelta(t, 0, v.X, 1e-9)
	assert.InDelta(t, 10, v.Y, 1e-9)
}

func TestClampInset(t *testing.T) {
	b := geom.Bounds{Width: 100, Height: 50}
	p := b.ClampInset(geom.Vec{X: -20, Y: 80}, 10)
	assert.Equal(t, geom.Vec{X: 10, Y: 40}, p)
}

func TestProperty_FromAngleHasRequestedLength(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		angle := rapid.Float64Range(-10, 10).Draw(rt, "angle")
		length := rapid.Float64Range(0, 1000).Draw(rt, "length")
		assert.InDelta(rt, length, geom.FromAngle(angle, length).Len(), 1e-6)
	})
}
