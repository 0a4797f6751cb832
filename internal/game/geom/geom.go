// Package geom provides the 2D vector math shared by behaviour, weapons, and spawning.
package geom

import "math"

// Vec is a point or direction in world units.
type Vec struct {
	X, Y float64
}

// Add returns v+o.
func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// Scale returns v*k.
func (v Vec) Scale(k float64) Vec { return Vec{v.X * k, v.Y * k} }

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }

// IsZero reports whether both components are zero.
func (v Vec) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vec) float64 { return b.Sub(a).Len() }

// Angle returns the heading in radians from a toward b.
func Angle(a, b Vec) float64 { return math.Atan2(b.Y-a.Y, b.X-a.X) }

// FromAngle returns the vector of the given length pointing along angle.
func FromAngle(angle, length float64) Vec {
	return Vec{math.Cos(angle) * length, math.Sin(angle) * length}
}

// Clamp restricts x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// Rect is an axis-aligned rectangle centred on Center.
type Rect struct {
	Center        Vec
	Width, Height float64
}

// Bounds is the playable area, [0, Width] x [0, Height].
type Bounds struct {
	Width, Height float64
}

// ClampInset clamps p into the bounds shrunk by margin on every side.
func (b Bounds) ClampInset(p Vec, margin float64) Vec {
	return Vec{
		X: Clamp(p.X, margin, b.Width-margin),
		Y: Clamp(p.Y, margin, b.Height-margin),
	}
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() Vec {
	return Vec{b.Width / 2, b.Height / 2}
}
