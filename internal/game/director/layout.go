package director

import (
	"math"

	"github.com/cory-johannsen/neonsurge/internal/game/dice"
	"github.com/cory-johannsen/neonsurge/internal/game/geom"
)

// Pattern is a map layout family.
type Pattern int

const (
	PatternOpen Pattern = iota
	PatternArena
	PatternMaze
)

// String returns the pattern name.
func (p Pattern) String() string {
	switch p {
	case PatternOpen:
		return "open"
	case PatternArena:
		return "arena"
	case PatternMaze:
		return "maze"
	default:
		return "unknown"
	}
}

// MapSpec holds the wall generation constants.
type MapSpec struct {
	WallCount   int
	WallMin     float64
	WallMax     float64
	SafeZone    float64
	Boundary    float64
	MaxAttempts int
	// PlacementMargin keeps random walls away from the map edge.
	PlacementMargin float64
	PillarSize      float64
	MazeCell        float64
	MazeThickness   float64
}

// DefaultMapSpec returns the standard wall constants.
func DefaultMapSpec() MapSpec {
	return MapSpec{
		WallCount:       30,
		WallMin:         40,
		WallMax:         120,
		SafeZone:        300,
		Boundary:        50,
		MaxAttempts:     50,
		PlacementMargin: 100,
		PillarSize:      80,
		MazeCell:        400,
		MazeThickness:   30,
	}
}

// Layout is the wall set for the current map.
type Layout struct {
	Pattern Pattern
	Walls   []geom.Rect
}

// GenerateLayout builds a layout of pattern p around the player's position.
//
// Postcondition: every layout includes the four boundary walls; random walls
// avoid the safe zone unless MaxAttempts placements all land inside it.
func GenerateLayout(p Pattern, bounds geom.Bounds, player geom.Vec, spec MapSpec, roller *dice.Roller) Layout {
	l := Layout{Pattern: p}
	switch p {
	case PatternOpen:
		l.Walls = openWalls(bounds, player, spec, roller)
	case PatternArena:
		l.Walls = arenaWalls(bounds, player, spec)
	case PatternMaze:
		l.Walls = mazeWalls(bounds, player, spec, roller)
	}
	l.Walls = append(l.Walls, boundaryWalls(bounds, spec.Boundary)...)
	return l
}

func openWalls(bounds geom.Bounds, player geom.Vec, spec MapSpec, roller *dice.Roller) []geom.Rect {
	walls := make([]geom.Rect, 0, spec.WallCount)
	m := spec.PlacementMargin
	for i := 0; i < spec.WallCount; i++ {
		var r geom.Rect
		for attempt := 0; attempt < spec.MaxAttempts; attempt++ {
			r = geom.Rect{
				Center: geom.Vec{
					X: roller.Between("wall_x", m, bounds.Width-m),
					Y: roller.Between("wall_y", m, bounds.Height-m),
				},
				Width:  roller.Between("wall_w", spec.WallMin, spec.WallMax),
				Height: roller.Between("wall_h", spec.WallMin, spec.WallMax),
			}
			if geom.Distance(r.Center, player) >= spec.SafeZone {
				break
			}
		}
		walls = append(walls, r)
	}
	return walls
}

func arenaWalls(bounds geom.Bounds, player geom.Vec, spec MapSpec) []geom.Rect {
	var walls []geom.Rect
	for _, fx := range []float64{0.25, 0.75} {
		for _, fy := range []float64{0.25, 0.75} {
			c := geom.Vec{X: bounds.Width * fx, Y: bounds.Height * fy}
			if geom.Distance(c, player) < spec.SafeZone/2 {
				continue
			}
			walls = append(walls, geom.Rect{Center: c, Width: spec.PillarSize, Height: spec.PillarSize})
		}
	}
	return walls
}

func mazeWalls(bounds geom.Bounds, player geom.Vec, spec MapSpec, roller *dice.Roller) []geom.Rect {
	var walls []geom.Rect
	cell := spec.MazeCell
	length := cell * 0.6
	cols := int(math.Floor(bounds.Width / cell))
	rows := int(math.Floor(bounds.Height / cell))
	for i := 1; i < cols; i++ {
		for j := 1; j < rows; j++ {
			c := geom.Vec{X: float64(i) * cell, Y: float64(j) * cell}
			if geom.Distance(c, player) < spec.SafeZone {
				continue
			}
			if roller.Chance("maze_orientation", 0.5) {
				walls = append(walls, geom.Rect{Center: c, Width: length, Height: spec.MazeThickness})
			} else {
				walls = append(walls, geom.Rect{Center: c, Width: spec.MazeThickness, Height: length})
			}
		}
	}
	return walls
}

func boundaryWalls(b geom.Bounds, t float64) []geom.Rect {
	return []geom.Rect{
		{Center: geom.Vec{X: b.Width / 2, Y: t / 2}, Width: b.Width, Height: t},
		{Center: geom.Vec{X: b.Width / 2, Y: b.Height - t/2}, Width: b.Width, Height: t},
		{Center: geom.Vec{X: t / 2, Y: b.Height / 2}, Width: t, Height: b.Height},
		{Center: geom.Vec{X: b.Width - t/2, Y: b.Height / 2}, Width: t, Height: b.Height},
	}
}
