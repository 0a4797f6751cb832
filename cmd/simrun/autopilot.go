package main

import (
	"math"
	"time"

	"github.com/cory-johannsen/neonsurge/internal/game/geom"
	"github.com/cory-johannsen/neonsurge/internal/game/physics"
	"github.com/cory-johannsen/neonsurge/internal/game/player"
	"github.com/cory-johannsen/neonsurge/internal/game/sim"
)

const (
	// headingFrames is how long the autopilot holds one movement direction.
	headingFrames = 120
	// weaponFrames is how often the autopilot cycles to the next unlocked weapon.
	weaponFrames = 600
)

// autopilot stands in for a human: it circles the arena, fires at the
// nearest enemy, spends skill points as soon as they accrue, and steps the
// physics space to produce each frame's collisions.
type autopilot struct {
	world  *sim.World
	space  *physics.Space
	skills []string
	frames int
	next   int
}

func newAutopilot(world *sim.World, space *physics.Space, skills []string) *autopilot {
	return &autopilot{world: world, space: space, skills: skills}
}

// Frame implements sim.FrameSource.
func (a *autopilot) Frame(delta time.Duration) sim.Frame {
	a.frames++
	a.spendPoints()

	heading := float64(a.frames/headingFrames) * math.Pi / 4
	in := sim.Input{Move: geom.FromAngle(heading, 1)}
	self, _ := a.space.Position(player.ID)
	if target, ok := a.nearest(self); ok {
		in.Aim = target
		in.Fire = true
	}
	if weapons := a.world.Player().UnlockedWeapons(); len(weapons) > 1 && a.frames%weaponFrames == 0 {
		in.Weapon = weapons[(a.frames/weaponFrames)%len(weapons)]
	}
	return sim.Frame{Delta: delta, Input: in, Collisions: a.space.Step(delta)}
}

func (a *autopilot) nearest(from geom.Vec) (geom.Vec, bool) {
	best, found := geom.Vec{}, false
	bestDist := math.Inf(1)
	for _, e := range a.world.Enemies() {
		pos, ok := a.space.Position(e.ID)
		if !ok {
			continue
		}
		if d := geom.Distance(from, pos); d < bestDist {
			best, bestDist, found = pos, d, true
		}
	}
	return best, found
}

// spendPoints upgrades skills round-robin in menu order until no affordable
// upgrade remains.
func (a *autopilot) spendPoints() {
	p := a.world.Player()
	for p.Ledger.Points > 0 && len(a.skills) > 0 {
		upgraded := false
		for i := range a.skills {
			k := (a.next + i) % len(a.skills)
			if p.UpgradeSkill(a.skills[k]) {
				a.next = (k + 1) % len(a.skills)
				upgraded = true
				break
			}
		}
		if !upgraded {
			return
		}
	}
}
