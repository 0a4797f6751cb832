// Package skill implements the leveled skill tree and its modifier recomputation.
package skill

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/neonsurge/internal/game/content"
	"github.com/cory-johannsen/neonsurge/internal/game/stats"
)

// Points is the skill-point wallet an upgrade draws from.
type Points interface {
	// SkillPoints returns the unspent balance.
	SkillPoints() int
	// SpendSkillPoints deducts n and reports success; it never goes negative.
	SpendSkillPoints(n int) bool
}

// OneShotTarget receives one-time stat grants from one-shot skills.
type OneShotTarget interface {
	// GrantOneShot applies delta to ch exactly once.
	GrantOneShot(ch stats.Channel, delta float64)
}

// Entry is a read-only view of one skill for menus.
type Entry struct {
	Def   *content.SkillDef
	Level int
	Cost  int
	Maxed bool
}

// Tree tracks per-skill levels and keeps the skill-sourced modifiers in sync.
//
// Absent skills are level 0. Levels only ever increase.
// It is not safe for concurrent use; the caller must serialise access.
type Tree struct {
	defs    []*content.SkillDef
	levels  map[string]int
	granted map[string]float64
	mods    *stats.Set
	target  OneShotTarget
	logger  *zap.Logger
}

// NewTree creates a tree over defs that writes continuous effects into mods and
// one-shot effects into target.
//
// Precondition: mods must be non-nil. A nil target drops one-shot grants.
func NewTree(defs []*content.SkillDef, mods *stats.Set, target OneShotTarget, logger *zap.Logger) *Tree {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tree{
		defs:    defs,
		levels:  make(map[string]int),
		granted: make(map[string]float64),
		mods:    mods,
		target:  target,
		logger:  logger,
	}
}

func (t *Tree) def(kind string) *content.SkillDef {
	for _, d := range t.defs {
		if d.ID == kind {
			return d
		}
	}
	return nil
}

// GetLevel returns the current level of kind; unknown kinds are level 0.
func (t *Tree) GetLevel(kind string) int {
	return t.levels[kind]
}

// GetCost returns baseCost + level*costPerLevel for kind, or 0 for unknown kinds.
func (t *Tree) GetCost(kind string) int {
	d := t.def(kind)
	if d == nil {
		return 0
	}
	return d.BaseCost + t.levels[kind]*d.CostPerLevel
}

// Upgrade spends points to raise kind by one level.
//
// Postcondition: returns false without mutating anything when kind is unknown,
// already at max level, or pts cannot cover the cost. On success the level is
// incremented and every skill effect is recomputed.
func (t *Tree) Upgrade(kind string, pts Points) bool {
	d := t.def(kind)
	if d == nil {
		return false
	}
	level := t.levels[kind]
	if level >= d.MaxLevel {
		return false
	}
	cost := t.GetCost(kind)
	if pts.SkillPoints() < cost || !pts.SpendSkillPoints(cost) {
		return false
	}
	t.levels[kind] = level + 1
	t.logger.Info("skill upgraded",
		zap.String("skill", kind),
		zap.Int("level", level+1),
		zap.Int("cost", cost),
	)
	t.Recompute()
	return true
}

// Effect returns effectPerLevel*level for kind.
func (t *Tree) Effect(kind string) float64 {
	d := t.def(kind)
	if d == nil {
		return 0
	}
	return d.EffectPerLevel * float64(t.levels[kind])
}

// Recompute rebuilds every skill-sourced modifier from current levels.
//
// Continuous skills replace their contribution in the modifier set. One-shot
// skills grant only the difference between their cumulative effect and what
// was already granted, so recomputing never re-grants.
func (t *Tree) Recompute() {
	var contribs []stats.Contribution
	for _, d := range t.defs {
		cumulative := d.EffectPerLevel * float64(t.levels[d.ID])
		if d.OneShot {
			delta := cumulative - t.granted[d.ID]
			if delta != 0 && t.target != nil {
				t.target.GrantOneShot(d.Channel, delta)
			}
			t.granted[d.ID] = cumulative
			continue
		}
		contribs = append(contribs, stats.Contribution{Kind: d.ID, Channel: d.Channel, Amount: cumulative})
	}
	t.mods.ReplaceSkills(contribs)
}

// Entries lists every skill in menu order.
func (t *Tree) Entries() []Entry {
	out := make([]Entry, 0, len(t.defs))
	for _, d := range t.defs {
		lvl := t.levels[d.ID]
		out = append(out, Entry{Def: d, Level: lvl, Cost: t.GetCost(d.ID), Maxed: lvl >= d.MaxLevel})
	}
	return out
}
