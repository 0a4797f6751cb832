package stats

import "math"

const (
	// ArmorCap is the maximum fraction of incoming damage armor can absorb.
	ArmorCap = 0.75
	// FireRateCap bounds the cooldown reduction so weapons keep a positive cooldown.
	FireRateCap = 0.9
)

// Effective is the resolved view of base + item + skill contributions.
type Effective struct {
	raw Values
}

// Resolve combines base values with every contribution in set.
// A nil set resolves to base.
//
// Postcondition: the result depends only on base and the contents of set,
// never on the order contributions were added.
func Resolve(base Values, set *Set) Effective {
	raw := base
	if set != nil {
		raw = raw.Plus(set.ItemTotal()).Plus(set.SkillTotal())
	}
	return Effective{raw: raw}
}

// Raw returns the uncapped sum for ch.
func (e Effective) Raw(ch Channel) float64 {
	return e.raw[ch]
}

// Stat returns the effective value for ch with channel-specific caps applied.
// Armor is clamped to [0, ArmorCap]; fire-rate bonus to [0, FireRateCap].
// Evasion is returned raw; use EvasionChance for a probability.
func (e Effective) Stat(ch Channel) float64 {
	v := e.raw[ch]
	switch ch {
	case Armor:
		return math.Max(0, math.Min(v, ArmorCap))
	case FireRateBonus:
		return math.Max(0, math.Min(v, FireRateCap))
	}
	return v
}

// EvasionChance returns evasion as a probability clamped to [0, 1].
// A value of 1 always dodges.
func (e Effective) EvasionChance() float64 {
	v := e.raw[Evasion]
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(v, 1))
}

// Whole returns the channel value truncated toward zero, for count channels
// such as extra bullets and penetration.
func (e Effective) Whole(ch Channel) int {
	v := e.Stat(ch)
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return int(v)
}
