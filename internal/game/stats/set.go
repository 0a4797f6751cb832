package stats

import (
	"sort"
	"strings"
)

const (
	itemPrefix  = "item:"
	skillPrefix = "skill:"
)

// Values holds one number per channel.
type Values [numChannels]float64

// Get returns the value stored for ch.
func (v Values) Get(ch Channel) float64 { return v[ch] }

// With returns a copy of v with ch set to x.
func (v Values) With(ch Channel, x float64) Values {
	v[ch] = x
	return v
}

// Plus returns the channel-wise sum of v and o.
func (v Values) Plus(o Values) Values {
	for i := range v {
		v[i] += o[i]
	}
	return v
}

// Contribution is one source's signed amount on one channel.
type Contribution struct {
	Kind    string
	Channel Channel
	Amount  float64
}

// Set maps modifier sources ("item:<kind>", "skill:<kind>") to their
// per-channel contributions.
//
// Item contributions are append-only. Skill contributions are replaced
// wholesale whenever the skill tree recomputes.
// It is not safe for concurrent use; the caller must serialise access.
type Set struct {
	sources   map[string]Values
	itemTotal Values
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{sources: make(map[string]Values)}
}

// AddItem records a consumed item's contribution.
//
// Postcondition: Source("item:"+kind)[ch] grows by amount.
func (s *Set) AddItem(kind string, ch Channel, amount float64) {
	key := itemPrefix + kind
	v := s.sources[key]
	v[ch] += amount
	s.sources[key] = v
	s.itemTotal[ch] += amount
}

// ReplaceSkills discards every skill-sourced contribution and installs contribs.
// Contributions with a zero amount are dropped.
func (s *Set) ReplaceSkills(contribs []Contribution) {
	for key := range s.sources {
		if strings.HasPrefix(key, skillPrefix) {
			delete(s.sources, key)
		}
	}
	for _, c := range contribs {
		if c.Amount == 0 {
			continue
		}
		key := skillPrefix + c.Kind
		v := s.sources[key]
		v[c.Channel] += c.Amount
		s.sources[key] = v
	}
}

// Source returns the contribution stored under key; absent keys yield zero values.
func (s *Set) Source(key string) Values {
	return s.sources[key]
}

// Sources returns every source key in sorted order.
func (s *Set) Sources() []string {
	keys := make([]string, 0, len(s.sources))
	for k := range s.sources {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ItemTotal returns the aggregate of all item contributions.
func (s *Set) ItemTotal() Values {
	return s.itemTotal
}

// SkillTotal returns the aggregate of all skill contributions.
func (s *Set) SkillTotal() Values {
	var total Values
	for key, v := range s.sources {
		if strings.HasPrefix(key, skillPrefix) {
			total = total.Plus(v)
		}
	}
	return total
}
