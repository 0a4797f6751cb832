// Package stats aggregates item and skill modifiers into effective stats.
//
// Stored contributions are raw sums; caps are applied when a stat is read so
// history is never corrupted by clamping.
package stats

import (
	"fmt"
	"strings"
)

// Channel names one stat that items and skills can contribute to.
type Channel int

const (
	Speed Channel = iota
	DamageMultiplier
	Armor
	Evasion
	ExtraBullets
	MagnetRange
	ExpBonus
	DropBonus
	RegenRate
	FireRateBonus
	PenetrationBonus
	ExplosionBonus
	// MaxHealth is a one-time grant channel. Contributions are applied to the
	// actor as they are gained; the aggregate is kept for delta bookkeeping only.
	MaxHealth

	numChannels
)

var channelNames = [numChannels]string{
	Speed:            "speed",
	DamageMultiplier: "damage_multiplier",
	Armor:            "armor",
	Evasion:          "evasion",
	ExtraBullets:     "extra_bullets",
	MagnetRange:      "magnet_range",
	ExpBonus:         "exp_bonus",
	DropBonus:        "drop_bonus",
	RegenRate:        "regen_rate",
	FireRateBonus:    "fire_rate_bonus",
	PenetrationBonus: "penetration_bonus",
	ExplosionBonus:   "explosion_bonus",
	MaxHealth:        "max_health",
}

// String returns the snake_case name used in content files.
func (c Channel) String() string {
	if c < 0 || c >= numChannels {
		return fmt.Sprintf("channel(%d)", int(c))
	}
	return channelNames[c]
}

// Valid reports whether c names a known channel.
func (c Channel) Valid() bool {
	return c >= 0 && c < numChannels
}

// Channels returns every channel in declaration order.
func Channels() []Channel {
	out := make([]Channel, numChannels)
	for i := range out {
		out[i] = Channel(i)
	}
	return out
}

// ParseChannel maps a content-file name onto a Channel.
//
// Postcondition: returns an error for unknown names.
func ParseChannel(name string) (Channel, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range channelNames {
		if s == n {
			return Channel(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stat channel %q", name)
}

// UnmarshalText lets channels be decoded directly from YAML scalars.
func (c *Channel) UnmarshalText(text []byte) error {
	ch, err := ParseChannel(string(text))
	if err != nil {
		return err
	}
	*c = ch
	return nil
}

// MarshalText encodes the channel by name.
func (c Channel) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid stat channel %d", int(c))
	}
	return []byte(c.String()), nil
}
