package combat

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/neonsurge/internal/game/dice"
	"github.com/cory-johannsen/neonsurge/internal/game/geom"
	"github.com/cory-johannsen/neonsurge/internal/game/invariant"
	"github.com/cory-johannsen/neonsurge/internal/game/stats"
	"github.com/cory-johannsen/neonsurge/internal/observability"
)

// ErrInvalidDamage is returned by ValidateDamage for non-finite or negative amounts.
var ErrInvalidDamage = errors.New("invalid damage amount")

// ValidateDamage reports whether amount may enter the pipeline.
func ValidateDamage(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidDamage, amount)
	}
	return nil
}

// DamageOutcome is the result of one damage application.
type DamageOutcome struct {
	// Applied is false when the input was rejected or the target was already dead.
	Applied bool
	// ActualAmount is the health removed after armor, before clamping at zero.
	ActualAmount float64
	Dodged       bool
	// Killed is true only on the application that brought Health to zero.
	Killed bool
}

// Pipeline resolves damage against actors: evasion, armor, health clamp.
// It knows nothing of score or loot; callers observe Killed.
type Pipeline struct {
	roller   *dice.Roller
	reporter observability.Reporter
	logger   *zap.Logger
}

// NewPipeline creates a damage pipeline.
//
// Precondition: roller must be non-nil. Nil reporter and logger are tolerated.
func NewPipeline(roller *dice.Roller, reporter observability.Reporter, logger *zap.Logger) *Pipeline {
	logger = observability.OrNop(logger)
	if reporter == nil {
		reporter = observability.NewZapReporter(logger)
	}
	return &Pipeline{roller: roller, reporter: reporter, logger: logger}
}

// ApplyDamage resolves damage against target.
//
// Order: reject invalid input, roll evasion, mitigate by armor capped at 0.75,
// subtract and clamp at zero.
//
// Precondition: target must be non-nil.
// Postcondition: target.Health >= 0; target.Dead is set iff Health reached 0.
func (p *Pipeline) ApplyDamage(damage float64, target *Actor) DamageOutcome {
	if err := ValidateDamage(damage); err != nil {
		p.reporter.InvalidInput("apply_damage", damage)
		return DamageOutcome{}
	}
	if !target.Alive() {
		return DamageOutcome{}
	}

	eff := target.Effective()
	if evasion := eff.EvasionChance(); evasion > 0 {
		if p.roller.Chance("evasion:"+target.ID, evasion) {
			return DamageOutcome{Applied: true, Dodged: true}
		}
	}

	armor := eff.Stat(stats.Armor)
	actual := damage * (1 - armor)
	target.Health = math.Max(0, target.Health-actual)
	invariant.Check(target.Health >= 0, "health below zero after damage")

	out := DamageOutcome{Applied: true, ActualAmount: actual}
	if target.Health == 0 {
		target.Dead = true
		out.Killed = true
		p.logger.Debug("actor killed",
			zap.String("actor", target.ID),
			zap.String("variant", target.Variant.String()),
		)
	}
	return out
}

// Falloff returns the damage multiplier for a blast victim at distance from
// the epicenter: 1 at the center, 0.5 at the radius, 0 beyond it.
func Falloff(distance, radius float64) float64 {
	if radius <= 0 || distance > radius {
		return 0
	}
	return 1 - (distance/radius)*0.5
}

// Locator resolves an actor's current position from the physics collaborator.
type Locator interface {
	Position(id string) (geom.Vec, bool)
}

// Blast describes an area damage event.
type Blast struct {
	Center geom.Vec
	Radius float64
	Damage float64
}

// BlastHit records one victim of a blast.
type BlastHit struct {
	Target   *Actor
	Distance float64
	Outcome  DamageOutcome
}

// Explode applies b to every living actor in targets within the radius, each
// through ApplyDamage with its own evasion and armor.
//
// Postcondition: returns hits in targets order; actors without a position are skipped.
func (p *Pipeline) Explode(b Blast, targets []*Actor, loc Locator) []BlastHit {
	if err := ValidateDamage(b.Damage); err != nil {
		p.reporter.InvalidInput("explode", b.Damage)
		return nil
	}
	if b.Radius <= 0 {
		return nil
	}
	var hits []BlastHit
	for _, t := range targets {
		if !t.Alive() {
			continue
		}
		pos, ok := loc.Position(t.ID)
		if !ok {
			continue
		}
		d := geom.Distance(b.Center, pos)
		if d > b.Radius {
			continue
		}
		hits = append(hits, BlastHit{
			Target:   t,
			Distance: d,
			Outcome:  p.ApplyDamage(b.Damage*Falloff(d, b.Radius), t),
		})
	}
	return hits
}
