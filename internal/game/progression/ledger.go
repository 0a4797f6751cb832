// Package progression implements the experience curve, level-ups, and
// skill-point accrual.
package progression

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/neonsurge/internal/game/invariant"
	"github.com/cory-johannsen/neonsurge/internal/observability"
)

// ErrInvalidExp is returned by ValidateExp for non-finite or negative amounts.
var ErrInvalidExp = errors.New("invalid experience amount")

// ValidateExp reports whether amount may be granted.
func ValidateExp(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidExp, amount)
	}
	return nil
}

// Curve holds the fixed progression constants.
type Curve struct {
	ExpBase         float64
	ExpMultiplier   float64
	SPPerLevel      int
	BonusSPInterval int
	LevelUpHP       float64
	LevelUpDamage   float64
	LevelUpSpeed    float64
}

// ExpToNext returns floor(ExpBase * ExpMultiplier^(level-1)).
//
// Precondition: level >= 1.
func (c Curve) ExpToNext(level int) float64 {
	return math.Floor(c.ExpBase * math.Pow(c.ExpMultiplier, float64(level-1)))
}

// Grower receives the fixed per-level stat grants.
type Grower interface {
	// LevelUp applies the per-level stat grants and a full heal.
	LevelUp(hp, damageMultiplier, speed float64)
}

// GainResult summarises one GainExp call.
type GainResult struct {
	Rejected      bool
	Granted       float64
	LevelsGained  int
	BonusSPGained int
	SPGained      int
}

// Ledger tracks experience, level, and skill points.
//
// Invariant: after every GainExp, CurrentExp < ExpToNextLevel.
// It is not safe for concurrent use; the caller must serialise access.
type Ledger struct {
	Level                int
	CurrentExp           float64
	ExpToNextLevel       float64
	TotalExpEarned       float64
	Points               int
	LastBonusSPThreshold float64

	curve    Curve
	reporter observability.Reporter
	logger   *zap.Logger
}

// NewLedger creates a level-1 ledger.
//
// Precondition: curve.ExpBase >= 1 and curve.ExpMultiplier >= 1.
// Postcondition: Level == 1; ExpToNextLevel == curve.ExpBase.
func NewLedger(curve Curve, reporter observability.Reporter, logger *zap.Logger) *Ledger {
	logger = observability.OrNop(logger)
	if reporter == nil {
		reporter = observability.NewZapReporter(logger)
	}
	return &Ledger{
		Level:          1,
		ExpToNextLevel: curve.ExpToNext(1),
		curve:          curve,
		reporter:       reporter,
		logger:         logger,
	}
}

// SkillPoints returns the unspent balance.
func (l *Ledger) SkillPoints() int { return l.Points }

// SpendSkillPoints deducts n and reports success. It never goes negative.
func (l *Ledger) SpendSkillPoints(n int) bool {
	if n < 0 || n > l.Points {
		return false
	}
	l.Points -= n
	return true
}

// GainExp grants floor(amount*(1+expBonus)) experience.
//
// Bonus skill points accrue once per BonusSPInterval of total experience
// crossed, however many calls it takes. Level-ups loop until CurrentExp is
// below the next threshold; each one calls grower.LevelUp and grants SPPerLevel.
//
// Postcondition: invalid amounts are reported and leave the ledger untouched.
// A nil grower skips stat grants.
func (l *Ledger) GainExp(amount, expBonus float64, grower Grower) GainResult {
	if err := ValidateExp(amount); err != nil {
		l.reporter.InvalidInput("gain_exp", amount)
		return GainResult{Rejected: true}
	}
	if math.IsNaN(expBonus) || math.IsInf(expBonus, 0) {
		expBonus = 0
	}
	granted := math.Max(0, math.Floor(amount*(1+expBonus)))
	l.CurrentExp += granted
	l.TotalExpEarned += granted
	res := GainResult{Granted: granted}

	if interval := float64(l.curve.BonusSPInterval); interval > 0 {
		for l.TotalExpEarned >= l.LastBonusSPThreshold+interval {
			l.Points++
			l.LastBonusSPThreshold += interval
			res.BonusSPGained++
		}
	}

	for l.CurrentExp >= l.ExpToNextLevel {
		l.CurrentExp -= l.ExpToNextLevel
		l.Level++
		l.ExpToNextLevel = l.curve.ExpToNext(l.Level)
		l.Points += l.curve.SPPerLevel
		res.LevelsGained++
		res.SPGained += l.curve.SPPerLevel
		if grower != nil {
			grower.LevelUp(l.curve.LevelUpHP, l.curve.LevelUpDamage, l.curve.LevelUpSpeed)
		}
		l.logger.Info("level up",
			zap.Int("level", l.Level),
			zap.Float64("exp_to_next", l.ExpToNextLevel),
		)
	}
	invariant.Check(l.CurrentExp < l.ExpToNextLevel, "current exp at or above threshold after resolution")
	res.SPGained += res.BonusSPGained
	return res
}
