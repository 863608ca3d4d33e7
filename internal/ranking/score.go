package ranking

import (
	"fmt"
	"math"
)

// Score is a signed fixed-point decimal with four digits of precision
// (scale 10000). It is the unit of currency for the ranking index: every
// comparison, addition, and persisted value in this package is a Score.
//
// No decimal library appears anywhere in the retrieved reference corpus
// (no go.mod in the pack imports one), so this is built on a scaled int64
// rather than on a third-party type.
type Score int64

// ScoreScale is the number of Score units per whole unit.
const ScoreScale int64 = 10000

// NewScoreFromUnits builds a Score from a whole-number-plus-fraction pair,
// e.g. NewScoreFromUnits(12, 3400) == 12.34.
func NewScoreFromUnits(whole int64, fraction int64) Score {
	return Score(whole*ScoreScale + fraction)
}

// Add returns s+delta. It panics on overflow, since no meaningful recovery
// exists for a leaderboard whose score has exceeded the representable range.
func (s Score) Add(delta Score) Score {
	sum := int64(s) + int64(delta)
	// overflow iff operands share a sign and the result doesn't.
	if (int64(s) > 0 && int64(delta) > 0 && sum < 0) ||
		(int64(s) < 0 && int64(delta) < 0 && sum > 0) {
		panic(fmt.Sprintf("ranking: score overflow adding %d to %d", delta, s))
	}
	if sum == math.MinInt64 {
		panic("ranking: score overflow at int64 boundary")
	}
	return Score(sum)
}

// IsPositive reports whether s represents a participating score (strictly
// positive).
func (s Score) IsPositive() bool {
	return s > 0
}

// Compare returns -1, 0, or 1 as s is less than, equal to, or greater than o.
func (s Score) Compare(o Score) int {
	switch {
	case s < o:
		return -1
	case s > o:
		return 1
	default:
		return 0
	}
}

// ScoreFromFloat64 converts a decimal delta (as decoded from JSON) into a
// Score, rounding to the nearest representable unit.
func ScoreFromFloat64(f float64) Score {
	return Score(math.Round(f * float64(ScoreScale)))
}

// Float64 returns s as a floating-point decimal, for wire encoding.
func (s Score) Float64() float64 {
	return float64(s) / float64(ScoreScale)
}

func (s Score) String() string {
	whole := int64(s) / ScoreScale
	frac := int64(s) % ScoreScale
	if frac < 0 {
		frac = -frac
	}
	return fmt.Sprintf("%d.%04d", whole, frac)
}
