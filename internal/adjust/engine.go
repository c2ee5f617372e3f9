// Package adjust combines operator rankings and manual percentage factors
// into a per-facility adjustment multiplier.
package adjust

import (
	"github.com/rotisserie/eris"

	"github.com/amoloo1999/rca-app/internal/model"
)

// Defaults for the ranking-to-percentage mapping. Both are operator/business
// decisions surfaced through configuration; these mirror the values the
// existing reports were produced with.
const (
	DefaultNeutralRank    = 3
	DefaultRankingStepPct = 1.0
	DefaultMaxFactorPct   = 50.0

	MinRank = 1
	MaxRank = 5
)

// Engine computes adjustment multipliers.
type Engine struct {
	neutralRank  int
	stepPct      float64
	maxFactorPct float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithNeutralRank overrides the neutral ranking baseline.
func WithNeutralRank(n int) Option {
	return func(e *Engine) { e.neutralRank = n }
}

// WithRankingStepPct overrides the percentage contributed per ranking point.
func WithRankingStepPct(pct float64) Option {
	return func(e *Engine) { e.stepPct = pct }
}

// WithMaxFactorPct overrides the absolute bound on manual factors.
func WithMaxFactorPct(pct float64) Option {
	return func(e *Engine) { e.maxFactorPct = pct }
}

// NewEngine creates an Engine with the default scaling constants.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		neutralRank:  DefaultNeutralRank,
		stepPct:      DefaultRankingStepPct,
		maxFactorPct: DefaultMaxFactorPct,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RankingContribution converts a facility's ranking set into a signed
// percentage: (score - neutral) * step, summed across the fixed categories.
// An incomplete ranking set contributes zero (neutral) rather than a partial
// sum; out-of-range scores are rejected, never clamped.
func (e *Engine) RankingContribution(r model.Ranking) (float64, error) {
	if len(r) == 0 {
		return 0, nil
	}

	for category, score := range r {
		if score < MinRank || score > MaxRank {
			return 0, eris.Errorf("adjust: ranking %q=%d outside [%d,%d]", category, score, MinRank, MaxRank)
		}
	}

	total := 0.0
	for _, category := range model.RankCategories {
		score, ok := r[category]
		if !ok {
			// Incomplete set: the whole contribution is neutral.
			return 0, nil
		}
		total += float64(score-e.neutralRank) * e.stepPct
	}
	return total, nil
}

var factorCategorySet = func() map[string]bool {
	set := make(map[string]bool, len(model.FactorCategories))
	for _, c := range model.FactorCategories {
		set[c] = true
	}
	return set
}()

// ManualContribution sums the signed factor percentages; missing categories
// default to zero. Unknown categories and factors outside the documented
// bound are rejected.
func (e *Engine) ManualContribution(f model.AdjustmentFactors) (float64, error) {
	total := 0.0
	for category, pct := range f {
		if !factorCategorySet[category] {
			return 0, eris.Errorf("adjust: unknown factor category %q", category)
		}
		if pct < -e.maxFactorPct || pct > e.maxFactorPct {
			return 0, eris.Errorf("adjust: factor %q=%.2f outside [%.0f,%.0f]",
				category, pct, -e.maxFactorPct, e.maxFactorPct)
		}
		total += pct
	}
	return total, nil
}

// ComputeMultiplier returns the total adjustment percentage for a facility:
// ranking contribution plus manual contribution. All rankings at the neutral
// baseline with zero factors yield exactly zero.
func (e *Engine) ComputeMultiplier(r model.Ranking, f model.AdjustmentFactors) (float64, error) {
	ranking, err := e.RankingContribution(r)
	if err != nil {
		return 0, err
	}
	manual, err := e.ManualContribution(f)
	if err != nil {
		return 0, err
	}
	return ranking + manual, nil
}

// Apply applies a total adjustment percentage multiplicatively to a rate.
func Apply(rate, totalPct float64) float64 {
	return rate * (1 + totalPct/100)
}
