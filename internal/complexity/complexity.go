// SPDX-License-Identifier: AGPL-3.0-or-later

// Package complexity turns five axis scores into weighted complexity and maps
// the result onto T-shirt sizes and story points.
package complexity

import (
	"math"

	"github.com/bartekus/estimator/internal/heuristics"
)

// ReferenceComplexity is the adjusted complexity at which phase base minutes
// apply unscaled.
const ReferenceComplexity = 5.0

// DefaultScore is used for every axis the caller leaves out.
const DefaultScore = 5

// Scores are the five axis ratings, nominally 0..10. Values outside that
// range are accepted and flow through the arithmetic unchanged.
type Scores struct {
	ScopeSize           int `json:"scope_size" yaml:"scope_size"`
	TechnicalComplexity int `json:"technical_complexity" yaml:"technical_complexity"`
	TestingRequirements int `json:"testing_requirements" yaml:"testing_requirements"`
	RiskAndUnknowns     int `json:"risk_and_unknowns" yaml:"risk_and_unknowns"`
	Dependencies        int `json:"dependencies" yaml:"dependencies"`
}

// DefaultScores returns DefaultScore on every axis.
func DefaultScores() Scores {
	return Scores{
		ScopeSize:           DefaultScore,
		TechnicalComplexity: DefaultScore,
		TestingRequirements: DefaultScore,
		RiskAndUnknowns:     DefaultScore,
		Dependencies:        DefaultScore,
	}
}

// Result holds unrounded complexity figures.
type Result struct {
	Raw         float64
	Adjusted    float64
	ScaleFactor float64
}

// Score computes the weighted average of the axis scores, applies the task
// type multiplier and derives the scale factor relative to ReferenceComplexity.
func Score(w heuristics.Weights, multiplier float64, s Scores) Result {
	raw := (float64(s.ScopeSize)*w.ScopeSize +
		float64(s.TechnicalComplexity)*w.TechnicalComplexity +
		float64(s.TestingRequirements)*w.TestingRequirements +
		float64(s.RiskAndUnknowns)*w.RiskAndUnknowns +
		float64(s.Dependencies)*w.Dependencies) / 100
	adjusted := raw * multiplier
	return Result{
		Raw:         raw,
		Adjusted:    adjusted,
		ScaleFactor: adjusted / ReferenceComplexity,
	}
}

// TShirtSize returns the label of the first range containing adjusted, or
// heuristics.OverflowSizeLabel when none does.
func TShirtSize(ranges heuristics.SizeRanges, adjusted float64) string {
	for _, r := range ranges {
		if r.Contains(adjusted) {
			return r.Label
		}
	}
	return heuristics.OverflowSizeLabel
}

// StoryPoints returns the sequence value nearest to adjusted × velocity.
// Ties go to the earlier value. An empty sequence yields 0.
func StoryPoints(sequence []int, adjusted, velocity float64) int {
	if len(sequence) == 0 {
		return 0
	}
	target := adjusted * velocity
	best := sequence[0]
	bestDist := math.Abs(float64(best) - target)
	for _, v := range sequence[1:] {
		if d := math.Abs(float64(v) - target); d < bestDist {
			best, bestDist = v, d
		}
	}
	return best
}
