// SPDX-License-Identifier: AGPL-3.0-or-later
package complexity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/estimator/internal/heuristics"
)

func loadDefault(t *testing.T) *heuristics.Config {
	t.Helper()
	cfg, err := heuristics.Default()
	require.NoError(t, err)
	return cfg
}

func TestScore_BugFixExample(t *testing.T) {
	cfg := loadDefault(t)
	w, err := cfg.Weights("bug_fix")
	require.NoError(t, err)

	got := Score(w, 0.8, Scores{
		ScopeSize:           2,
		TechnicalComplexity: 2,
		TestingRequirements: 4,
		RiskAndUnknowns:     2,
		Dependencies:        3,
	})

	assert.InDelta(t, 2.5, got.Raw, 1e-9)
	assert.InDelta(t, 2.0, got.Adjusted, 1e-9)
	assert.InDelta(t, 0.4, got.ScaleFactor, 1e-9)
}

func TestScore_DefaultScoresGiveMultiplierTimesFive(t *testing.T) {
	cfg := loadDefault(t)
	for _, tt := range cfg.TaskTypes {
		w, err := cfg.Weights(tt.ID)
		require.NoError(t, err)
		got := Score(w, tt.ComplexityMultiplier, DefaultScores())
		assert.InDelta(t, 5.0, got.Raw, 1e-9, tt.ID)
		assert.InDelta(t, 5.0*tt.ComplexityMultiplier, got.Adjusted, 1e-9, tt.ID)
	}
}

func TestScore_MonotonicPerAxis(t *testing.T) {
	cfg := loadDefault(t)
	axes := []func(*Scores) *int{
		func(s *Scores) *int { return &s.ScopeSize },
		func(s *Scores) *int { return &s.TechnicalComplexity },
		func(s *Scores) *int { return &s.TestingRequirements },
		func(s *Scores) *int { return &s.RiskAndUnknowns },
		func(s *Scores) *int { return &s.Dependencies },
	}

	for _, tt := range cfg.TaskTypes {
		w, err := cfg.Weights(tt.ID)
		require.NoError(t, err)
		for i, axis := range axes {
			base := Scores{ScopeSize: 3, TechnicalComplexity: 4, TestingRequirements: 5, RiskAndUnknowns: 6, Dependencies: 7}
			prev := Score(w, tt.ComplexityMultiplier, base).Adjusted
			for v := 0; v <= 10; v++ {
				s := base
				*axis(&s) = v
				if v == 0 {
					prev = Score(w, tt.ComplexityMultiplier, s).Adjusted
					continue
				}
				cur := Score(w, tt.ComplexityMultiplier, s).Adjusted
				assert.GreaterOrEqual(t, cur, prev, "task %s axis %d value %d", tt.ID, i, v)
				prev = cur
			}
		}
	}
}

func TestScore_OutOfRangeScoresPropagate(t *testing.T) {
	w := heuristics.Weights{ScopeSize: 100}
	got := Score(w, 1, Scores{ScopeSize: 20})
	assert.InDelta(t, 20.0, got.Raw, 1e-9)
	assert.InDelta(t, 4.0, got.ScaleFactor, 1e-9)
}

func TestTShirtSize(t *testing.T) {
	cfg := loadDefault(t)
	tests := []struct {
		adjusted float64
		want     string
	}{
		{0, "XS"},
		{1.2, "XS"},
		{2.0, "XS"},
		{2.01, "S"},
		{4.0, "S"},
		{5.5, "M"},
		{6.5, "L"},
		{9.9, "XL"},
		{10, "XL"},
		{13.5, "XL"},
		{-1, "XL"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TShirtSize(cfg.TShirtSizing, tt.adjusted), "adjusted %v", tt.adjusted)
	}
}

func TestStoryPoints(t *testing.T) {
	seq := []int{1, 2, 3, 5, 8, 13, 21}
	tests := []struct {
		adjusted float64
		velocity float64
		want     int
	}{
		{2.0, 1.0, 2},
		{4.0, 1.0, 3},
		{6.5, 1.0, 5},
		{6.6, 1.0, 8},
		{5.0, 2.0, 8},
		{0, 1.0, 1},
		{40, 1.0, 21},
		{2.5, 1.0, 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StoryPoints(seq, tt.adjusted, tt.velocity), "adjusted %v velocity %v", tt.adjusted, tt.velocity)
	}
	assert.Equal(t, 0, StoryPoints(nil, 3, 1))
}
