// SPDX-License-Identifier: AGPL-3.0-or-later
package bucket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/estimator/internal/heuristics"
)

func loadBuckets(t *testing.T) heuristics.BucketRounding {
	t.Helper()
	cfg, err := heuristics.Default()
	require.NoError(t, err)
	return cfg.BucketRounding
}

func TestRound(t *testing.T) {
	cfg := loadBuckets(t)

	tests := []struct {
		hours     float64
		want      float64
		threshold float64
	}{
		{0, 0, 0},
		{0.2, 1, 0},
		{1.0, 1, 1.5},
		{1.5, 1, 1.5},
		{1.51, 2, 1.5},
		{1.7933, 2, 1.5},
		{2.85, 3, 2.5},
		{3.2, 3, 3.5},
		{5.5, 6, 5},
		{9, 8, 10},
		{10.5, 12, 10},
		{37, 40, 36},
		{40, 40, 40},
		{55, 40, 55},
	}
	for _, tt := range tests {
		got := Round(cfg, tt.hours)
		assert.InDelta(t, tt.want, got.Hours, 1e-9, "hours %v", tt.hours)
		assert.InDelta(t, tt.threshold, got.Threshold, 1e-9, "hours %v", tt.hours)
	}
}

func TestRound_Monotonic(t *testing.T) {
	cfg := loadBuckets(t)
	prev := Round(cfg, 0).Hours
	for h := 0.0; h <= 60; h += 0.01 {
		got := Round(cfg, h).Hours
		assert.GreaterOrEqual(t, got, prev, "hours %v", h)
		prev = got
	}
}

func TestRound_NumericThresholdKeys(t *testing.T) {
	cfg := heuristics.BucketRounding{
		BucketsHours: []float64{1, 2},
		Thresholds: map[string]heuristics.BucketThreshold{
			"1.0": {Threshold: 1.2, Next: 2},
		},
	}
	assert.InDelta(t, 2.0, Round(cfg, 1.3).Hours, 1e-9)
	assert.InDelta(t, 1.0, Round(cfg, 1.1).Hours, 1e-9)
}
