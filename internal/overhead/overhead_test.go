// SPDX-License-Identifier: AGPL-3.0-or-later
package overhead

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/estimator/internal/heuristics"
)

func intPtr(v int) *int { return &v }

func loadDefault(t *testing.T) *heuristics.Config {
	t.Helper()
	cfg, err := heuristics.Default()
	require.NoError(t, err)
	return cfg
}

func TestFileTouch(t *testing.T) {
	cfg := loadDefault(t).FileTouchOverhead

	tests := []struct {
		name      string
		count     *int
		raw       float64
		want      float64
		wantLevel string
		capped    bool
		details   string
	}{
		{name: "unknown count", count: nil, raw: 5, details: "Below minimum threshold (20 files)"},
		{name: "below minimum", count: intPtr(19), raw: 5, details: "Below minimum threshold (20 files)"},
		{name: "low band", count: intPtr(20), raw: 2.9, want: 30, wantLevel: LevelLow, details: "20 files with low complexity (2.9/10)"},
		{name: "medium band", count: intPtr(40), raw: 3.0, want: 100, wantLevel: LevelMedium, details: "40 files with medium complexity (3.0/10)"},
		{name: "high band", count: intPtr(40), raw: 6.0, want: 150, wantLevel: LevelHigh, details: "40 files with high complexity (6.0/10)"},
		{name: "capped", count: intPtr(200), raw: 8, want: 300, wantLevel: LevelHigh, capped: true, details: "200 files with high complexity (8.0/10)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FileTouch(cfg, tt.count, tt.raw)
			assert.True(t, got.Enabled)
			assert.InDelta(t, tt.want, got.Minutes, 1e-9)
			assert.Equal(t, tt.wantLevel, got.ComplexityLevel)
			assert.Equal(t, tt.capped, got.Capped)
			assert.Equal(t, tt.details, got.Details)
		})
	}
}

func TestFileTouch_Disabled(t *testing.T) {
	cfg := loadDefault(t).FileTouchOverhead
	cfg.Enabled = false

	got := FileTouch(cfg, intPtr(100), 9)
	assert.False(t, got.Enabled)
	assert.Zero(t, got.Minutes)
	assert.Equal(t, 100, got.FileCount)
	assert.Equal(t, "File touch overhead is disabled", got.Details)
}

func TestFileTouch_ScalingDisabled(t *testing.T) {
	cfg := loadDefault(t).FileTouchOverhead
	cfg.ComplexityScaling.Enabled = false

	got := FileTouch(cfg, intPtr(24), 9)
	assert.InDelta(t, 60.0, got.Minutes, 1e-9)
	assert.Equal(t, LevelNone, got.ComplexityLevel)
	assert.InDelta(t, 1.0, got.Multiplier, 1e-9)
	assert.InDelta(t, 1.0, got.Hours(), 1e-9)
}

func TestFileTouch_NonDecreasingAndCapped(t *testing.T) {
	cfg := loadDefault(t).FileTouchOverhead
	for _, raw := range []float64{0, 2.5, 4, 7, 10} {
		prev := 0.0
		for n := 0; n <= 400; n++ {
			got := FileTouch(cfg, intPtr(n), raw)
			if n < cfg.MinimumFiles {
				assert.Zero(t, got.Minutes, "n=%d", n)
			}
			assert.GreaterOrEqual(t, got.Minutes, prev, "raw=%v n=%d", raw, n)
			assert.LessOrEqual(t, got.Minutes, cfg.MaximumOverheadMinutes)
			prev = got.Minutes
		}
	}
}

func TestDetect(t *testing.T) {
	cfg := loadDefault(t)

	tests := []struct {
		name     string
		in       Input
		wantKeys []string
	}{
		{
			name:     "nothing",
			in:       Input{Title: "Fix validation error on login form", TaskType: "bug_fix", ProjectType: "monolithic"},
			wantKeys: nil,
		},
		{
			name:     "migration keyword",
			in:       Input{Title: "Add column for user locale", Description: "Needs a MIGRATION", TaskType: "enhancement", ProjectType: "monolithic"},
			wantKeys: []string{"database_migration"},
		},
		{
			name:     "migration excluded for frontend",
			in:       Input{Title: "Add column for user locale", TaskType: "enhancement", ProjectType: "frontend"},
			wantKeys: nil,
		},
		{
			name:     "api documentation limited to task types",
			in:       Input{Title: "Fix new endpoint", TaskType: "bug_fix", ProjectType: "monolithic"},
			wantKeys: nil,
		},
		{
			name: "several activities in declaration order",
			in: Input{
				Title:       "New endpoint behind a feature flag",
				Description: "Create a new table for audit events",
				TaskType:    "net_new",
				ProjectType: "fullstack",
			},
			wantKeys: []string{"database_migration", "api_documentation", "feature_flag"},
		},
		{
			name: "disabled activity never detected",
			in:   Input{Title: "Change password hashing", TaskType: "enhancement", ProjectType: "monolithic"},
		},
		{
			name: "file patterns",
			in: Input{
				Title:       "Store locale",
				TaskType:    "enhancement",
				ProjectType: "serverless",
				Files:       []string{"src/handler.ts", "infra/Queue.TF"},
			},
			wantKeys: []string{"infrastructure_provisioning"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Detect(cfg.OverheadActivities.Activities, tt.in)
			require.NoError(t, err)
			var keys []string
			for _, a := range got {
				keys = append(keys, a.Key)
			}
			assert.Equal(t, tt.wantKeys, keys)
		})
	}
}

func TestDetect_MatchesAreCapped(t *testing.T) {
	cfg := loadDefault(t)
	got, err := Detect(cfg.OverheadActivities.Activities, Input{
		Title:       "Migration: alter table users, add column locale, add index on email",
		TaskType:    "enhancement",
		ProjectType: "monolithic",
		Files: []string{
			"database/migrations/001.php",
			"database/migrations/002.php",
			"database/migrations/001.php",
			"db/seed.sql",
			"app/User.php",
		},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)

	a := got[0]
	assert.Equal(t, "Database Migration", a.Label)
	assert.Equal(t, []string{"migration", "alter table", "add column"}, a.MatchedKeywords)
	assert.Equal(t, []string{"database/migrations/001.php", "database/migrations/002.php", "database/migrations/001.php"}, a.MatchedFiles)
	assert.InDelta(t, 60.0, a.AdditionalMinutes, 1e-9)
	assert.InDelta(t, 60.0, TotalMinutes(got), 1e-9)
}

func TestDetect_FilesIgnoredWhenNotChecked(t *testing.T) {
	acts := heuristics.Activities{{
		Key:               "docs",
		Enabled:           true,
		AdditionalMinutes: 10,
		Detection:         heuristics.Detection{CheckFiles: false, FilePatterns: []string{"*.md"}},
	}}
	got, err := Detect(acts, Input{Files: []string{"README.md"}})
	require.NoError(t, err)
	assert.Empty(t, got)

	acts[0].Detection.CheckFiles = true
	got, err = Detect(acts, Input{Files: []string{"README.md"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "docs", got[0].Label)
}
