// SPDX-License-Identifier: AGPL-3.0-or-later

// Package overhead computes the extra time that sits outside the workflow
// phases: touching many files and fixed-cost activities such as migrations.
package overhead

import (
	"fmt"

	"github.com/bartekus/estimator/internal/heuristics"
)

// Complexity bands used by file-touch scaling.
const (
	LevelNone   = "none"
	LevelLow    = "low"
	LevelMedium = "medium"
	LevelHigh   = "high"
)

// FileTouchResult describes the file-touch overhead of one estimate.
type FileTouchResult struct {
	Enabled         bool    `json:"enabled"`
	FileCount       int     `json:"file_count"`
	Minutes         float64 `json:"overhead_minutes"`
	BasePerFile     float64 `json:"base_time_per_file,omitempty"`
	Multiplier      float64 `json:"complexity_multiplier,omitempty"`
	ComplexityLevel string  `json:"complexity_level,omitempty"`
	Capped          bool    `json:"capped"`
	Calculation     string  `json:"calculation,omitempty"`
	Details         string  `json:"details"`
}

// Hours is Minutes / 60.
func (r FileTouchResult) Hours() float64 { return r.Minutes / 60 }

// FileTouch computes the overhead for fileCount files at the given raw
// complexity. A nil fileCount means the count is unknown and yields zero.
// A zero maximum disables the cap.
func FileTouch(cfg heuristics.FileTouchOverhead, fileCount *int, raw float64) FileTouchResult {
	count := 0
	if fileCount != nil {
		count = *fileCount
	}
	if !cfg.Enabled {
		return FileTouchResult{FileCount: count, Details: "File touch overhead is disabled"}
	}
	if fileCount == nil || count < cfg.MinimumFiles {
		return FileTouchResult{
			Enabled:   true,
			FileCount: count,
			Details:   fmt.Sprintf("Below minimum threshold (%d files)", cfg.MinimumFiles),
		}
	}

	multiplier, level := 1.0, LevelNone
	if sc := cfg.ComplexityScaling; sc.Enabled {
		switch {
		case raw < sc.Thresholds.Low:
			multiplier, level = sc.LowMultiplier, LevelLow
		case raw < sc.Thresholds.Medium:
			multiplier, level = sc.MediumMultiplier, LevelMedium
		default:
			multiplier, level = sc.HighMultiplier, LevelHigh
		}
	}

	minutes := float64(count) * cfg.BaseTimePerFileMinutes * multiplier
	res := FileTouchResult{
		Enabled:         true,
		FileCount:       count,
		BasePerFile:     cfg.BaseTimePerFileMinutes,
		Multiplier:      multiplier,
		ComplexityLevel: level,
		Calculation:     fmt.Sprintf("%d files × %g min × %g = %.1f min", count, cfg.BaseTimePerFileMinutes, multiplier, minutes),
		Details:         fmt.Sprintf("%d files with %s complexity (%.1f/10)", count, level, raw),
	}
	if cfg.MaximumOverheadMinutes > 0 && minutes > cfg.MaximumOverheadMinutes {
		minutes = cfg.MaximumOverheadMinutes
		res.Capped = true
	}
	res.Minutes = minutes
	return res
}
