// SPDX-License-Identifier: AGPL-3.0-or-later

// Package bucket snaps hour estimates to the configured reporting buckets.
package bucket

import (
	"github.com/bartekus/estimator/internal/heuristics"
)

// Result is the rounded value and the threshold that decided it.
type Result struct {
	Hours     float64 `json:"hours"`
	Threshold float64 `json:"threshold"`
}

// Round finds the largest bucket not above hours (0 when none is) and moves
// to the rule's next bucket when hours exceed its threshold. Without a rule
// the current bucket is kept and hours are reported as the threshold.
func Round(cfg heuristics.BucketRounding, hours float64) Result {
	current := 0.0
	for _, b := range cfg.BucketsHours {
		if b <= hours {
			current = b
		}
	}

	rule, ok := cfg.ThresholdFor(current)
	if !ok {
		return Result{Hours: current, Threshold: hours}
	}
	if hours > rule.Threshold {
		return Result{Hours: rule.Next, Threshold: rule.Threshold}
	}
	return Result{Hours: current, Threshold: rule.Threshold}
}
