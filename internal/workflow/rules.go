// SPDX-License-Identifier: AGPL-3.0-or-later
package workflow

import (
	"errors"
	"fmt"

	"github.com/bartekus/estimator/internal/heuristics"
)

var errNoManual = errors.New("no manual breakdown to derive from")

func scale(ph heuristics.Phase, e env) (float64, error) {
	if ph.BaseMinutesAtComplexity5 == nil {
		return 0, errors.New("missing base_minutes_at_complexity_5")
	}
	return *ph.BaseMinutesAtComplexity5 * e.in.Complexity.ScaleFactor, nil
}

// fixed prefers the infrastructure minutes when the flag is set and the
// phase defines them.
func fixed(ph heuristics.Phase, e env) (float64, error) {
	if ph.BaseMinutes == nil {
		return 0, errors.New("missing base_minutes")
	}
	if e.in.Infrastructure && ph.InfrastructureChangesMinutes != nil {
		return *ph.InfrastructureChangesMinutes, nil
	}
	return *ph.BaseMinutes, nil
}

func fixedOrInfra(ph heuristics.Phase, e env) (float64, error) {
	if ph.BaseMinutes == nil || ph.InfrastructureChangesMinutes == nil {
		return 0, errors.New("missing base_minutes or infrastructure_changes_minutes")
	}
	if e.in.Infrastructure {
		return *ph.InfrastructureChangesMinutes, nil
	}
	return *ph.BaseMinutes, nil
}

func percentage(ph heuristics.Phase, e env) (float64, error) {
	if ph.Percentage == nil {
		return 0, errors.New("missing percentage")
	}
	src, ok := e.current.Phase(ph.From)
	if !ok {
		return 0, fmt.Errorf("percentage source %q is not an earlier phase", ph.From)
	}
	return src.Minutes * *ph.Percentage / 100, nil
}

// taskDriven is zero for time-boxed task types.
func taskDriven(_ heuristics.Phase, e env) (float64, error) {
	if e.in.TaskType.TimeBoxed() {
		return 0, nil
	}
	return e.in.Complexity.Adjusted * *e.in.TaskType.BaseUnitMinutes, nil
}

func savings(ph heuristics.Phase, e env) (float64, error) {
	if ph.TimeSavingsPercentage == nil {
		return 0, errors.New("missing time_savings_percentage")
	}
	src, err := manualPhase(e, ph.From)
	if err != nil {
		return 0, err
	}
	return src * (1 - *ph.TimeSavingsPercentage/100), nil
}

func blend(ph heuristics.Phase, e env) (float64, error) {
	var total float64
	for _, b := range ph.Blend {
		src, err := manualPhase(e, b.Phase)
		if err != nil {
			return 0, err
		}
		total += src * b.Percentage / 100
	}
	return total, nil
}

func carryOver(ph heuristics.Phase, e env) (float64, error) {
	return manualPhase(e, ph.From)
}

func manualPhase(e env, key string) (float64, error) {
	if e.manual == nil {
		return 0, errNoManual
	}
	p, ok := e.manual.Phase(key)
	if !ok {
		return 0, fmt.Errorf("manual phase %q not found", key)
	}
	return p.Minutes, nil
}
