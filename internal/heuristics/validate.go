// SPDX-License-Identifier: AGPL-3.0-or-later
package heuristics

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/bartekus/estimator/internal/textmatch"
)

// weightTolerance absorbs float noise in weight sums.
const weightTolerance = 1e-6

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	// Report YAML names instead of Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// Validate checks structural rules (validator tags) and then the cross
// references between sections. The first violation is returned.
func (c *Config) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}

	taskIDs := make(map[string]bool, len(c.TaskTypes))
	for _, t := range c.TaskTypes {
		taskIDs[t.ID] = true
		if _, ok := c.ComplexityWeights[t.ID]; !ok {
			return fmt.Errorf("task type %s has no complexity_weights entry", t.ID)
		}
	}
	if !taskIDs[FallbackTaskType] {
		return fmt.Errorf("task_types must define the fallback task type %q", FallbackTaskType)
	}

	for id, w := range c.ComplexityWeights {
		if !taskIDs[id] {
			return fmt.Errorf("complexity_weights references unknown task type: %s", id)
		}
		if math.Abs(w.Sum()-100) > weightTolerance {
			return fmt.Errorf("complexity_weights for %s sum to %g, want 100", id, w.Sum())
		}
	}

	for _, r := range c.TShirtSizing {
		if r.Min() > r.Max() {
			return fmt.Errorf("t_shirt_sizing %s has min %g greater than max %g", r.Label, r.Min(), r.Max())
		}
	}

	projectIDs := make(map[string]bool, len(c.ProjectTypes))
	for _, p := range c.ProjectTypes {
		projectIDs[p.ID] = true
		if err := validateWorkflows(p); err != nil {
			return fmt.Errorf("project type %s: %w", p.ID, err)
		}
	}
	if !projectIDs[c.Defaults.ProjectType] {
		return fmt.Errorf("defaults.project_type references unknown project type: %s", c.Defaults.ProjectType)
	}

	for _, a := range c.OverheadActivities.Activities {
		if err := validateActivity(a, taskIDs, projectIDs); err != nil {
			return fmt.Errorf("overhead activity %s: %w", a.Key, err)
		}
	}

	if err := validateBuckets(c.BucketRounding); err != nil {
		return fmt.Errorf("bucket_rounding: %w", err)
	}

	ft := c.FileTouchOverhead
	if ft.Enabled && ft.ComplexityScaling.Enabled && ft.ComplexityScaling.Thresholds.Low > ft.ComplexityScaling.Thresholds.Medium {
		return errors.New("file_touch_overhead: complexity_scaling.thresholds.low must not exceed medium")
	}

	return nil
}

func validateStruct(c *Config) error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed rule '%s' (value: '%v')", e.Namespace(), e.Tag(), e.Value()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func validateWorkflows(p ProjectType) error {
	manual := make(map[string]bool, len(p.WorkflowPhases))
	taskDriven := 0
	for _, ph := range p.WorkflowPhases {
		if manual[ph.Key] {
			return fmt.Errorf("duplicate workflow phase %s", ph.Key)
		}
		if !slices.Contains(ManualRules, ph.Rule) {
			return fmt.Errorf("workflow phase %s: rule %s is not allowed in a manual workflow", ph.Key, ph.Rule)
		}
		if ph.Rule == RuleTaskDriven {
			taskDriven++
		}
		// percentage phases may only look backwards.
		if err := validatePhase(ph, manual); err != nil {
			return fmt.Errorf("workflow phase %s: %w", ph.Key, err)
		}
		manual[ph.Key] = true
	}
	if taskDriven != 1 {
		return fmt.Errorf("manual workflow needs exactly one %s phase, found %d", RuleTaskDriven, taskDriven)
	}

	ai := make(map[string]bool, len(p.AIAssistedWorkflow))
	for _, ph := range p.AIAssistedWorkflow {
		if ai[ph.Key] {
			return fmt.Errorf("duplicate ai_assisted_workflow phase %s", ph.Key)
		}
		if !slices.Contains(AIRules, ph.Rule) {
			return fmt.Errorf("ai_assisted_workflow phase %s: rule %s is not allowed in an AI-assisted workflow", ph.Key, ph.Rule)
		}
		if err := validatePhase(ph, manual); err != nil {
			return fmt.Errorf("ai_assisted_workflow phase %s: %w", ph.Key, err)
		}
		ai[ph.Key] = true
	}
	return nil
}

// validatePhase checks the fields a rule needs. sources holds the phases a
// From or blend reference may point at.
func validatePhase(ph Phase, sources map[string]bool) error {
	switch ph.Rule {
	case RuleScale:
		if ph.BaseMinutesAtComplexity5 == nil {
			return errors.New("rule scale requires base_minutes_at_complexity_5")
		}
	case RuleFixed:
		if ph.BaseMinutes == nil {
			return errors.New("rule fixed requires base_minutes")
		}
	case RuleFixedOrInfra:
		if ph.BaseMinutes == nil || ph.InfrastructureChangesMinutes == nil {
			return errors.New("rule fixed_or_infra requires base_minutes and infrastructure_changes_minutes")
		}
	case RulePercentage:
		if ph.Percentage == nil {
			return errors.New("rule percentage requires percentage")
		}
		if !sources[ph.From] {
			return fmt.Errorf("rule percentage references unknown or later phase %q", ph.From)
		}
	case RuleTaskDriven:
	case RuleSavings:
		if ph.TimeSavingsPercentage == nil {
			return errors.New("rule savings requires time_savings_percentage")
		}
		if !sources[ph.From] {
			return fmt.Errorf("rule savings references unknown manual phase %q", ph.From)
		}
	case RuleBlend:
		if len(ph.Blend) == 0 {
			return errors.New("rule blend requires at least one blend source")
		}
		for _, src := range ph.Blend {
			if !sources[src.Phase] {
				return fmt.Errorf("rule blend references unknown manual phase %q", src.Phase)
			}
		}
	case RuleCarryOver:
		if !sources[ph.From] {
			return fmt.Errorf("rule carry_over references unknown manual phase %q", ph.From)
		}
	default:
		return fmt.Errorf("unknown rule %q", ph.Rule)
	}
	return nil
}

func validateActivity(a Activity, taskIDs, projectIDs map[string]bool) error {
	for _, id := range a.AppliesToTaskTypes {
		if !taskIDs[id] {
			return fmt.Errorf("applies_to_task_types references unknown task type: %s", id)
		}
	}
	for _, id := range a.AppliesToProjectTypes {
		if !projectIDs[id] {
			return fmt.Errorf("applies_to_project_types references unknown project type: %s", id)
		}
	}
	for _, pattern := range a.Detection.FilePatterns {
		if _, err := textmatch.CompileGlob(pattern); err != nil {
			return fmt.Errorf("invalid file pattern %q: %w", pattern, err)
		}
	}
	return nil
}

func validateBuckets(b BucketRounding) error {
	for i := 1; i < len(b.BucketsHours); i++ {
		if b.BucketsHours[i] <= b.BucketsHours[i-1] {
			return fmt.Errorf("buckets_hours must be strictly ascending (%g after %g)", b.BucketsHours[i], b.BucketsHours[i-1])
		}
	}
	seen := make(map[float64]string, len(b.Thresholds))
	for _, key := range slices.Sorted(maps.Keys(b.Thresholds)) {
		t := b.Thresholds[key]
		bucket, err := strconv.ParseFloat(key, 64)
		if err != nil {
			return fmt.Errorf("threshold key %q is not a number", key)
		}
		if prev, ok := seen[bucket]; ok {
			return fmt.Errorf("threshold keys %q and %q both address bucket %g", prev, key, bucket)
		}
		seen[bucket] = key
		if t.Next < bucket {
			return fmt.Errorf("threshold %q jumps down to %g", key, t.Next)
		}
	}
	return nil
}
