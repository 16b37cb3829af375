// SPDX-License-Identifier: AGPL-3.0-or-later

// Package heuristics loads and validates the estimation calibration: task types,
// complexity weights, sizing tables, workflow phases, overhead rules and bucket
// rounding. A loaded Config is read-only and safe to share between goroutines.
package heuristics

import (
	"maps"
	"slices"
	"strconv"
)

// FallbackTaskType is returned by classification when nothing else matches.
// Every configuration must define it.
const FallbackTaskType = "enhancement"

// OverflowSizeLabel is the size label used when adjusted complexity falls
// outside every configured range.
const OverflowSizeLabel = "XL"

// document matches the top-level shape of heuristics.yaml.
type document struct {
	EstimationConfig *Config `yaml:"estimation_config"`
}

// Config is the complete estimation calibration.
type Config struct {
	TaskTypes          TaskTypes          `yaml:"task_types" validate:"required,min=1,dive"`
	ComplexityWeights  map[string]Weights `yaml:"complexity_weights" validate:"required,min=1,dive"`
	TShirtSizing       SizeRanges         `yaml:"t_shirt_sizing" validate:"required,min=1,dive"`
	StoryPoints        StoryPoints        `yaml:"story_points"`
	ProjectTypes       ProjectTypes       `yaml:"project_types" validate:"required,min=1,dive"`
	OverheadActivities OverheadActivities `yaml:"overhead_activities"`
	BucketRounding     BucketRounding     `yaml:"bucket_rounding"`
	FileTouchOverhead  FileTouchOverhead  `yaml:"file_touch_overhead"`
	Defaults           Defaults           `yaml:"defaults"`
}

// TaskType is one category of engineering work. ID comes from the mapping key.
type TaskType struct {
	ID                   string   `yaml:"-" validate:"required"`
	Label                string   `yaml:"label" validate:"required"`
	Keywords             []string `yaml:"keywords"`
	ExcludeKeywords      []string `yaml:"exclude_keywords"`
	IssueTypes           []string `yaml:"issue_types"`
	ComplexityMultiplier float64  `yaml:"complexity_multiplier" validate:"gt=0"`
	// BaseUnitMinutes is nil for time-boxed work that has no fixed unit.
	BaseUnitMinutes *float64 `yaml:"base_unit_minutes" validate:"omitempty,gte=0"`
}

// TimeBoxed reports whether the task type has no fixed implementation unit.
func (t TaskType) TimeBoxed() bool {
	return t.BaseUnitMinutes == nil
}

// Weights are the per-axis complexity weights of a task type. They sum to 100.
type Weights struct {
	ScopeSize           float64 `yaml:"scope_size" validate:"gte=0"`
	TechnicalComplexity float64 `yaml:"technical_complexity" validate:"gte=0"`
	TestingRequirements float64 `yaml:"testing_requirements" validate:"gte=0"`
	RiskAndUnknowns     float64 `yaml:"risk_and_unknowns" validate:"gte=0"`
	Dependencies        float64 `yaml:"dependencies" validate:"gte=0"`
}

// Sum returns the total of all axis weights.
func (w Weights) Sum() float64 {
	return w.ScopeSize + w.TechnicalComplexity + w.TestingRequirements + w.RiskAndUnknowns + w.Dependencies
}

// SizeRange maps an inclusive adjusted-complexity range to a T-shirt size.
type SizeRange struct {
	Label           string    `yaml:"-" validate:"required"`
	ComplexityRange []float64 `yaml:"complexity_range" validate:"len=2"`
}

// Min is the inclusive lower bound of the range.
func (r SizeRange) Min() float64 { return r.ComplexityRange[0] }

// Max is the inclusive upper bound of the range.
func (r SizeRange) Max() float64 { return r.ComplexityRange[1] }

// Contains reports whether v lies within the inclusive range.
func (r SizeRange) Contains(v float64) bool {
	return r.Min() <= v && v <= r.Max()
}

// StoryPoints lists the allowed story-point values in preference order.
type StoryPoints struct {
	FibonacciSequence []int `yaml:"fibonacci_sequence" validate:"required,min=1"`
}

// ProjectType selects the manual and AI-assisted workflow shapes.
type ProjectType struct {
	ID                 string  `yaml:"-" validate:"required"`
	Label              string  `yaml:"label" validate:"required"`
	WorkflowPhases     []Phase `yaml:"workflow_phases" validate:"required,min=1,dive"`
	AIAssistedWorkflow []Phase `yaml:"ai_assisted_workflow" validate:"required,min=1,dive"`
}

// Rule selects how a phase's minutes are computed.
type Rule string

const (
	// RuleScale multiplies base_minutes_at_complexity_5 by the scale factor.
	RuleScale Rule = "scale"
	// RuleFixed uses base_minutes. Manual phases may switch to
	// infrastructure_changes_minutes when the infra flag is set.
	RuleFixed Rule = "fixed"
	// RuleFixedOrInfra uses base_minutes, or infrastructure_changes_minutes
	// when the infra flag is set.
	RuleFixedOrInfra Rule = "fixed_or_infra"
	// RulePercentage takes a percentage of an earlier phase in the same workflow.
	RulePercentage Rule = "percentage"
	// RuleTaskDriven multiplies adjusted complexity by the task type's base unit.
	RuleTaskDriven Rule = "task_driven"
	// RuleSavings applies time_savings_percentage to a manual phase.
	RuleSavings Rule = "savings"
	// RuleBlend sums percentages of several manual phases.
	RuleBlend Rule = "blend"
	// RuleCarryOver copies a manual phase unchanged.
	RuleCarryOver Rule = "carry_over"
)

// ManualRules are the rules a manual workflow phase may use.
var ManualRules = []Rule{RuleScale, RuleFixed, RuleFixedOrInfra, RulePercentage, RuleTaskDriven}

// AIRules are the rules an AI-assisted workflow phase may use.
var AIRules = []Rule{RuleSavings, RuleFixed, RuleFixedOrInfra, RuleBlend, RuleScale, RuleCarryOver}

// Phase is one step of a workflow. Which optional fields are required depends
// on Rule; Validate enforces the combination.
type Phase struct {
	Key         string `yaml:"key" validate:"required"`
	Label       string `yaml:"label" validate:"required"`
	Description string `yaml:"description"`
	Rule        Rule   `yaml:"rule" validate:"required,oneof=scale fixed fixed_or_infra percentage task_driven savings blend carry_over"`

	BaseMinutesAtComplexity5     *float64 `yaml:"base_minutes_at_complexity_5,omitempty" validate:"omitempty,gte=0"`
	BaseMinutes                  *float64 `yaml:"base_minutes,omitempty" validate:"omitempty,gte=0"`
	InfrastructureChangesMinutes *float64 `yaml:"infrastructure_changes_minutes,omitempty" validate:"omitempty,gte=0"`

	// From names the source phase for percentage, savings and carry_over.
	From                  string        `yaml:"from,omitempty"`
	Percentage            *float64      `yaml:"percentage,omitempty" validate:"omitempty,gte=0"`
	TimeSavingsPercentage *float64      `yaml:"time_savings_percentage,omitempty"`
	Blend                 []BlendSource `yaml:"blend,omitempty" validate:"omitempty,dive"`
}

// BlendSource is one weighted manual phase of a blend rule.
type BlendSource struct {
	Phase      string  `yaml:"phase" validate:"required"`
	Percentage float64 `yaml:"percentage" validate:"gte=0"`
}

// OverheadActivities wraps the ordered activity rules.
type OverheadActivities struct {
	Activities Activities `yaml:"activities" validate:"omitempty,dive"`
}

// Activity is a fixed-cost extra task detected from text or file paths.
type Activity struct {
	Key                   string    `yaml:"-" validate:"required"`
	Enabled               bool      `yaml:"enabled"`
	Label                 string    `yaml:"label"`
	Description           string    `yaml:"description"`
	Rationale             string    `yaml:"rationale"`
	Notes                 string    `yaml:"notes"`
	AppliesToTaskTypes    []string  `yaml:"applies_to_task_types"`
	AppliesToProjectTypes []string  `yaml:"applies_to_project_types"`
	Detection             Detection `yaml:"detection"`
	AdditionalMinutes     float64   `yaml:"additional_minutes" validate:"gte=0"`
}

// Detection describes how an activity is recognised.
type Detection struct {
	Keywords         []string `yaml:"keywords"`
	CheckTitle       bool     `yaml:"check_title"`
	CheckDescription bool     `yaml:"check_description"`
	CheckFiles       bool     `yaml:"check_files"`
	FilePatterns     []string `yaml:"file_patterns"`
}

// BucketRounding snaps hours to reporting buckets.
type BucketRounding struct {
	BucketsHours []float64                 `yaml:"buckets_hours" validate:"required,min=1"`
	Thresholds   map[string]BucketThreshold `yaml:"thresholds"`
}

// BucketThreshold moves a value above Threshold to Next.
type BucketThreshold struct {
	Threshold float64 `yaml:"threshold"`
	Next      float64 `yaml:"next"`
}

// ThresholdFor returns the rule for a bucket. Keys are compared numerically,
// so "1", "1.0" and "1.00" all address bucket 1. Validate rejects two keys
// for the same bucket; without it, the lexically smallest key wins.
func (b BucketRounding) ThresholdFor(bucket float64) (BucketThreshold, bool) {
	for _, key := range slices.Sorted(maps.Keys(b.Thresholds)) {
		v, err := strconv.ParseFloat(key, 64)
		if err == nil && v == bucket {
			return b.Thresholds[key], true
		}
	}
	return BucketThreshold{}, false
}

// FileTouchOverhead adds manual time for changes spread over many files.
type FileTouchOverhead struct {
	Enabled                bool              `yaml:"enabled"`
	MinimumFiles           int               `yaml:"minimum_files_for_overhead" validate:"gte=0"`
	BaseTimePerFileMinutes float64           `yaml:"base_time_per_file_minutes" validate:"gte=0"`
	ComplexityScaling      ComplexityScaling `yaml:"complexity_scaling"`
	MaximumOverheadMinutes float64           `yaml:"maximum_overhead_minutes" validate:"gte=0"`
}

// ComplexityScaling picks a multiplier by raw complexity band.
type ComplexityScaling struct {
	Enabled          bool              `yaml:"enabled"`
	Thresholds       ScalingThresholds `yaml:"thresholds"`
	LowMultiplier    float64           `yaml:"low_complexity_multiplier" validate:"gte=0"`
	MediumMultiplier float64           `yaml:"medium_complexity_multiplier" validate:"gte=0"`
	HighMultiplier   float64           `yaml:"high_complexity_multiplier" validate:"gte=0"`
}

// ScalingThresholds separate the low, medium and high bands.
type ScalingThresholds struct {
	Low    float64 `yaml:"low"`
	Medium float64 `yaml:"medium"`
}

// Defaults apply when a request leaves a field unset.
type Defaults struct {
	ProjectType              string  `yaml:"project_type" validate:"required"`
	TeamVelocity             float64 `yaml:"team_velocity" validate:"gt=0"`
	HasInfrastructureChanges bool    `yaml:"has_infrastructure_changes"`
}
