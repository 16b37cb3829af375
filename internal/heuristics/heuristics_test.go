// SPDX-License-Identifier: AGPL-3.0-or-later
package heuristics

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDefault(t *testing.T) *Config {
	t.Helper()
	cfg, err := Default()
	require.NoError(t, err)
	return cfg
}

func TestDefault_Loads(t *testing.T) {
	cfg := mustDefault(t)

	assert.Equal(t, []string{"bug_fix", "spike", "refactor", "net_new", "enhancement"}, cfg.TaskTypeIDs())
	assert.Equal(t, []string{"monolithic", "serverless", "frontend", "fullstack", "mobile", "test_automation"}, cfg.ProjectTypeIDs())
	assert.Equal(t, "monolithic", cfg.Defaults.ProjectType)
	assert.Equal(t, []int{1, 2, 3, 5, 8, 13, 21}, cfg.StoryPoints.FibonacciSequence)

	spike, err := cfg.TaskType("spike")
	require.NoError(t, err)
	assert.True(t, spike.TimeBoxed())
}

func TestDefault_WeightsSumTo100(t *testing.T) {
	cfg := mustDefault(t)
	for _, id := range cfg.TaskTypeIDs() {
		w, err := cfg.Weights(id)
		require.NoError(t, err)
		assert.InDelta(t, 100.0, w.Sum(), 1e-9, id)
	}
}

func TestDefault_OrderIsDocumentOrder(t *testing.T) {
	cfg := mustDefault(t)

	labels := make([]string, 0, len(cfg.TShirtSizing))
	for _, r := range cfg.TShirtSizing {
		labels = append(labels, r.Label)
	}
	assert.Equal(t, "XS", labels[0])

	mono, err := cfg.ProjectType("monolithic")
	require.NoError(t, err)
	assert.Equal(t, "planning_design", mono.WorkflowPhases[0].Key)
	assert.Equal(t, RuleTaskDriven, mono.WorkflowPhases[1].Rule)
}

func TestDefaultYAML_ReturnsCopy(t *testing.T) {
	a := DefaultYAML()
	a[0] = 'x'
	assert.Equal(t, byte('#'), DefaultYAML()[0])
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/.estimator/heuristics.yaml", DefaultYAML(), 0o644))

	cfg, err := Load(fs, "/p/.estimator/heuristics.yaml")
	require.NoError(t, err)
	assert.Len(t, cfg.TaskTypes, 5)

	_, err = Load(fs, "/missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read heuristics file")
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"not yaml", "estimation_config: [", "failed to parse heuristics"},
		{"missing section", "other: {}\n", "missing estimation_config section"},
		{"task types not a mapping", "estimation_config:\n  task_types: [a, b]\n", "task_types: expected a mapping"},
		{"duplicate task type", "estimation_config:\n  task_types:\n    a: {label: A}\n    a: {label: B}\n", "duplicate"},
		{"empty sections", "estimation_config:\n  task_types: {}\n", "invalid heuristics"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_SemanticRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name: "weights do not sum to 100",
			mutate: func(c *Config) {
				w := c.ComplexityWeights["bug_fix"]
				w.ScopeSize -= 10
				c.ComplexityWeights["bug_fix"] = w
			},
			wantErr: "complexity_weights for bug_fix sum to 90",
		},
		{
			name: "weights for unknown task type",
			mutate: func(c *Config) {
				c.ComplexityWeights["chore"] = c.ComplexityWeights["bug_fix"]
			},
			wantErr: "unknown task type: chore",
		},
		{
			name: "task type without weights",
			mutate: func(c *Config) {
				delete(c.ComplexityWeights, "spike")
			},
			wantErr: "task type spike has no complexity_weights entry",
		},
		{
			name: "missing fallback task type",
			mutate: func(c *Config) {
				c.TaskTypes = c.TaskTypes[:len(c.TaskTypes)-1]
				delete(c.ComplexityWeights, FallbackTaskType)
			},
			wantErr: "fallback task type",
		},
		{
			name: "size range inverted",
			mutate: func(c *Config) {
				c.TShirtSizing[0].ComplexityRange = []float64{3, 1}
			},
			wantErr: "greater than max",
		},
		{
			name: "unknown default project type",
			mutate: func(c *Config) {
				c.Defaults.ProjectType = "mainframe"
			},
			wantErr: "defaults.project_type references unknown project type: mainframe",
		},
		{
			name: "percentage of a later phase",
			mutate: func(c *Config) {
				c.ProjectTypes[0].WorkflowPhases[3].From = "verification"
			},
			wantErr: "unknown or later phase",
		},
		{
			name: "second task driven phase",
			mutate: func(c *Config) {
				c.ProjectTypes[0].WorkflowPhases[2].Rule = RuleTaskDriven
			},
			wantErr: "exactly one task_driven phase",
		},
		{
			name: "manual rule in AI workflow",
			mutate: func(c *Config) {
				c.ProjectTypes[0].AIAssistedWorkflow[0].Rule = RulePercentage
			},
			wantErr: "not allowed in an AI-assisted workflow",
		},
		{
			name: "AI rule in manual workflow",
			mutate: func(c *Config) {
				c.ProjectTypes[0].WorkflowPhases[0].Rule = RuleCarryOver
			},
			wantErr: "not allowed in a manual workflow",
		},
		{
			name: "blend of unknown phase",
			mutate: func(c *Config) {
				c.ProjectTypes[0].AIAssistedWorkflow[3].Blend[0].Phase = "nope"
			},
			wantErr: `unknown manual phase "nope"`,
		},
		{
			name: "duplicate phase key",
			mutate: func(c *Config) {
				c.ProjectTypes[0].WorkflowPhases[2].Key = "planning_design"
			},
			wantErr: "duplicate workflow phase planning_design",
		},
		{
			name: "activity for unknown project type",
			mutate: func(c *Config) {
				c.OverheadActivities.Activities[0].AppliesToProjectTypes = []string{"mainframe"}
			},
			wantErr: "applies_to_project_types references unknown project type: mainframe",
		},
		{
			name: "buckets not ascending",
			mutate: func(c *Config) {
				c.BucketRounding.BucketsHours = []float64{1, 3, 2}
			},
			wantErr: "strictly ascending",
		},
		{
			name: "non numeric threshold key",
			mutate: func(c *Config) {
				c.BucketRounding.Thresholds["one"] = BucketThreshold{Threshold: 1, Next: 2}
			},
			wantErr: `threshold key "one" is not a number`,
		},
		{
			name: "two threshold keys for one bucket",
			mutate: func(c *Config) {
				c.BucketRounding.Thresholds["1.0"] = BucketThreshold{Threshold: 1.2, Next: 3}
			},
			wantErr: `threshold keys "1" and "1.0" both address bucket 1`,
		},
		{
			name: "struct rule",
			mutate: func(c *Config) {
				c.Defaults.TeamVelocity = 0
			},
			wantErr: "team_velocity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := mustDefault(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLookup_NotFound(t *testing.T) {
	cfg := mustDefault(t)

	_, err := cfg.ProjectType("mainframe")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "project type", nf.Kind)
	assert.Equal(t, cfg.ProjectTypeIDs(), nf.Known)

	_, err = cfg.TaskType("chore")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), `unknown task type "chore" (known: bug_fix, spike`)

	_, err = cfg.Weights("chore")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBucketRounding_ThresholdFor(t *testing.T) {
	b := BucketRounding{Thresholds: map[string]BucketThreshold{
		"1.0": {Threshold: 1.5, Next: 2},
		"4":   {Threshold: 5, Next: 6},
	}}

	got, ok := b.ThresholdFor(1)
	require.True(t, ok)
	assert.Equal(t, 2.0, got.Next)

	_, ok = b.ThresholdFor(4)
	assert.True(t, ok)

	_, ok = b.ThresholdFor(3)
	assert.False(t, ok)
}

func TestBucketRounding_ThresholdForIsStable(t *testing.T) {
	b := BucketRounding{Thresholds: map[string]BucketThreshold{
		"1":   {Threshold: 1.5, Next: 2},
		"1.0": {Threshold: 1.2, Next: 3},
	}}
	for range 200 {
		got, ok := b.ThresholdFor(1)
		require.True(t, ok)
		require.Equal(t, 2.0, got.Next)
	}
}

func TestParse_RejectsDuplicateBucketKey(t *testing.T) {
	doc := strings.Replace(string(DefaultYAML()), "    thresholds:\n", "    thresholds:\n      \"1.0\":\n        threshold: 1.2\n        next: 3\n", 1)
	require.NotEqual(t, string(DefaultYAML()), doc)

	_, err := Parse([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both address bucket 1")
}
