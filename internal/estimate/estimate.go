// SPDX-License-Identifier: AGPL-3.0-or-later

// Package estimate runs the full estimation pipeline for one ticket:
// classification, complexity scoring, sizing, workflow projection, overhead
// and bucket rounding.
//
// An Estimator holds a read-only configuration and no other state, so a
// single instance may serve concurrent callers.
package estimate

import (
	"fmt"

	"github.com/bartekus/estimator/internal/bucket"
	"github.com/bartekus/estimator/internal/classify"
	"github.com/bartekus/estimator/internal/complexity"
	"github.com/bartekus/estimator/internal/heuristics"
	"github.com/bartekus/estimator/internal/overhead"
	"github.com/bartekus/estimator/internal/scanner"
	"github.com/bartekus/estimator/internal/workflow"
)

// HighScopeThreshold is the scope_size at which a missing file count is
// worth a warning.
const HighScopeThreshold = 7

// Request is the input of one estimate. Pointer fields distinguish "unset"
// from zero values; unset fields take the configuration defaults.
type Request struct {
	Title                 string
	Description           string
	ProjectType           string
	IssueType             string
	Scores                *complexity.Scores
	TaskTypeOverride      string
	TeamVelocity          *float64
	InfrastructureChanges *bool
	FileCount             *int
	// Files feed overhead file-pattern detection. When FileCount is nil,
	// the number of unique paths is used as the file count.
	Files []string
}

// Workflow is one projected workflow with its rounded total.
type Workflow struct {
	Phases       []workflow.PhaseTime `json:"phases"`
	TotalMinutes float64              `json:"total_minutes"`
	TotalHours   float64              `json:"total_hours"`
	Rounded      bucket.Result        `json:"rounded"`
}

// Overhead lists detected activities and their combined time.
type Overhead struct {
	Detected     []overhead.Activity `json:"detected"`
	TotalMinutes float64             `json:"total_minutes"`
	TotalHours   float64             `json:"total_hours"`
}

// Total is the manual total including overhead activities.
type Total struct {
	Hours   float64       `json:"hours"`
	Rounded bucket.Result `json:"rounded"`
}

// Savings compares manual and AI-assisted totals, both including overhead.
type Savings struct {
	Hours       float64 `json:"hours"`
	Percentage  float64 `json:"percentage"`
	ManualTotal float64 `json:"manual_total"`
	AITotal     float64 `json:"ai_assisted_total"`
}

// Result is the complete estimate. All figures are unrounded.
type Result struct {
	Title                 string                   `json:"title"`
	ProjectType           string                   `json:"project_type"`
	ProjectTypeLabel      string                   `json:"project_type_label"`
	TaskType              string                   `json:"task_type"`
	TaskTypeLabel         string                   `json:"task_type_label"`
	TaskTypeReasons       []string                 `json:"task_type_reasons"`
	Scores                complexity.Scores        `json:"complexity_scores"`
	RawComplexity         float64                  `json:"raw_complexity"`
	AdjustedComplexity    float64                  `json:"adjusted_complexity"`
	ScaleFactor           float64                  `json:"scale_factor"`
	TShirtSize            string                   `json:"t_shirt_size"`
	StoryPoints           int                      `json:"story_points"`
	Manual                Workflow                 `json:"manual_workflow"`
	AIAssisted            Workflow                 `json:"ai_assisted_workflow"`
	FileTouch             overhead.FileTouchResult `json:"file_touch_overhead"`
	Overhead              Overhead                 `json:"overhead_activities"`
	TotalWithOverhead     Total                    `json:"total_including_overhead"`
	Savings               Savings                  `json:"time_savings"`
	TeamVelocity          float64                  `json:"team_velocity"`
	InfrastructureChanges bool                     `json:"has_infrastructure_changes"`
	Warnings              []string                 `json:"warnings,omitempty"`
}

// Estimator estimates tickets against one configuration.
type Estimator struct {
	cfg *heuristics.Config
}

// New returns an Estimator. cfg must have passed Validate and must not be
// modified afterwards.
func New(cfg *heuristics.Config) *Estimator {
	return &Estimator{cfg: cfg}
}

// Estimate produces the estimate for req. Unknown project types and task
// type overrides return an error matching heuristics.ErrNotFound.
func (e *Estimator) Estimate(req Request) (*Result, error) {
	cfg := e.cfg
	if cfg == nil {
		return nil, fmt.Errorf("estimate: no configuration")
	}

	projectID := req.ProjectType
	if projectID == "" {
		projectID = cfg.Defaults.ProjectType
	}
	project, err := cfg.ProjectType(projectID)
	if err != nil {
		return nil, err
	}

	velocity := cfg.Defaults.TeamVelocity
	if req.TeamVelocity != nil {
		velocity = *req.TeamVelocity
	}
	infra := cfg.Defaults.HasInfrastructureChanges
	if req.InfrastructureChanges != nil {
		infra = *req.InfrastructureChanges
	}
	scores := complexity.DefaultScores()
	if req.Scores != nil {
		scores = *req.Scores
	}
	fileCount := req.FileCount
	if fileCount == nil && len(req.Files) > 0 {
		n := scanner.UniqueFiles(req.Files).Count
		fileCount = &n
	}

	var cls classify.Result
	if req.TaskTypeOverride != "" {
		cls = classify.Result{
			TaskType: req.TaskTypeOverride,
			Reasons:  []string{fmt.Sprintf("Manual override to '%s'", req.TaskTypeOverride)},
		}
	} else {
		cls = classify.Classify(cfg.TaskTypes, req.Title, req.Description, req.IssueType)
	}
	taskType, err := cfg.TaskType(cls.TaskType)
	if err != nil {
		return nil, err
	}
	weights, err := cfg.Weights(taskType.ID)
	if err != nil {
		return nil, err
	}

	cx := complexity.Score(weights, taskType.ComplexityMultiplier, scores)

	var warnings []string
	if scores.ScopeSize >= HighScopeThreshold && (fileCount == nil || *fileCount == 0) {
		warnings = append(warnings, fmt.Sprintf(
			"high scope_size (%d/10) but no file count: file touch overhead may be underestimated; count the files to be modified and pass the file count",
			scores.ScopeSize))
	}

	in := workflow.Input{Complexity: cx, TaskType: taskType, Infrastructure: infra}
	manual, err := workflow.ProjectManual(project, in)
	if err != nil {
		return nil, fmt.Errorf("project type %s: manual workflow: %w", project.ID, err)
	}

	fileTouch := overhead.FileTouch(cfg.FileTouchOverhead, fileCount, cx.Raw)
	if fileTouch.Minutes > 0 {
		manual.AddToImplementation(fileTouch.Minutes)
	}

	detected, err := overhead.Detect(cfg.OverheadActivities.Activities, overhead.Input{
		Title:       req.Title,
		Description: req.Description,
		TaskType:    taskType.ID,
		ProjectType: project.ID,
		Files:       req.Files,
	})
	if err != nil {
		return nil, err
	}
	overheadMinutes := overhead.TotalMinutes(detected)
	overheadHours := overheadMinutes / 60

	manualTotal := manual.TotalHours() + overheadHours

	ai, err := workflow.ProjectAI(project, in, manual)
	if err != nil {
		return nil, fmt.Errorf("project type %s: AI-assisted workflow: %w", project.ID, err)
	}
	aiTotal := ai.TotalHours() + overheadHours

	res := &Result{
		Title:              req.Title,
		ProjectType:        project.ID,
		ProjectTypeLabel:   project.Label,
		TaskType:           taskType.ID,
		TaskTypeLabel:      taskType.Label,
		TaskTypeReasons:    cls.Reasons,
		Scores:             scores,
		RawComplexity:      cx.Raw,
		AdjustedComplexity: cx.Adjusted,
		ScaleFactor:        cx.ScaleFactor,
		TShirtSize:         complexity.TShirtSize(cfg.TShirtSizing, cx.Adjusted),
		StoryPoints:        complexity.StoryPoints(cfg.StoryPoints.FibonacciSequence, cx.Adjusted, velocity),
		Manual: Workflow{
			Phases:       manual.Phases,
			TotalMinutes: manual.TotalMinutes(),
			TotalHours:   manual.TotalHours(),
			Rounded:      bucket.Round(cfg.BucketRounding, manualTotal),
		},
		AIAssisted: Workflow{
			Phases:       ai.Phases,
			TotalMinutes: ai.TotalMinutes(),
			TotalHours:   ai.TotalHours(),
			Rounded:      bucket.Round(cfg.BucketRounding, aiTotal),
		},
		FileTouch: fileTouch,
		Overhead: Overhead{
			Detected:     detected,
			TotalMinutes: overheadMinutes,
			TotalHours:   overheadHours,
		},
		TotalWithOverhead: Total{
			Hours:   manualTotal,
			Rounded: bucket.Round(cfg.BucketRounding, manualTotal),
		},
		Savings:               savings(manualTotal, aiTotal),
		TeamVelocity:          velocity,
		InfrastructureChanges: infra,
		Warnings:              warnings,
	}
	return res, nil
}

func savings(manual, ai float64) Savings {
	s := Savings{Hours: manual - ai, ManualTotal: manual, AITotal: ai}
	if manual > 0 {
		s.Percentage = s.Hours / manual * 100
	}
	return s
}
