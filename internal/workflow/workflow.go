// SPDX-License-Identifier: AGPL-3.0-or-later

// Package workflow projects complexity onto the phases of a project type's
// manual and AI-assisted workflows.
//
// Each phase names a rule; the rule's calculator is looked up in a registry,
// so adding a rule means adding a calculator and nothing else. The AI-assisted
// workflow is derived from a finished manual breakdown.
package workflow

import (
	"fmt"
	"slices"

	"github.com/bartekus/estimator/internal/complexity"
	"github.com/bartekus/estimator/internal/heuristics"
)

// Input is what every rule may read besides the phase definition.
type Input struct {
	Complexity     complexity.Result
	TaskType       heuristics.TaskType
	Infrastructure bool
}

// PhaseTime is one projected phase. Minutes is unrounded.
type PhaseTime struct {
	Key         string          `json:"key"`
	Label       string          `json:"label"`
	Description string          `json:"description,omitempty"`
	Rule        heuristics.Rule `json:"rule"`
	Minutes     float64         `json:"minutes"`
}

// Breakdown is a projected workflow in phase order.
type Breakdown struct {
	Phases []PhaseTime `json:"phases"`
}

// TotalMinutes sums all phases.
func (b Breakdown) TotalMinutes() float64 {
	var total float64
	for _, p := range b.Phases {
		total += p.Minutes
	}
	return total
}

// TotalHours is TotalMinutes / 60.
func (b Breakdown) TotalHours() float64 {
	return b.TotalMinutes() / 60
}

// Phase returns the phase with the given key.
func (b Breakdown) Phase(key string) (PhaseTime, bool) {
	for _, p := range b.Phases {
		if p.Key == key {
			return p, true
		}
	}
	return PhaseTime{}, false
}

// AddToImplementation adds minutes to the task-driven phase. It reports
// false when the breakdown has no such phase.
func (b *Breakdown) AddToImplementation(minutes float64) bool {
	for i := range b.Phases {
		if b.Phases[i].Rule == heuristics.RuleTaskDriven {
			b.Phases[i].Minutes += minutes
			return true
		}
	}
	return false
}

// env is handed to calculators. current holds the phases of the workflow
// being built so far; manual is nil while projecting the manual workflow.
type env struct {
	in      Input
	current *Breakdown
	manual  *Breakdown
}

type calculator func(ph heuristics.Phase, e env) (float64, error)

var registry = map[heuristics.Rule]calculator{
	heuristics.RuleScale:        scale,
	heuristics.RuleFixed:        fixed,
	heuristics.RuleFixedOrInfra: fixedOrInfra,
	heuristics.RulePercentage:   percentage,
	heuristics.RuleTaskDriven:   taskDriven,
	heuristics.RuleSavings:      savings,
	heuristics.RuleBlend:        blend,
	heuristics.RuleCarryOver:    carryOver,
}

// ProjectManual computes the manual workflow of a project type.
func ProjectManual(p heuristics.ProjectType, in Input) (Breakdown, error) {
	return project(p.WorkflowPhases, heuristics.ManualRules, env{in: in})
}

// ProjectAI computes the AI-assisted workflow from a manual breakdown. Pass
// the manual breakdown after any overhead has been folded into it.
func ProjectAI(p heuristics.ProjectType, in Input, manual Breakdown) (Breakdown, error) {
	return project(p.AIAssistedWorkflow, heuristics.AIRules, env{in: in, manual: &manual})
}

func project(phases []heuristics.Phase, allowed []heuristics.Rule, e env) (Breakdown, error) {
	out := Breakdown{Phases: make([]PhaseTime, 0, len(phases))}
	e.current = &out
	for _, ph := range phases {
		if !slices.Contains(allowed, ph.Rule) {
			return Breakdown{}, fmt.Errorf("phase %s: rule %s is not allowed here", ph.Key, ph.Rule)
		}
		calc, ok := registry[ph.Rule]
		if !ok {
			return Breakdown{}, fmt.Errorf("phase %s: unknown rule %s", ph.Key, ph.Rule)
		}
		minutes, err := calc(ph, e)
		if err != nil {
			return Breakdown{}, fmt.Errorf("phase %s: %w", ph.Key, err)
		}
		out.Phases = append(out.Phases, PhaseTime{
			Key:         ph.Key,
			Label:       ph.Label,
			Description: ph.Description,
			Rule:        ph.Rule,
			Minutes:     minutes,
		})
	}
	return out, nil
}
