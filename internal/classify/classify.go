// SPDX-License-Identifier: AGPL-3.0-or-later

// Package classify maps ticket text and an optional issue type to a task type.
package classify

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bartekus/estimator/internal/heuristics"
	"github.com/bartekus/estimator/internal/textmatch"
)

// Result is the chosen task type and the reasons that led to it.
type Result struct {
	TaskType string
	Reasons  []string
}

// Classify picks a task type.
//
// Evaluation order:
//  1. An issue type listed by some task type wins outright.
//  2. Task types are tried in declaration order; the first with a keyword
//     hit in the title or description and no exclude hit wins.
//  3. Otherwise heuristics.FallbackTaskType.
func Classify(types heuristics.TaskTypes, title, description, issueType string) Result {
	if issueType != "" {
		for _, t := range types {
			if slices.Contains(t.IssueTypes, issueType) {
				return Result{
					TaskType: t.ID,
					Reasons:  []string{fmt.Sprintf("Issue type is '%s'", issueType)},
				}
			}
		}
	}

	foldedTitle := textmatch.Fold(title)
	foldedDesc := textmatch.Fold(description)

	for _, t := range types {
		matched := foundIn(t.Keywords, foldedTitle, foldedDesc)
		if len(matched) == 0 {
			continue
		}
		if len(foundIn(t.ExcludeKeywords, foldedTitle, foldedDesc)) > 0 {
			continue
		}
		return Result{
			TaskType: t.ID,
			Reasons:  []string{"Keywords found: " + strings.Join(matched, ", ")},
		}
	}

	return Result{
		TaskType: heuristics.FallbackTaskType,
		Reasons:  []string{"No specific keywords found, defaulting to " + heuristics.FallbackTaskType},
	}
}

// foundIn returns keywords present in either text, in keyword order.
func foundIn(keywords []string, title, description string) []string {
	var out []string
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		k := textmatch.Fold(kw)
		if strings.Contains(title, k) || strings.Contains(description, k) {
			out = append(out, kw)
		}
	}
	return out
}
