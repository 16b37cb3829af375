// SPDX-License-Identifier: AGPL-3.0-or-later
package overhead

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bartekus/estimator/internal/heuristics"
	"github.com/bartekus/estimator/internal/textmatch"
)

// maxMatches caps the keywords and files reported per activity.
const maxMatches = 3

// Input is the ticket context the detector inspects.
type Input struct {
	Title       string
	Description string
	TaskType    string
	ProjectType string
	Files       []string
}

// Activity is a detected overhead activity.
type Activity struct {
	Key               string   `json:"activity_key"`
	Label             string   `json:"label"`
	Description       string   `json:"description"`
	Rationale         string   `json:"rationale"`
	Notes             string   `json:"notes,omitempty"`
	AdditionalMinutes float64  `json:"additional_minutes"`
	MatchedKeywords   []string `json:"matched_keywords,omitempty"`
	MatchedFiles      []string `json:"matched_files,omitempty"`
}

// TotalMinutes sums AdditionalMinutes across activities.
func TotalMinutes(activities []Activity) float64 {
	var total float64
	for _, a := range activities {
		total += a.AdditionalMinutes
	}
	return total
}

// Detect returns the enabled activities that apply to the task and project
// type and whose keywords or file patterns match, in declaration order.
// The error reports a file pattern that does not compile.
func Detect(activities heuristics.Activities, in Input) ([]Activity, error) {
	var out []Activity
	for _, a := range activities {
		if !a.Enabled {
			continue
		}
		if len(a.AppliesToTaskTypes) > 0 && !slices.Contains(a.AppliesToTaskTypes, in.TaskType) {
			continue
		}
		if len(a.AppliesToProjectTypes) > 0 && !slices.Contains(a.AppliesToProjectTypes, in.ProjectType) {
			continue
		}

		keywords := matchKeywords(a.Detection, in)
		files, err := matchFiles(a.Detection, in.Files)
		if err != nil {
			return nil, fmt.Errorf("activity %s: %w", a.Key, err)
		}
		if len(keywords) == 0 && len(files) == 0 {
			continue
		}

		label := a.Label
		if label == "" {
			label = a.Key
		}
		out = append(out, Activity{
			Key:               a.Key,
			Label:             label,
			Description:       a.Description,
			Rationale:         a.Rationale,
			Notes:             a.Notes,
			AdditionalMinutes: a.AdditionalMinutes,
			MatchedKeywords:   head(keywords),
			MatchedFiles:      head(files),
		})
	}
	return out, nil
}

func matchKeywords(d heuristics.Detection, in Input) []string {
	var parts []string
	if d.CheckTitle {
		parts = append(parts, in.Title)
	}
	if d.CheckDescription {
		parts = append(parts, in.Description)
	}
	if len(parts) == 0 {
		return nil
	}
	return textmatch.Found(textmatch.Fold(" "+strings.Join(parts, " ")), d.Keywords)
}

func matchFiles(d heuristics.Detection, files []string) ([]string, error) {
	if !d.CheckFiles || len(files) == 0 || len(d.FilePatterns) == 0 {
		return nil, nil
	}
	globs := make([]*textmatch.Glob, 0, len(d.FilePatterns))
	for _, p := range d.FilePatterns {
		g, err := textmatch.CompileGlob(p)
		if err != nil {
			return nil, fmt.Errorf("invalid file pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}

	var out []string
	for _, f := range files {
		for _, g := range globs {
			if g.Match(f) {
				out = append(out, f)
				break
			}
		}
	}
	return out, nil
}

func head(s []string) []string {
	if len(s) > maxMatches {
		return s[:maxMatches]
	}
	return s
}
