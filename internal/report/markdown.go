// SPDX-License-Identifier: AGPL-3.0-or-later

// Package report renders estimates as Markdown and as terminal text.
// All rounding for display happens here.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bartekus/estimator/internal/batch"
	"github.com/bartekus/estimator/internal/estimate"
	"github.com/bartekus/estimator/internal/projection"
	"github.com/bartekus/estimator/internal/workflow"
)

// Markdown renders a single estimate.
func Markdown(res *estimate.Result) string {
	var b strings.Builder

	b.WriteString(projection.RenderHeader(1, "Estimate: "+res.Title))

	b.WriteString(projection.RenderHeader(2, "Summary"))
	b.WriteString(projection.RenderList(summaryItems(res)))
	b.WriteString("\n")

	b.WriteString(projection.RenderHeader(2, "Manual Workflow"))
	b.WriteString(phaseTable(res.Manual))
	b.WriteString("\n")
	b.WriteString(roundedLine(res.Manual))

	b.WriteString(projection.RenderHeader(2, "AI-Assisted Workflow"))
	b.WriteString(phaseTable(res.AIAssisted))
	b.WriteString("\n")
	b.WriteString(roundedLine(res.AIAssisted))

	b.WriteString(projection.RenderHeader(2, "Overhead"))
	b.WriteString(projection.RenderList(overheadItems(res)))
	b.WriteString("\n")

	b.WriteString(projection.RenderHeader(2, "Totals"))
	b.WriteString(projection.RenderList(totalItems(res)))

	if len(res.Warnings) > 0 {
		b.WriteString("\n")
		b.WriteString(projection.RenderHeader(2, "Warnings"))
		b.WriteString(projection.RenderList(res.Warnings))
	}
	return b.String()
}

// BatchMarkdown renders one row per ticket plus a task type tally.
func BatchMarkdown(rep *batch.Report) string {
	var b strings.Builder

	b.WriteString(projection.RenderHeader(1, "Batch Estimate"))
	b.WriteString(fmt.Sprintf("- **Status**: %s\n", rep.Status))
	b.WriteString(fmt.Sprintf("- **Tickets**: %d\n", len(rep.Outcomes)))
	b.WriteString(fmt.Sprintf("- **Failed**: %d\n", len(rep.Failed)))
	b.WriteString("\n")

	rows := make([][]string, 0, len(rep.Outcomes))
	byType := make(map[string]int)
	for _, o := range rep.Outcomes {
		if o.Result == nil {
			rows = append(rows, []string{o.ID, string(o.Status), "-", "-", "-", "-", "-", o.Error})
			continue
		}
		r := o.Result
		byType[r.TaskType]++
		rows = append(rows, []string{
			o.ID,
			string(o.Status),
			r.TaskType,
			r.TShirtSize,
			strconv.Itoa(r.StoryPoints),
			hoursBucket(r.TotalWithOverhead.Rounded.Hours),
			hoursBucket(r.AIAssisted.Rounded.Hours),
			"",
		})
	}
	b.WriteString(projection.RenderTable(
		[]string{"Ticket", "Status", "Task Type", "Size", "Points", "Manual", "AI-Assisted", "Error"},
		rows,
	))

	if len(byType) > 0 {
		b.WriteString("\n")
		b.WriteString(projection.RenderHeader(2, "Task Types"))
		typeRows := make([][]string, 0, len(byType))
		for _, k := range projection.SortedKeys(byType) {
			typeRows = append(typeRows, []string{k, strconv.Itoa(byType[k])})
		}
		b.WriteString(projection.RenderTable([]string{"Task Type", "Tickets"}, typeRows))
	}
	return b.String()
}

func summaryItems(res *estimate.Result) []string {
	s := res.Scores
	return []string{
		fmt.Sprintf("**Project type**: %s (`%s`)", res.ProjectTypeLabel, res.ProjectType),
		fmt.Sprintf("**Task type**: %s (`%s`)", res.TaskTypeLabel, res.TaskType),
		fmt.Sprintf("**Classification**: %s", strings.Join(res.TaskTypeReasons, "; ")),
		fmt.Sprintf("**Complexity**: %.2f raw, %.2f adjusted, scale factor %.3f", res.RawComplexity, res.AdjustedComplexity, res.ScaleFactor),
		fmt.Sprintf("**Scores**: scope %d, technical %d, testing %d, risk %d, dependencies %d",
			s.ScopeSize, s.TechnicalComplexity, s.TestingRequirements, s.RiskAndUnknowns, s.Dependencies),
		fmt.Sprintf("**T-shirt size**: %s", res.TShirtSize),
		fmt.Sprintf("**Story points**: %d", res.StoryPoints),
		fmt.Sprintf("**Team velocity**: %.2f", res.TeamVelocity),
		fmt.Sprintf("**Infrastructure changes**: %s", yesNo(res.InfrastructureChanges)),
	}
}

func phaseTable(w estimate.Workflow) string {
	rows := make([][]string, 0, len(w.Phases)+1)
	for i, p := range w.Phases {
		rows = append(rows, []string{strconv.Itoa(i + 1), phaseLabel(p), minutes(p.Minutes), hours(p.Minutes / 60)})
	}
	rows = append(rows, []string{"", "**Total**", minutes(w.TotalMinutes), hours(w.TotalHours)})
	return projection.RenderTable([]string{"#", "Phase", "Minutes", "Hours"}, rows)
}

func roundedLine(w estimate.Workflow) string {
	return fmt.Sprintf("Rounded with overhead: **%s** (threshold %.2f)\n\n", hoursBucket(w.Rounded.Hours), w.Rounded.Threshold)
}

func overheadItems(res *estimate.Result) []string {
	ft := res.FileTouch
	items := []string{fmt.Sprintf("**File touch**: %s min (%s)", minutes(ft.Minutes), ft.Details)}
	if ft.Calculation != "" {
		items = append(items, fmt.Sprintf("**File touch calculation**: %s%s", ft.Calculation, cappedNote(ft.Capped)))
	}
	if len(res.Overhead.Detected) == 0 {
		return append(items, "**Activities**: none detected")
	}
	for _, a := range res.Overhead.Detected {
		item := fmt.Sprintf("**%s**: +%s min (%s)", a.Label, minutes(a.AdditionalMinutes), a.Rationale)
		if len(a.MatchedKeywords) > 0 {
			item += fmt.Sprintf("; keywords: %s", strings.Join(a.MatchedKeywords, ", "))
		}
		if len(a.MatchedFiles) > 0 {
			item += fmt.Sprintf("; files: %s", strings.Join(a.MatchedFiles, ", "))
		}
		items = append(items, item)
	}
	return append(items, fmt.Sprintf("**Activities total**: %s min (%s h)", minutes(res.Overhead.TotalMinutes), hours(res.Overhead.TotalHours)))
}

func totalItems(res *estimate.Result) []string {
	sv := res.Savings
	return []string{
		fmt.Sprintf("**Manual incl. overhead**: %s h → %s", hours(sv.ManualTotal), hoursBucket(res.TotalWithOverhead.Rounded.Hours)),
		fmt.Sprintf("**AI-assisted incl. overhead**: %s h → %s", hours(sv.AITotal), hoursBucket(res.AIAssisted.Rounded.Hours)),
		fmt.Sprintf("**Time savings**: %s h (%.1f%%)", hours(sv.Hours), sv.Percentage),
	}
}

// phaseLabel returns the label, falling back to the key.
func phaseLabel(p workflow.PhaseTime) string {
	if p.Label != "" {
		return p.Label
	}
	return p.Key
}

func minutes(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }

func hours(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func hoursBucket(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) + "h" }

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func cappedNote(capped bool) string {
	if capped {
		return " (capped)"
	}
	return ""
}
