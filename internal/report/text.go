// SPDX-License-Identifier: AGPL-3.0-or-later
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/bartekus/estimator/internal/estimate"
)

// Options control terminal rendering.
type Options struct {
	// Color forces ANSI colors on or off regardless of the terminal.
	Color bool
}

type palette struct {
	title, label, good, warn, dim func(a ...interface{}) string
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) func(a ...interface{}) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		title: mk(color.FgCyan, color.Bold),
		label: mk(color.Bold),
		good:  mk(color.FgGreen),
		warn:  mk(color.FgYellow),
		dim:   mk(color.FgHiBlack),
	}
}

// Text writes a terminal report of res to w.
func Text(w io.Writer, res *estimate.Result, opts Options) error {
	p := newPalette(opts.Color)
	var b strings.Builder
	rule := strings.Repeat("=", 70)

	fmt.Fprintf(&b, "%s\n%s\n%s\n", rule, p.title("ESTIMATE: "+res.Title), rule)
	fmt.Fprintf(&b, "%s %s\n", p.label("Project Type:"), res.ProjectTypeLabel)
	fmt.Fprintf(&b, "%s %s %s\n", p.label("Task Type:"), res.TaskTypeLabel, p.dim("("+strings.Join(res.TaskTypeReasons, "; ")+")"))
	fmt.Fprintf(&b, "%s %s\n", p.label("T-Shirt Size:"), res.TShirtSize)
	fmt.Fprintf(&b, "%s %d\n", p.label("Story Points:"), res.StoryPoints)
	fmt.Fprintf(&b, "%s %.2f/10 raw → %.2f/10 adjusted\n", p.label("Complexity:"), res.RawComplexity, res.AdjustedComplexity)
	fmt.Fprintf(&b, "%s %.3f\n", p.label("Scale Factor:"), res.ScaleFactor)

	writeWorkflow(&b, p, "Manual Development Time Breakdown:", res.Manual)
	writeWorkflow(&b, p, "AI-Assisted Time Breakdown:", res.AIAssisted)

	if res.FileTouch.Minutes > 0 {
		fmt.Fprintf(&b, "\n%s %s min (%s h) %s\n", p.label("File Touch Overhead:"), minutes(res.FileTouch.Minutes), hours(res.FileTouch.Hours()), p.dim("("+res.FileTouch.Details+")"))
	}
	if len(res.Overhead.Detected) > 0 {
		fmt.Fprintf(&b, "\n%s\n", p.label("Overhead Activities:"))
		for _, a := range res.Overhead.Detected {
			fmt.Fprintf(&b, "  + %-30s %6s min\n", a.Label, minutes(a.AdditionalMinutes))
		}
	}

	fmt.Fprintf(&b, "\n%s %s h → %s\n", p.label("Manual Total:"), hours(res.Savings.ManualTotal), p.label(hoursBucket(res.TotalWithOverhead.Rounded.Hours)))
	fmt.Fprintf(&b, "%s %s h → %s\n", p.label("AI-Assisted Total:"), hours(res.Savings.AITotal), p.label(hoursBucket(res.AIAssisted.Rounded.Hours)))
	fmt.Fprintf(&b, "%s %s\n", p.label("Time Savings:"), p.good(fmt.Sprintf("%s h (%.1f%%)", hours(res.Savings.Hours), res.Savings.Percentage)))

	for _, warning := range res.Warnings {
		fmt.Fprintf(&b, "\n%s %s\n", p.warn("WARNING:"), warning)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeWorkflow(b *strings.Builder, p palette, heading string, w estimate.Workflow) {
	fmt.Fprintf(b, "\n%s\n", p.label(heading))
	for i, ph := range w.Phases {
		fmt.Fprintf(b, "  %d. %-30s %6s min (%sh)\n", i+1, phaseLabel(ph)+":", minutes(ph.Minutes), hours(ph.Minutes/60))
	}
	fmt.Fprintf(b, "  %-33s %6s min (%sh)\n", "TOTAL:", minutes(w.TotalMinutes), hours(w.TotalHours))
}
