// Package batch estimates a list of tickets read from a YAML file.
package batch

import (
	"context"
	"fmt"

	"github.com/bartekus/estimator/internal/estimate"
)

// Run estimates all tickets in order.
// It continues past failing tickets, accumulating failures, and returns an
// error naming them if ANY ticket failed. The report is complete either way.
// Cancelling ctx stops before the next ticket.
func Run(ctx context.Context, est *estimate.Estimator, tickets []Ticket) (*Report, error) {
	report := &Report{Status: "pass", Outcomes: make([]Outcome, 0, len(tickets))}

	for _, t := range tickets {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("batch interrupted before %s: %w", t.ID, err)
		}

		res, err := est.Estimate(t.Request())
		if err != nil {
			report.Failed = append(report.Failed, t.ID)
			report.Outcomes = append(report.Outcomes, Outcome{ID: t.ID, Status: StatusFailed, Error: err.Error()})
			continue
		}
		report.Outcomes = append(report.Outcomes, Outcome{ID: t.ID, Status: StatusOK, Result: res})
	}

	if len(report.Failed) > 0 {
		report.Status = "fail"
		return report, fmt.Errorf("batch failed: %v", report.Failed)
	}
	return report, nil
}
