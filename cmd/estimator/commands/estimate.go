// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Estimator - Estimator sizes engineering tickets from a calibrated heuristics file.
It classifies work, scores complexity and projects manual and AI-assisted time so planning stays repeatable and auditable.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bartekus/estimator/cmd/estimator/internal/clierr"
	"github.com/bartekus/estimator/internal/complexity"
	"github.com/bartekus/estimator/internal/estimate"
	"github.com/bartekus/estimator/internal/heuristics"
	"github.com/bartekus/estimator/internal/logger"
	"github.com/bartekus/estimator/internal/projection"
	"github.com/bartekus/estimator/internal/report"
	"github.com/bartekus/estimator/internal/scanner"
)

type estimateOptions struct {
	title       string
	description string
	projectType string
	issueType   string
	taskType    string
	scores      complexity.Scores
	velocity    float64
	infra       bool
	fileCount   int
	files       []string
	gitMatch    []string
	asJSON      bool
	output      string
}

func newEstimateCommand(a *app) *cobra.Command {
	opts := estimateOptions{scores: complexity.DefaultScores()}

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the effort of one ticket",
		Long: `Classify a ticket, score its complexity and project manual and AI-assisted
development time, including file-touch and overhead activities.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.title == "" {
				return clierr.New(clierr.ExitUsage, "--title is required")
			}
			cfg, _, err := a.loadConfig()
			if err != nil {
				return err
			}

			req := estimate.Request{
				Title:            opts.title,
				Description:      opts.description,
				ProjectType:      opts.projectType,
				IssueType:        opts.issueType,
				TaskTypeOverride: opts.taskType,
				Scores:           &opts.scores,
				Files:            opts.files,
			}
			flags := cmd.Flags()
			if flags.Changed("velocity") {
				req.TeamVelocity = &opts.velocity
			}
			if flags.Changed("infra") {
				req.InfrastructureChanges = &opts.infra
			}
			if flags.Changed("file-count") {
				req.FileCount = &opts.fileCount
			}

			if len(opts.gitMatch) > 0 {
				root, err := a.projectRoot()
				if err != nil {
					return err
				}
				matched, err := scanner.New(root).MatchTracked(cmd.Context(), opts.gitMatch)
				if err != nil {
					return clierr.Wrap(clierr.ExitFailure, "matching tracked files", err)
				}
				logger.Debug("matched tracked files", "patterns", opts.gitMatch, "count", len(matched))
				req.Files = append(req.Files, matched...)
			}

			res, err := estimate.New(cfg).Estimate(req)
			if err != nil {
				return estimateError(err)
			}
			for _, w := range res.Warnings {
				logger.Warn(w)
			}

			if opts.output != "" {
				if err := projection.WriteFile(a.fs, opts.output, []byte(report.Markdown(res))); err != nil {
					return clierr.Wrap(clierr.ExitFailure, "writing report", err)
				}
				logger.Info("wrote report", "path", opts.output)
			}

			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			return report.Text(cmd.OutOrStdout(), res, report.Options{Color: a.color()})
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.title, "title", "", "ticket title (required)")
	f.StringVar(&opts.description, "description", "", "ticket description")
	f.StringVar(&opts.projectType, "project-type", "", "project type key (default from heuristics)")
	f.StringVar(&opts.issueType, "issue-type", "", "issue tracker type, e.g. Bug or Story")
	f.StringVar(&opts.taskType, "task-type", "", "force a task type instead of classifying")
	f.IntVar(&opts.scores.ScopeSize, "scope-size", complexity.DefaultScore, "scope size score (1-10)")
	f.IntVar(&opts.scores.TechnicalComplexity, "technical", complexity.DefaultScore, "technical complexity score (1-10)")
	f.IntVar(&opts.scores.TestingRequirements, "testing", complexity.DefaultScore, "testing requirements score (1-10)")
	f.IntVar(&opts.scores.RiskAndUnknowns, "risk", complexity.DefaultScore, "risk and unknowns score (1-10)")
	f.IntVar(&opts.scores.Dependencies, "dependencies", complexity.DefaultScore, "dependencies score (1-10)")
	f.Float64Var(&opts.velocity, "velocity", 1.0, "team velocity multiplier for story points")
	f.BoolVar(&opts.infra, "infra", false, "the change touches infrastructure")
	f.IntVar(&opts.fileCount, "file-count", 0, "number of files the change modifies")
	f.StringArrayVar(&opts.files, "file", nil, "path the change touches (repeatable)")
	f.StringArrayVar(&opts.gitMatch, "git-match", nil, "glob over git-tracked files the change touches (repeatable)")
	f.BoolVar(&opts.asJSON, "json", false, "print the estimate as JSON")
	f.StringVar(&opts.output, "output", "", "also write a Markdown report to this path")

	return cmd
}

// estimateError maps unknown keys to usage errors and everything else to an
// estimation failure.
func estimateError(err error) error {
	if errors.Is(err, heuristics.ErrNotFound) {
		return clierr.Wrap(clierr.ExitUsage, "invalid input", err)
	}
	return clierr.Wrap(clierr.ExitFailure, "estimation failed", err)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}
