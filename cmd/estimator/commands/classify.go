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
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bartekus/estimator/cmd/estimator/internal/clierr"
	"github.com/bartekus/estimator/internal/classify"
)

type classification struct {
	TaskType      string   `json:"task_type"`
	TaskTypeLabel string   `json:"task_type_label"`
	Reasons       []string `json:"reasons"`
}

func newClassifyCommand(a *app) *cobra.Command {
	var (
		title       string
		description string
		issueType   string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Show which task type a ticket falls into and why",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				return clierr.New(clierr.ExitUsage, "--title is required")
			}
			cfg, _, err := a.loadConfig()
			if err != nil {
				return err
			}

			res := classify.Classify(cfg.TaskTypes, title, description, issueType)
			tt, err := cfg.TaskType(res.TaskType)
			if err != nil {
				return clierr.Wrap(clierr.ExitFailure, "classification failed", err)
			}
			out := classification{TaskType: tt.ID, TaskTypeLabel: tt.Label, Reasons: res.Reasons}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task type: %s (%s)\nReasons: %s\n",
				out.TaskType, out.TaskTypeLabel, strings.Join(out.Reasons, "; "))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "ticket title (required)")
	cmd.Flags().StringVar(&description, "description", "", "ticket description")
	cmd.Flags().StringVar(&issueType, "issue-type", "", "issue tracker type, e.g. Bug or Story")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the classification as JSON")
	return cmd
}
