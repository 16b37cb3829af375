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

	"github.com/spf13/cobra"

	"github.com/bartekus/estimator/cmd/estimator/internal/clierr"
	"github.com/bartekus/estimator/internal/batch"
	"github.com/bartekus/estimator/internal/estimate"
	"github.com/bartekus/estimator/internal/logger"
	"github.com/bartekus/estimator/internal/projection"
	"github.com/bartekus/estimator/internal/report"
)

func newBatchCommand(a *app) *cobra.Command {
	var (
		asJSON bool
		output string
		only   []string
	)

	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Estimate every ticket of a YAML batch file",
		Long: `Estimate every ticket listed under "tickets:" in FILE. Failing tickets are
reported and the run continues; the command exits non-zero if any failed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := a.loadConfig()
			if err != nil {
				return err
			}

			file, err := batch.Load(a.fs, args[0])
			if err != nil {
				return clierr.Usage(err)
			}
			tickets := file.Tickets
			if len(only) > 0 {
				if tickets, err = file.Select(only); err != nil {
					return clierr.Usage(err)
				}
			}

			rep, runErr := batch.Run(cmd.Context(), estimate.New(cfg), tickets)
			for _, o := range rep.Outcomes {
				if o.Status == batch.StatusFailed {
					logger.Error("ticket failed", "id", o.ID, "error", o.Error)
					continue
				}
				for _, w := range o.Result.Warnings {
					logger.Warn(w, "id", o.ID)
				}
			}

			md := report.BatchMarkdown(rep)
			if output != "" {
				if err := projection.WriteFile(a.fs, output, []byte(md)); err != nil {
					return clierr.Wrap(clierr.ExitFailure, "writing report", err)
				}
				logger.Info("wrote report", "path", output)
			}

			if asJSON {
				if err := writeJSON(cmd.OutOrStdout(), rep); err != nil {
					return err
				}
			} else {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), md)
			}

			if runErr != nil {
				return clierr.Wrap(clierr.ExitFailure, "", runErr)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the batch report as JSON")
	cmd.Flags().StringVar(&output, "output", "", "also write a Markdown report to this path")
	cmd.Flags().StringSliceVar(&only, "only", nil, "estimate only these ticket ids")
	return cmd
}
