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
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/bartekus/estimator/cmd/estimator/internal/clierr"
	"github.com/bartekus/estimator/internal/heuristics"
	"github.com/bartekus/estimator/internal/projection"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the heuristics configuration",
		Long: `Create, validate and inspect the heuristics file.

The file is resolved from --config (ESTIMATOR_CONFIG), then --builtin
(ESTIMATOR_BUILTIN), then .estimator/heuristics.yaml under the project root.`,
	}

	cmd.AddCommand(newConfigInitCommand(a))
	cmd.AddCommand(newConfigValidateCommand(a))
	cmd.AddCommand(newConfigShowCommand(a))
	return cmd
}

func newConfigInitCommand(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the bundled heuristics to .estimator/heuristics.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.projectConfigPath()
			if err != nil {
				return clierr.Usage(err)
			}
			if exists, _ := afero.Exists(a.fs, path); exists && !force {
				return clierr.Newf(clierr.ExitUsage, "%s already exists; use --force to overwrite", path)
			}

			if err := a.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("failed to create config dir: %w", err)
			}
			if err := afero.WriteFile(a.fs, path, heuristics.DefaultYAML(), 0o644); err != nil {
				return fmt.Errorf("failed to write heuristics: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote heuristics to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing heuristics file")
	return cmd
}

func newConfigValidateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the resolved heuristics file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, source, err := a.loadConfig()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Heuristics valid (%s): %d task types, %d project types, %d overhead activities\n",
				source, len(cfg.TaskTypes), len(cfg.ProjectTypes), len(cfg.OverheadActivities.Activities))
			return nil
		},
	}
}

func newConfigShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Summarise the resolved heuristics file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, source, err := a.loadConfig()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), summarizeConfig(cfg, source))
			return nil
		},
	}
}

func summarizeConfig(cfg *heuristics.Config, source string) string {
	var b strings.Builder

	b.WriteString(projection.RenderHeader(1, "Heuristics"))
	b.WriteString(projection.RenderList([]string{
		"Source: " + source,
		"Default project type: " + cfg.Defaults.ProjectType,
		"Default team velocity: " + strconv.FormatFloat(cfg.Defaults.TeamVelocity, 'g', -1, 64),
		"Infrastructure changes by default: " + yesNo(cfg.Defaults.HasInfrastructureChanges),
	}))

	b.WriteString("\n")
	b.WriteString(projection.RenderHeader(2, "Task Types"))
	rows := make([][]string, 0, len(cfg.TaskTypes))
	for _, t := range cfg.TaskTypes {
		unit := "time-boxed"
		if !t.TimeBoxed() {
			unit = strconv.FormatFloat(*t.BaseUnitMinutes, 'g', -1, 64) + " min"
		}
		rows = append(rows, []string{t.ID, t.Label, strconv.FormatFloat(t.ComplexityMultiplier, 'g', -1, 64), unit})
	}
	b.WriteString(projection.RenderTable([]string{"Key", "Label", "Multiplier", "Base Unit"}, rows))

	b.WriteString("\n")
	b.WriteString(projection.RenderHeader(2, "Project Types"))
	rows = rows[:0]
	for _, p := range cfg.ProjectTypes {
		rows = append(rows, []string{p.ID, p.Label, strconv.Itoa(len(p.WorkflowPhases)), strconv.Itoa(len(p.AIAssistedWorkflow))})
	}
	b.WriteString(projection.RenderTable([]string{"Key", "Label", "Manual Phases", "AI Phases"}, rows))

	b.WriteString("\n")
	b.WriteString(projection.RenderHeader(2, "Overhead Activities"))
	items := make([]string, 0, len(cfg.OverheadActivities.Activities))
	for _, act := range cfg.OverheadActivities.Activities {
		state := "enabled"
		if !act.Enabled {
			state = "disabled"
		}
		items = append(items, fmt.Sprintf("%s: +%g min (%s)", act.Key, act.AdditionalMinutes, state))
	}
	b.WriteString(projection.RenderList(items))

	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
