// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Estimator - Estimator sizes engineering tickets from a calibrated heuristics file.
It classifies work, scores complexity and projects manual and AI-assisted time so planning stays repeatable and auditable.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package commands contains the Cobra commands of the estimator CLI.
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bartekus/estimator/cmd/estimator/internal/clierr"
	"github.com/bartekus/estimator/internal/heuristics"
	"github.com/bartekus/estimator/internal/logger"
	"github.com/bartekus/estimator/internal/projectroot"
)

// Setting keys shared by flags and ESTIMATOR_* environment variables.
const (
	keyConfig  = "config"
	keyBuiltin = "builtin"
	keyVerbose = "verbose"
	keyNoColor = "no-color"
)

// sourceBuiltin names the bundled calibration in logs and config show.
const sourceBuiltin = "builtin"

// app carries what every command needs. Tests swap the filesystem and the
// working directory.
type app struct {
	v     *viper.Viper
	fs    afero.Fs
	getwd func() (string, error)
}

// NewRootCmd constructs the estimator root Cobra command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{fs: afero.NewOsFs(), getwd: os.Getwd})
}

func newRootCmd(a *app) *cobra.Command {
	version := os.Getenv("ESTIMATOR_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	cmd := &cobra.Command{
		Use:           "estimator",
		Short:         "Estimator - ticket effort estimation",
		Long:          "Estimator classifies tickets, scores complexity and projects manual and AI-assisted effort from a heuristics file.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger.Configure(cmd.ErrOrStderr(), a.v.GetBool(keyVerbose))
			return nil
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return clierr.Usage(err)
	})

	// Global flags
	pf := cmd.PersistentFlags()
	pf.String(keyConfig, "", "path to a heuristics file (env ESTIMATOR_CONFIG)")
	pf.Bool(keyBuiltin, false, "use the bundled heuristics (env ESTIMATOR_BUILTIN)")
	pf.BoolP(keyVerbose, "v", false, "enable debug logging (env ESTIMATOR_DEBUG)")
	pf.Bool(keyNoColor, false, "disable colored output (env ESTIMATOR_NO_COLOR)")

	a.v = newSettings(cmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of Estimator",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Estimator version %s\n", version)
		},
	})

	cmd.AddCommand(newEstimateCommand(a))
	cmd.AddCommand(newClassifyCommand(a))
	cmd.AddCommand(newBatchCommand(a))
	cmd.AddCommand(newCountFilesCommand())
	cmd.AddCommand(newConfigCommand(a))

	return cmd
}

// newSettings binds the persistent flags to a private viper instance so that
// flags win over environment variables.
func newSettings(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("ESTIMATOR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv(keyVerbose, "ESTIMATOR_VERBOSE", logger.DebugEnv)
	_ = v.BindPFlags(cmd.PersistentFlags())
	return v
}

// color reports whether terminal output should carry ANSI colors.
func (a *app) color() bool {
	return !a.v.GetBool(keyNoColor) && !color.NoColor
}

// loadConfig resolves the heuristics file: --config, then --builtin, then
// .estimator/heuristics.yaml under the project root. There is no silent
// fallback to the bundled calibration. The second result names the source.
func (a *app) loadConfig() (*heuristics.Config, string, error) {
	if path := a.v.GetString(keyConfig); path != "" {
		cfg, err := heuristics.Load(a.fs, path)
		if err != nil {
			return nil, "", clierr.Wrap(clierr.ExitUsage, "loading configuration", err)
		}
		logger.Debug("loaded heuristics", "source", path)
		return cfg, path, nil
	}

	if a.v.GetBool(keyBuiltin) {
		cfg, err := heuristics.Default()
		if err != nil {
			return nil, "", clierr.Wrap(clierr.ExitUsage, "loading bundled configuration", err)
		}
		logger.Debug("loaded heuristics", "source", sourceBuiltin)
		return cfg, sourceBuiltin, nil
	}

	path, err := a.projectConfigPath()
	if err == nil {
		if ok, _ := afero.Exists(a.fs, path); ok {
			cfg, err := heuristics.Load(a.fs, path)
			if err != nil {
				return nil, "", clierr.Wrap(clierr.ExitUsage, "loading configuration", err)
			}
			logger.Debug("loaded heuristics", "source", path)
			return cfg, path, nil
		}
	}

	return nil, "", clierr.New(clierr.ExitUsage,
		"no heuristics configuration found; run 'estimator config init', or pass --config PATH or --builtin")
}

// projectConfigPath returns where the project's heuristics file lives. It
// falls back to the working directory when no project root is found.
func (a *app) projectConfigPath() (string, error) {
	root, err := a.projectRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, heuristics.DefaultDir, heuristics.DefaultFileName), nil
}

func (a *app) projectRoot() (string, error) {
	wd, err := a.getwd()
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	root, err := projectroot.FindFs(a.fs, wd)
	if err != nil {
		return wd, nil
	}
	return root, nil
}
