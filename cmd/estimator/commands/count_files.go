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
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bartekus/estimator/cmd/estimator/internal/clierr"
	"github.com/bartekus/estimator/internal/scanner"
)

// countFilesInput is the stdin document. Each element of FileLists may be a
// list of paths, a single path or null.
type countFilesInput struct {
	FileLists []any `json:"file_lists"`
}

type countFilesError struct {
	Error string   `json:"error"`
	Count int      `json:"count"`
	Files []string `json:"files"`
}

func newCountFilesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "count-files",
		Short: "Count unique files across several search results",
		Long: `Read {"file_lists": [[...], "path", null]} from stdin and print the number of
unique paths and the sorted list as JSON. Use the count as --file-count.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := countFiles(cmd.InOrStdin())
			if err != nil {
				data, _ := json.Marshal(countFilesError{Error: err.Error(), Files: []string{}})
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), string(data))
				return clierr.Reported(clierr.ExitFailure, err)
			}
			return writeJSON(cmd.OutOrStdout(), set)
		},
	}
}

func countFiles(r io.Reader) (scanner.FileSet, error) {
	var in countFilesInput
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return scanner.FileSet{}, fmt.Errorf("invalid JSON input: %w", err)
	}

	lists := make([][]string, 0, len(in.FileLists))
	for _, el := range in.FileLists {
		switch v := el.(type) {
		case string:
			lists = append(lists, []string{v})
		case []any:
			paths := make([]string, 0, len(v))
			for _, p := range v {
				if s, ok := p.(string); ok {
					paths = append(paths, s)
				}
			}
			lists = append(lists, paths)
		}
	}
	return scanner.UniqueFiles(lists...), nil
}
