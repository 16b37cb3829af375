// SPDX-License-Identifier: AGPL-3.0-or-later

// Package projectroot locates the project a command runs in.
package projectroot

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// ErrNotFound is returned when no ancestor carries a root marker.
var ErrNotFound = errors.New("project root not found")

// Markers identify a project root, checked in order in each directory.
var Markers = []string{".estimator", ".git"}

// FindFs walks up from start and returns the first directory containing
// one of Markers.
func FindFs(fs afero.Fs, start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", start, err)
	}

	for {
		for _, m := range Markers {
			if ok, _ := afero.Exists(fs, filepath.Join(dir, m)); ok {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w (searched from %s for %v)", ErrNotFound, start, Markers)
		}
		dir = parent
	}
}
