// SPDX-License-Identifier: AGPL-3.0-or-later
package heuristics

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultDir is the per-project directory holding the calibration.
	DefaultDir = ".estimator"
	// DefaultFileName is the calibration file name inside DefaultDir.
	DefaultFileName = "heuristics.yaml"
)

//go:embed default.yaml
var defaultYAML []byte

// DefaultYAML returns a copy of the bundled calibration document.
func DefaultYAML() []byte {
	return bytes.Clone(defaultYAML)
}

// Default parses the bundled calibration.
func Default() (*Config, error) {
	return Parse(defaultYAML)
}

// Parse decodes and validates a calibration document. JSON documents are
// accepted as well, since YAML is a superset.
func Parse(data []byte) (*Config, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse heuristics: %w", err)
	}
	if doc.EstimationConfig == nil {
		return nil, errors.New("failed to parse heuristics: missing estimation_config section")
	}
	if err := doc.EstimationConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid heuristics: %w", err)
	}
	return doc.EstimationConfig, nil
}

// Load reads and parses a calibration file from fs.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read heuristics file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
