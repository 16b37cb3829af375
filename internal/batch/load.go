package batch

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Load reads and validates a batch file.
func Load(fs afero.Fs, path string) (*File, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse batch YAML: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &f, nil
}

// Validate checks required fields and duplicate ids.
func (f *File) Validate() error {
	if len(f.Tickets) == 0 {
		return errors.New("batch file has no tickets")
	}

	seenIDs := make(map[string]bool)
	for i, t := range f.Tickets {
		if t.ID == "" {
			return fmt.Errorf("ticket at index %d missing id", i)
		}
		if t.Title == "" {
			return fmt.Errorf("ticket %s missing title", t.ID)
		}
		if seenIDs[t.ID] {
			return fmt.Errorf("duplicate ticket id: %s", t.ID)
		}
		seenIDs[t.ID] = true
	}
	return nil
}

// Select returns the tickets with the given ids, in the order given.
func (f *File) Select(ids []string) ([]Ticket, error) {
	var out []Ticket
	for _, id := range ids {
		t, ok := f.find(id)
		if !ok {
			return nil, fmt.Errorf("ticket not found: %s", id)
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *File) find(id string) (Ticket, bool) {
	for _, t := range f.Tickets {
		if t.ID == id {
			return t, true
		}
	}
	return Ticket{}, false
}
