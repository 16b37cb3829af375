// Package scanner lists the files of a git project and reduces path lists
// to the set of files a change touches.
package scanner

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"slices"
	"strings"
	"sync"
)

// Scanner lists the files git tracks under a project root. A successful
// listing is cached for the lifetime of the Scanner.
type Scanner struct {
	root string

	mu    sync.Mutex
	files []string
}

// New returns a Scanner for the git work tree at root.
func New(root string) *Scanner {
	return &Scanner{root: root}
}

// TrackedFiles returns every path git tracks, relative to the root and
// slash-separated. Ignored and untracked files are not listed.
func (s *Scanner) TrackedFiles(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.files == nil {
		out, err := lsFiles(ctx, s.root)
		if err != nil {
			return nil, err
		}
		s.files = splitNUL(out)
	}
	return slices.Clone(s.files), nil
}

// Select returns tracked files that pass opts.
func (s *Scanner) Select(ctx context.Context, opts FilterOptions) ([]string, error) {
	all, err := s.TrackedFiles(ctx)
	if err != nil {
		return nil, err
	}
	return FilterFiles(all, opts)
}

// MatchTracked returns tracked files matching any of patterns, skipping
// DefaultExcludeDirs.
func (s *Scanner) MatchTracked(ctx context.Context, patterns []string) ([]string, error) {
	return s.Select(ctx, FilterOptions{
		ExcludeDirs: DefaultExcludeDirs(),
		Patterns:    patterns,
	})
}

func lsFiles(ctx context.Context, dir string) ([]byte, error) {
	// -z keeps paths with spaces or quotes unescaped.
	cmd := exec.CommandContext(ctx, "git", "ls-files", "-z")
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("git ls-files in %s: %w: %s", dir, err, msg)
		}
		return nil, fmt.Errorf("git ls-files in %s: %w", dir, err)
	}
	return out, nil
}

func splitNUL(out []byte) []string {
	files := make([]string, 0, bytes.Count(out, []byte{0}))
	for _, p := range bytes.Split(out, []byte{0}) {
		if len(p) > 0 {
			files = append(files, string(p))
		}
	}
	return files
}
