package scanner

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bartekus/estimator/internal/textmatch"
)

// FilterOptions select which tracked files count as touched by a change.
type FilterOptions struct {
	// ExcludeDirs drops paths with a matching directory segment: "vendor"
	// excludes "vendor/a" and "pkg/vendor/b" but not "vendor_stuff/a".
	ExcludeDirs []string

	// IncludeExtensions keeps only paths ending in one of them (".go").
	// Empty keeps every extension.
	IncludeExtensions []string

	// Patterns are case-insensitive globs; a path must match at least one.
	// '*' crosses directory boundaries. Empty keeps every path.
	Patterns []string
}

// DefaultExcludeDirs returns the directories never counted as touched files.
func DefaultExcludeDirs() []string {
	return []string{
		"node_modules",
		".git",
		"dist",
		"build",
		"out",
		"vendor",
		"target",
		".idea",
		".estimator",
	}
}

type filter struct {
	excludes   []string
	extensions []string
	globs      []*textmatch.Glob
}

func newFilter(opts FilterOptions) (*filter, error) {
	f := &filter{excludes: opts.ExcludeDirs, extensions: opts.IncludeExtensions}
	for _, p := range opts.Patterns {
		g, err := textmatch.CompileGlob(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		f.globs = append(f.globs, g)
	}
	return f, nil
}

func (f *filter) keep(path string) bool {
	if path == "" {
		return false
	}
	if len(f.excludes) > 0 {
		dirs := strings.Split(path, "/")
		for _, seg := range dirs[:len(dirs)-1] {
			if slices.Contains(f.excludes, seg) {
				return false
			}
		}
	}
	if len(f.extensions) > 0 && !slices.ContainsFunc(f.extensions, func(ext string) bool {
		return strings.HasSuffix(path, ext)
	}) {
		return false
	}
	if len(f.globs) > 0 && !slices.ContainsFunc(f.globs, func(g *textmatch.Glob) bool {
		return g.Match(path)
	}) {
		return false
	}
	return true
}

// FilterFiles returns the paths that pass opts, sorted. The input is not
// modified.
func FilterFiles(paths []string, opts FilterOptions) ([]string, error) {
	f, err := newFilter(opts)
	if err != nil {
		return nil, err
	}

	var kept []string
	for _, p := range paths {
		if f.keep(p) {
			kept = append(kept, p)
		}
	}
	slices.Sort(kept)
	return kept, nil
}
