package scanner

import (
	"sort"
)

// FileSet is a deduplicated, sorted collection of file paths.
type FileSet struct {
	Count int      `json:"count"`
	Files []string `json:"files"`
}

// UniqueFiles returns the union of the given lists. Empty paths are dropped.
// Files is never nil, so it encodes as an empty JSON array.
func UniqueFiles(lists ...[]string) FileSet {
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, f := range list {
			if f == "" {
				continue
			}
			seen[f] = struct{}{}
		}
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return FileSet{Count: len(files), Files: files}
}
