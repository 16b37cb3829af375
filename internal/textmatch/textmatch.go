// SPDX-License-Identifier: AGPL-3.0-or-later

// Package textmatch provides the case-insensitive substring and glob matching
// used by the classifier and the overhead detector.
package textmatch

import (
	"strings"

	"github.com/gobwas/glob"
	"golang.org/x/text/cases"
)

// Fold returns the Unicode case-folded form of s. Two strings that differ
// only in case fold to the same value.
func Fold(s string) string {
	// A Caser carries state, so each call gets its own.
	return cases.Fold().String(s)
}

// Found returns the keywords that occur in text, in keyword order. text is
// expected to be folded already; keywords are folded here.
func Found(text string, keywords []string) []string {
	var out []string
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(text, Fold(kw)) {
			out = append(out, kw)
		}
	}
	return out
}

// Glob is a compiled case-insensitive file pattern.
type Glob struct {
	pattern string
	g       glob.Glob
}

// literals are glob syntax in gobwas/glob but plain characters in shell
// patterns.
var literals = strings.NewReplacer(`\`, `\\`, "{", `\{`, "}", `\}`, ",", `\,`)

// CompileGlob compiles pattern with shell-style semantics where '*' also
// crosses '/' boundaries. Only '*', '?' and '[...]' are special; braces,
// commas and backslashes match themselves.
func CompileGlob(pattern string) (*Glob, error) {
	g, err := glob.Compile(literals.Replace(Fold(pattern)))
	if err != nil {
		return nil, err
	}
	return &Glob{pattern: pattern, g: g}, nil
}

// Match reports whether path matches, ignoring case.
func (g *Glob) Match(path string) bool {
	return g.g.Match(Fold(path))
}

func (g *Glob) String() string { return g.pattern }
