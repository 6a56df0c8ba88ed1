package rule

import (
	"path/filepath"

	"github.com/tidwall/match"
)

// Rule is one configured (threshold, patterns, features) triple.
type Rule struct {
	// Threshold is the minimum probed size, in size-units, at which the
	// rule fires.
	Threshold uint64

	// Patterns are glob patterns matched against the document's backing
	// path. A rule applies only to documents matching at least one pattern.
	Patterns []string

	// Features is the ordered list of feature names to disable when the
	// rule fires. Order is preserved within the immediate and deferred
	// partitions. May be empty; a degenerate rule matches but disables
	// nothing.
	Features []string
}

// MatchesPath reports whether path matches one of the rule's patterns.
func (r Rule) MatchesPath(path string) bool {
	for _, pat := range r.Patterns {
		if PathMatches(pat, path) {
			return true
		}
	}
	return false
}

// PathMatches reports whether a single glob pattern matches path.
// Patterns are matched against both the full path and its base name, so
// "*.log" covers "/var/log/app.log" without requiring a directory prefix.
func PathMatches(pattern, path string) bool {
	if pattern == "" || path == "" {
		return false
	}
	return match.Match(path, pattern) || match.Match(filepath.Base(path), pattern)
}
