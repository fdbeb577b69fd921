package walker

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludes are directory names never descended into.
var DefaultExcludes = []string{
	".git",
	"node_modules",
	".cache",
	"__pycache__",
	".venv",
	".idea",
	".vscode",
}

func shouldExcludeDir(name string) bool {
	for _, excl := range DefaultExcludes {
		if strings.EqualFold(name, excl) {
			return true
		}
	}
	return false
}

// ValidatePatterns reports the first pattern doublestar cannot parse. A bad
// pattern would otherwise silently match nothing.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("walker: invalid glob pattern %q", p)
		}
	}
	return nil
}

// MatchesInclude reports whether relPath matches one of patterns. An empty
// pattern list includes everything.
func MatchesInclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	return matchesAny(relPath, patterns)
}

// MatchesExclude reports whether relPath matches one of patterns. An empty
// pattern list excludes nothing.
func MatchesExclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	return matchesAny(relPath, patterns)
}

// matchesAny tries each pattern against the slash path, then against the
// base name so that "404.html" excludes the file at any depth.
func matchesAny(relPath string, patterns []string) bool {
	normalized := strings.ReplaceAll(relPath, "\\", "/")
	base := path.Base(normalized)
	for _, pattern := range patterns {
		if doublestar.MatchUnvalidated(pattern, normalized) || doublestar.MatchUnvalidated(pattern, base) {
			return true
		}
	}
	return false
}
