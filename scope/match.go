// Package scope evaluates whether a path falls within a set of scope
// patterns. Matching is deliberately narrower than general globbing:
// a pattern only behaves as a wildcard through its `/**` or `/*`
// suffix, anything else is exact string equality.
package scope

import "strings"

// Normalize converts a path to forward-slash form so mixed separator
// styles compare equal.
func Normalize(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}

// Matches reports whether path falls within any of the patterns.
// An empty pattern list is unrestricted and matches every path.
func Matches(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	p := Normalize(path)
	for _, pattern := range patterns {
		if matchOne(p, Normalize(pattern)) {
			return true
		}
	}
	return false
}

func matchOne(path, pattern string) bool {
	switch {
	case strings.HasSuffix(pattern, "/**"):
		// recursive: the prefix itself, or anything under it
		prefix := strings.TrimSuffix(pattern, "/**")
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	case strings.HasSuffix(pattern, "/*"):
		// single level: the remainder must not descend further
		prefix := strings.TrimSuffix(pattern, "/*")
		rest, ok := strings.CutPrefix(path, prefix+"/")
		return ok && !strings.Contains(rest, "/")
	default:
		// no wildcard suffix means exact equality, never subdirectories
		return path == pattern
	}
}
