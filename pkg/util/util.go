package util

import (
	"math"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// countPrinter formats integers with locale grouping separators.
var countPrinter = message.NewPrinter(language.English)

// MatchPattern reports whether a slash-separated relative path matches a
// gitignore-style glob. Patterns starting with "/" are rooted at the scan
// directory; other patterns may match any trailing run of path segments.
// Only filepath.Match syntax is supported, so "**" behaves like "*".
func MatchPattern(pattern, relPath string) bool {
	pattern = filepath.ToSlash(strings.TrimSpace(pattern))
	relPath = filepath.ToSlash(relPath)
	if pattern == "" || relPath == "" || relPath == "." {
		return false
	}

	if rooted := strings.HasPrefix(pattern, "/"); rooted {
		ok, _ := path.Match(strings.TrimPrefix(pattern, "/"), relPath)
		return ok
	}

	parts := strings.Split(relPath, "/")
	for i := range parts {
		if ok, _ := path.Match(pattern, strings.Join(parts[i:], "/")); ok {
			return true
		}
	}
	return false
}

// FirstMatch returns the first pattern matching relPath, or "" when none does.
func FirstMatch(patterns []string, relPath string) string {
	for _, p := range patterns {
		if MatchPattern(p, relPath) {
			return p
		}
	}
	return ""
}

// SizeInMB converts a byte count into megabytes rounded to two decimals.
func SizeInMB(sizeBytes int64) float64 {
	mb := float64(sizeBytes) / (1024 * 1024)
	return math.Round(mb*100) / 100
}

// FormatCount renders n with thousands separators, e.g. 1234567 -> "1,234,567".
func FormatCount(n int) string {
	return countPrinter.Sprintf("%d", n)
}
