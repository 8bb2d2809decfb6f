package util_test

import (
	"testing"

	"github.com/stackvity/asset-scanner/pkg/util"
	"github.com/stretchr/testify/assert"
)

func TestMatchPattern(t *testing.T) {
	testCases := []struct {
		name     string
		pattern  string
		relPath  string
		expected bool
	}{
		{name: "exact file", pattern: "skip.json", relPath: "skip.json", expected: true},
		{name: "glob at top level", pattern: "*.bak.json", relPath: "old.bak.json", expected: true},
		{name: "unrooted glob matches nested file", pattern: "*.bak.json", relPath: "archive/old.bak.json", expected: true},
		{name: "unrooted dir prefix", pattern: "archive/*", relPath: "2023/archive/a.json", expected: true},
		{name: "rooted matches top level only", pattern: "/archive/*", relPath: "archive/a.json", expected: true},
		{name: "rooted does not match nested", pattern: "/archive/*", relPath: "2023/archive/a.json", expected: false},
		{name: "no match", pattern: "*.yaml", relPath: "servers.json", expected: false},
		{name: "empty pattern", pattern: "", relPath: "servers.json", expected: false},
		{name: "empty path", pattern: "*", relPath: "", expected: false},
		{name: "root path", pattern: "*", relPath: ".", expected: false},
		{name: "surrounding whitespace trimmed", pattern: "  skip.json ", relPath: "skip.json", expected: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, util.MatchPattern(tc.pattern, tc.relPath))
		})
	}
}

func TestFirstMatch(t *testing.T) {
	patterns := []string{"*.yaml", "tmp-*", "*.json"}

	assert.Equal(t, "tmp-*", util.FirstMatch(patterns, "tmp-servers.json"))
	assert.Equal(t, "*.json", util.FirstMatch(patterns, "servers.json"))
	assert.Empty(t, util.FirstMatch(patterns, "README.md"))
	assert.Empty(t, util.FirstMatch(nil, "servers.json"))
}

func TestSizeInMB(t *testing.T) {
	assert.Equal(t, 0.0, util.SizeInMB(0))
	assert.Equal(t, 1.0, util.SizeInMB(1024*1024))
	assert.Equal(t, 1.5, util.SizeInMB(1024*1024*3/2))
	assert.Equal(t, 0.01, util.SizeInMB(10*1024), "10 KiB rounds to two decimals")
	assert.Equal(t, 0.0, util.SizeInMB(1024), "1 KiB rounds down to zero")
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0", util.FormatCount(0))
	assert.Equal(t, "999", util.FormatCount(999))
	assert.Equal(t, "1,234", util.FormatCount(1234))
	assert.Equal(t, "1,234,567", util.FormatCount(1234567))
}
