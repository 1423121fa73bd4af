package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test Plan for CLI helpers:
// - watchedExtensions derives a deduplicated extension filter from globs
// - Command wiring registers extract, watch, and version under the root

func TestWatchedExtensions(t *testing.T) {
	t.Parallel()

	exts := watchedExtensions([]string{
		"**/*.py",
		"src/**/*.py",
		"**/*.go",
		"docs/**",
		"Makefile",
	})

	assert.ElementsMatch(t, []string{".py", ".go"}, exts)
}

func TestRootCommandWiring(t *testing.T) {
	t.Parallel()

	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	assert.True(t, names["extract"])
	assert.True(t, names["watch"])
	assert.True(t, names["version"])
}
