package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for file discovery:
// - Include patterns select files; ignore patterns and .polyscope are skipped
// - Directory-prefix ignores ("vendor/**") exclude whole subtrees
// - Root-level files match "**/*.ext" patterns
// - Language detection: extension first, shebang fallback, "" for unknown
// - LoadFile produces a ready extraction input
// - Invalid patterns fail at construction

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDiscovery_Discover(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	keepMain := writeFile(t, root, "main.py", "x = 1\n")
	keepNested := writeFile(t, root, "src/app/service.py", "y = 2\n")
	writeFile(t, root, "vendor/lib/dep.py", "z = 3\n")
	writeFile(t, root, ".polyscope/config.yml", "output:\n  pretty: true\n")
	writeFile(t, root, "README.md", "# readme\n")

	d, err := New(root, []string{"**/*.py"}, []string{"vendor/**"})
	require.NoError(t, err)

	paths, err := d.Discover()
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{keepMain, keepNested}, paths)
}

func TestDiscovery_IgnoreDirectoryPrefix(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "node_modules/pkg/deep/index.js", "module.exports = {}\n")
	keep := writeFile(t, root, "app/index.js", "export {}\n")

	d, err := New(root, []string{"**/*.js"}, []string{"node_modules/**"})
	require.NoError(t, err)

	paths, err := d.Discover()
	require.NoError(t, err)
	assert.Equal(t, []string{keep}, paths)
}

func TestDiscovery_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := New(t.TempDir(), []string{"[unclosed"}, nil)
	assert.Error(t, err)

	_, err = New(t.TempDir(), nil, []string{"[unclosed"})
	assert.Error(t, err)
}

func TestDetectLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path   string
		source string
		want   string
	}{
		{"app/main.py", "", "python"},
		{"pkg/server.go", "", "go"},
		{"web/View.tsx", "", "tsx"},
		{"web/util.js", "", "javascript"},
		{"core/alloc.h", "", "c"},
		{"Svc.JAVA", "", "java"},
		{"notes.txt", "", ""},
		{"bin/deploy", "#!/usr/bin/env python3\nprint('hi')\n", "python"},
		{"bin/hook", "#!/usr/bin/ruby\nputs 'hi'\n", "ruby"},
		{"bin/serve", "#!/usr/bin/env node\n", "javascript"},
		{"bin/run", "#!/bin/sh\necho hi\n", ""},
		{"bin/data", "not a script", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectLanguage(tt.path, []byte(tt.source)), "path %q", tt.path)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := writeFile(t, root, "tool.py", "VERSION = 1\n")

	file, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, path, file.Path)
	assert.Equal(t, "python", file.Language)
	assert.Equal(t, "VERSION = 1\n", string(file.Source))

	_, err = LoadFile(filepath.Join(root, "missing.py"))
	assert.Error(t, err)
}
