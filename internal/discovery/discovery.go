// Package discovery finds source files under a root directory and turns them
// into extraction inputs: raw bytes plus a detected language tag.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/mvp-joe/polyscope/internal/extract"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Discovery walks a directory tree applying include and ignore glob patterns.
type Discovery struct {
	rootDir         string
	includePatterns []compiledPattern
	ignorePatterns  []compiledPattern
}

// New creates a discovery instance for the given root directory. Patterns
// are compiled up front so a bad pattern fails fast.
func New(rootDir string, includePatterns, ignorePatterns []string) (*Discovery, error) {
	d := &Discovery{
		rootDir: rootDir,
	}

	for _, pattern := range includePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		d.includePatterns = append(d.includePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		d.ignorePatterns = append(d.ignorePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	return d, nil
}

// Discover walks the tree and returns the paths of files that match an
// include pattern and no ignore pattern, in walk order.
func (d *Discovery) Discover() ([]string, error) {
	paths := []string{}

	err := filepath.Walk(d.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(d.rootDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if d.shouldIgnore(relPath) {
			return nil
		}
		if d.matchesAnyPattern(relPath, d.includePatterns) {
			paths = append(paths, path)
		}
		return nil
	})

	return paths, err
}

// LoadFile reads one discovered path into an extraction input, detecting the
// language from the extension or, failing that, the shebang line.
func LoadFile(path string) (*extract.File, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return &extract.File{
		Path:     path,
		Source:   source,
		Language: DetectLanguage(path, source),
	}, nil
}

// shouldIgnore checks if a path matches any ignore pattern.
func (d *Discovery) shouldIgnore(relPath string) bool {
	// Always skip polyscope's own state directory.
	if strings.HasPrefix(relPath, ".polyscope/") || relPath == ".polyscope" {
		return true
	}

	if d.matchesAnyPattern(relPath, d.ignorePatterns) {
		return true
	}

	// A directory prefix should match its /** ignore pattern, so
	// "node_modules/pkg/index.js" is caught by "node_modules/**".
	return d.matchesAnyPattern(relPath+"/**", d.ignorePatterns)
}

// matchesAnyPattern checks if a path matches any of the given patterns.
func (d *Discovery) matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	// Root-level files have no slash, so "**/*.py" would miss "main.py".
	// Retry those against the pattern with the **/ prefix dropped.
	if !strings.Contains(path, "/") {
		for _, cp := range patterns {
			if strings.HasPrefix(cp.pattern, "**/") {
				simplified := strings.TrimPrefix(cp.pattern, "**/")
				if g, err := glob.Compile(simplified, '/'); err == nil && g.Match(path) {
					return true
				}
			}
		}
	}

	return false
}
