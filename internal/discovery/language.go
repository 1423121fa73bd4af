package discovery

import (
	"bytes"
	"path/filepath"
	"strings"
)

// extensionLanguages maps file extensions to registry language tags.
var extensionLanguages = map[string]string{
	".py":   "python",
	".go":   "go",
	".rb":   "ruby",
	".rs":   "rust",
	".c":    "c",
	".h":    "c",
	".java": "java",
	".php":  "php",
	".ts":   "typescript",
	".tsx":  "tsx",
	".js":   "javascript",
	".jsx":  "javascript",
	".mjs":  "javascript",
	".cjs":  "javascript",
}

// shebangLanguages maps interpreter names to language tags.
var shebangLanguages = map[string]string{
	"python":  "python",
	"python2": "python",
	"python3": "python",
	"ruby":    "ruby",
	"node":    "javascript",
	"php":     "php",
}

// DetectLanguage resolves a registry language tag for a file, preferring the
// extension and falling back to the shebang line for extensionless scripts.
// Returns "" when neither identifies a supported language; the manager turns
// that into an info diagnostic rather than an error.
func DetectLanguage(path string, source []byte) string {
	if ext := strings.ToLower(filepath.Ext(path)); ext != "" {
		if lang, ok := extensionLanguages[ext]; ok {
			return lang
		}
		return ""
	}
	return shebangLanguage(source)
}

// shebangLanguage inspects a "#!" first line for a known interpreter.
func shebangLanguage(source []byte) string {
	if !bytes.HasPrefix(source, []byte("#!")) {
		return ""
	}

	line := source
	if idx := bytes.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}

	fields := strings.Fields(string(line[2:]))
	if len(fields) == 0 {
		return ""
	}

	// "#!/usr/bin/env python3" names the interpreter in the second field.
	interp := filepath.Base(fields[0])
	if interp == "env" && len(fields) > 1 {
		interp = filepath.Base(fields[1])
	}

	return shebangLanguages[interp]
}
