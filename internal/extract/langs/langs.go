// Package langs holds the built-in language extractors. Each language wires
// its tree-sitter grammar and an extractor satisfying the capability contract
// into a shared registry; adding a language is one more Register call.
package langs

import (
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	golang "github.com/tree-sitter/tree-sitter-go/bindings/go"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/mvp-joe/polyscope/internal/extract"
)

var (
	defaultOnce sync.Once
	defaultReg  *extract.Registry
)

// Default returns the shared registry with every built-in language wired in.
// It is built lazily on first use and read-only afterwards, so concurrent
// extractions dispatch through it without locks.
func Default() *extract.Registry {
	defaultOnce.Do(func() {
		defaultReg = extract.NewRegistry()
		Register(defaultReg)
	})
	return defaultReg
}

// Register wires all built-in languages into reg.
func Register(reg *extract.Registry) {
	tsGrammar := sitter.NewLanguage(typescript.LanguageTypescript())

	reg.Register("python", sitter.NewLanguage(python.Language()), &pythonExtractor{})
	reg.Register("go", sitter.NewLanguage(golang.Language()), &goExtractor{})
	reg.Register("ruby", sitter.NewLanguage(ruby.Language()), &rubyExtractor{})
	reg.Register("rust", sitter.NewLanguage(rust.Language()), &rustExtractor{})
	reg.Register("c", sitter.NewLanguage(c.Language()), &cExtractor{})
	reg.Register("java", sitter.NewLanguage(java.Language()), &javaExtractor{})
	reg.Register("php", sitter.NewLanguage(php.LanguagePHP()), &phpExtractor{})
	reg.Register("typescript", tsGrammar, &typescriptExtractor{})
	reg.Register("tsx", sitter.NewLanguage(typescript.LanguageTSX()), &typescriptExtractor{})
	// The TypeScript grammar is a superset of JavaScript; plain JS parses
	// through it.
	reg.Register("javascript", tsGrammar, &typescriptExtractor{})
}
