package extract

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Registry routes a language tag to the grammar and extractor capabilities
// registered for it. Symbols, identifiers, relationships, and type inference
// are dispatched through independent tables so a caller can run only the
// stages it needs (e.g. a symbols-only fast pass).
//
// Registration happens once at startup; after that the registry is read-only
// and safe to share across concurrent extractions. Adding a language is
// purely additive: one Register call, no existing entry touched.
type Registry struct {
	grammars      map[string]*sitter.Language
	symbols       map[string]SymbolExtractor
	identifiers   map[string]IdentifierExtractor
	relationships map[string]RelationshipExtractor
	types         map[string]TypeInferrer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		grammars:      make(map[string]*sitter.Language),
		symbols:       make(map[string]SymbolExtractor),
		identifiers:   make(map[string]IdentifierExtractor),
		relationships: make(map[string]RelationshipExtractor),
		types:         make(map[string]TypeInferrer),
	}
}

// Register wires a language tag to its grammar and extractor. The extractor
// is entered into each dispatch table for the capabilities it implements, so
// partial implementations (symbols only, say) are valid registrations.
func (r *Registry) Register(language string, grammar *sitter.Language, extractor any) {
	r.grammars[language] = grammar

	if se, ok := extractor.(SymbolExtractor); ok {
		r.symbols[language] = se
	}
	if ie, ok := extractor.(IdentifierExtractor); ok {
		r.identifiers[language] = ie
	}
	if re, ok := extractor.(RelationshipExtractor); ok {
		r.relationships[language] = re
	}
	if ti, ok := extractor.(TypeInferrer); ok {
		r.types[language] = ti
	}
}

// Grammar returns the tree-sitter grammar for a language tag.
func (r *Registry) Grammar(language string) (*sitter.Language, bool) {
	g, ok := r.grammars[language]
	return g, ok
}

// Symbols returns the symbol extractor for a language tag.
func (r *Registry) Symbols(language string) (SymbolExtractor, bool) {
	e, ok := r.symbols[language]
	return e, ok
}

// Identifiers returns the identifier extractor for a language tag.
func (r *Registry) Identifiers(language string) (IdentifierExtractor, bool) {
	e, ok := r.identifiers[language]
	return e, ok
}

// Relationships returns the relationship extractor for a language tag.
func (r *Registry) Relationships(language string) (RelationshipExtractor, bool) {
	e, ok := r.relationships[language]
	return e, ok
}

// Types returns the type inferrer for a language tag.
func (r *Registry) Types(language string) (TypeInferrer, bool) {
	e, ok := r.types[language]
	return e, ok
}

// Supports reports whether any capability is registered for the language.
// An unsupported language is not an error condition: extraction of such a
// file yields empty results.
func (r *Registry) Supports(language string) bool {
	_, ok := r.grammars[language]
	return ok
}

// Languages returns the registered language tags.
func (r *Registry) Languages() []string {
	langs := make([]string, 0, len(r.grammars))
	for l := range r.grammars {
		langs = append(langs, l)
	}
	return langs
}
