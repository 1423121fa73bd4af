package extract

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// The four capabilities every language module provides. Implementations must
// be safe to invoke repeatedly and concurrently across different files: the
// only state they may share is read-only pattern tables compiled once.

// SymbolExtractor extracts declared entities from a parsed tree.
// Emission is pre-order with respect to nesting, so a symbol's parent always
// appears earlier in the returned sequence. When the tree contains ERROR
// nodes the extractor returns whatever it can recover rather than failing.
type SymbolExtractor interface {
	ExtractSymbols(root *sitter.Node, file *File) []Symbol
}

// IdentifierExtractor extracts reference-site occurrences. It may consult
// the already-extracted symbols for containment lookup but must not mutate
// them.
type IdentifierExtractor interface {
	ExtractIdentifiers(root *sitter.Node, file *File, symbols []Symbol) []Identifier
}

// RelationshipExtractor extracts directed links between symbols. Targets may
// be referenced by resolved ID or by bare name for downstream linking.
type RelationshipExtractor interface {
	ExtractRelationships(root *sitter.Node, file *File, symbols []Symbol) []Relationship
}

// TypeInferrer produces best-effort coarse type tags. It never fails: an
// unknown case is omitted from the mapping, not marked erroneous.
type TypeInferrer interface {
	InferTypes(symbols []Symbol) TypeInfo
}

// LanguageExtractor is the full contract a language module satisfies.
// A module may also register individual capabilities; the pipeline consults
// each dispatch table independently.
type LanguageExtractor interface {
	SymbolExtractor
	IdentifierExtractor
	RelationshipExtractor
	TypeInferrer
}
