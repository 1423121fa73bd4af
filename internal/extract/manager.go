package extract

import (
	"context"
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Stages selects which pipeline stages run for a file. Later stages consume
// earlier stages' output, so enabling identifiers, relationships, or types
// implies running symbols first.
type Stages struct {
	Symbols       bool
	Identifiers   bool
	Relationships bool
	Types         bool
}

// AllStages runs the full pipeline.
func AllStages() Stages {
	return Stages{Symbols: true, Identifiers: true, Relationships: true, Types: true}
}

// SymbolsOnly is the fast path for an initial index.
func SymbolsOnly() Stages {
	return Stages{Symbols: true}
}

// Manager orchestrates one file's extraction pipeline: parse, then symbols,
// identifiers, relationships, and type inference in that fixed order.
// Failures are isolated at file granularity: a parse failure or extractor
// fault becomes a diagnostic on that file's results and never aborts a batch.
type Manager struct {
	registry *Registry
}

// NewManager creates a Manager dispatching through the given registry.
func NewManager(registry *Registry) *Manager {
	return &Manager{registry: registry}
}

// ExtractFile runs the full pipeline over one file.
func (m *Manager) ExtractFile(ctx context.Context, file *File) *ExtractionResults {
	return m.Extract(ctx, file, AllStages())
}

// Extract runs the selected pipeline stages over one file. It always returns
// results: on failure they carry whatever was produced before the failure
// plus a diagnostic describing it.
func (m *Manager) Extract(ctx context.Context, file *File, stages Stages) *ExtractionResults {
	results := &ExtractionResults{
		FilePath:      file.Path,
		Language:      file.Language,
		Symbols:       []Symbol{},
		Identifiers:   []Identifier{},
		Relationships: []Relationship{},
		Types:         TypeInfo{},
		Diagnostics:   []Diagnostic{},
	}

	if err := ctx.Err(); err != nil {
		results.Diagnostics = append(results.Diagnostics, Diagnostic{
			File:     file.Path,
			Message:  fmt.Sprintf("extraction skipped: %v", err),
			Severity: SeverityWarning,
		})
		return results
	}

	grammar, ok := m.registry.Grammar(file.Language)
	if !ok {
		// Absence of language support is not a failure condition.
		results.Diagnostics = append(results.Diagnostics, Diagnostic{
			File:     file.Path,
			Message:  fmt.Sprintf("no extractor registered for language %q", file.Language),
			Severity: SeverityInfo,
		})
		return results
	}

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(grammar); err != nil {
		results.Diagnostics = append(results.Diagnostics, Diagnostic{
			File:     file.Path,
			Message:  fmt.Sprintf("incompatible grammar for language %q: %v", file.Language, err),
			Severity: SeverityError,
		})
		return results
	}

	tree := parser.Parse(file.Source, nil)
	if tree == nil {
		results.Diagnostics = append(results.Diagnostics, Diagnostic{
			File:     file.Path,
			Message:  "parser produced no syntax tree",
			Severity: SeverityError,
		})
		return results
	}
	defer tree.Close()

	root := tree.RootNode()

	// Trees with recovery nodes still go through the pipeline: extractors
	// recover what they can and the tree state is surfaced as a diagnostic.
	if root.HasError() {
		results.Diagnostics = append(results.Diagnostics, Diagnostic{
			File:     file.Path,
			Message:  "syntax tree contains error nodes; extraction is best-effort",
			Severity: SeverityWarning,
		})
	}

	runSymbols := stages.Symbols || stages.Identifiers || stages.Relationships || stages.Types

	if runSymbols {
		if se, ok := m.registry.Symbols(file.Language); ok {
			m.runStage(results, "symbol", func() {
				results.Symbols = se.ExtractSymbols(root, file)
			})
		}
	}

	if stages.Identifiers {
		if ie, ok := m.registry.Identifiers(file.Language); ok {
			m.runStage(results, "identifier", func() {
				results.Identifiers = ie.ExtractIdentifiers(root, file, results.Symbols)
			})
		}
	}

	if stages.Relationships {
		if re, ok := m.registry.Relationships(file.Language); ok {
			m.runStage(results, "relationship", func() {
				results.Relationships = re.ExtractRelationships(root, file, results.Symbols)
			})
		}
	}

	if stages.Types {
		if ti, ok := m.registry.Types(file.Language); ok {
			m.runStage(results, "type inference", func() {
				results.Types = ti.InferTypes(results.Symbols)
			})
		}
	}

	if results.Symbols == nil {
		results.Symbols = []Symbol{}
	}
	if results.Identifiers == nil {
		results.Identifiers = []Identifier{}
	}
	if results.Relationships == nil {
		results.Relationships = []Relationship{}
	}
	if results.Types == nil {
		results.Types = TypeInfo{}
	}

	return results
}

// runStage executes one pipeline stage, converting an extractor fault into a
// diagnostic so a single misbehaving language module cannot take down a
// batch. Partial results accumulated before the fault are kept.
func (m *Manager) runStage(results *ExtractionResults, stage string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			results.Diagnostics = append(results.Diagnostics, Diagnostic{
				File:     results.FilePath,
				Message:  fmt.Sprintf("%s extraction failed: %v", stage, r),
				Severity: SeverityError,
			})
		}
	}()
	fn()
}
