package langs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/polyscope/internal/extract"
)

// extractAll runs the full pipeline over one in-memory file through the
// default registry.
func extractAll(t *testing.T, language, path, source string) *extract.ExtractionResults {
	t.Helper()

	m := extract.NewManager(Default())
	results := m.ExtractFile(context.Background(), &extract.File{
		Path:     path,
		Source:   []byte(source),
		Language: language,
	})
	require.NotNil(t, results)
	return results
}

// findSymbol returns the first symbol with the given name.
func findSymbol(results *extract.ExtractionResults, name string) (extract.Symbol, bool) {
	for _, sym := range results.Symbols {
		if sym.Name == name {
			return sym, true
		}
	}
	return extract.Symbol{}, false
}

// requireSymbol fails the test when the named symbol is missing.
func requireSymbol(t *testing.T, results *extract.ExtractionResults, name string) extract.Symbol {
	t.Helper()
	sym, ok := findSymbol(results, name)
	require.True(t, ok, "expected symbol %q, have %v", name, symbolNames(results))
	return sym
}

func symbolNames(results *extract.ExtractionResults) []string {
	names := make([]string, 0, len(results.Symbols))
	for _, sym := range results.Symbols {
		names = append(names, sym.Name)
	}
	return names
}

// findRelationship returns the first relationship of the given kind whose
// resolved target or carried name matches to.
func findRelationship(results *extract.ExtractionResults, kind extract.RelationshipKind, to string) (extract.Relationship, bool) {
	for _, rel := range results.Relationships {
		if rel.Kind != kind {
			continue
		}
		if rel.ToID == to || rel.ToName == to {
			return rel, true
		}
	}
	return extract.Relationship{}, false
}

// findIdentifier returns the first identifier with the given kind and name.
func findIdentifier(results *extract.ExtractionResults, kind extract.IdentifierKind, name string) (extract.Identifier, bool) {
	for _, id := range results.Identifiers {
		if id.Kind == kind && id.Name == name {
			return id, true
		}
	}
	return extract.Identifier{}, false
}
