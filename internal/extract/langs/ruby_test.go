package langs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/polyscope/internal/extract"
)

// Test Plan for the Ruby extractor:
// - Classes, modules, and methods with parent links; top-level defs are
//   functions
// - Capitalized assignment targets become constants with inferred types
// - require calls become imports; superclasses become extends relationships
// - Calls resolve in-file at 0.8 and travel unresolved at 0.6

const rubySample = `require "json"

MAX_DEPTH = 5

class Animal
  def speak
    puts "..."
  end
end

class Dog < Animal
  def bark
    speak()
  end
end
`

func TestRuby_Symbols(t *testing.T) {
	t.Parallel()

	results := extractAll(t, "ruby", "kennel.rb", rubySample)
	assert.Empty(t, results.Diagnostics)

	animal := requireSymbol(t, results, "Animal")
	assert.Equal(t, extract.SymbolClass, animal.Kind)

	speak := requireSymbol(t, results, "speak")
	assert.Equal(t, extract.SymbolMethod, speak.Kind)
	assert.Equal(t, animal.ID, speak.ParentID)

	depth := requireSymbol(t, results, "MAX_DEPTH")
	assert.Equal(t, extract.SymbolConstant, depth.Kind)
	assert.Equal(t, "5", depth.Metadata[extract.MetadataValue])
	assert.Equal(t, "integer", results.Types["MAX_DEPTH"])
}

func TestRuby_IdentifiersAndRelationships(t *testing.T) {
	t.Parallel()

	results := extractAll(t, "ruby", "kennel.rb", rubySample)

	_, ok := findIdentifier(results, extract.IdentifierImport, "json")
	assert.True(t, ok, "require should be recorded as an import")
	_, ok = findIdentifier(results, extract.IdentifierCall, "puts")
	assert.True(t, ok)

	animal := requireSymbol(t, results, "Animal")
	dog := requireSymbol(t, results, "Dog")

	extends, ok := findRelationship(results, extract.RelationshipExtends, animal.ID)
	require.True(t, ok, "Dog < Animal should resolve in-file")
	assert.Equal(t, dog.ID, extends.FromID)
	assert.Equal(t, 1.0, extends.Confidence)

	imports, ok := findRelationship(results, extract.RelationshipImports, "json")
	require.True(t, ok)
	assert.Equal(t, 1.0, imports.Confidence)

	speak := requireSymbol(t, results, "speak")
	call, ok := findRelationship(results, extract.RelationshipCalls, speak.ID)
	require.True(t, ok, "speak() should resolve to the in-file method")
	assert.Equal(t, 0.8, call.Confidence)

	unresolved, ok := findRelationship(results, extract.RelationshipCalls, "puts")
	require.True(t, ok)
	assert.Empty(t, unresolved.ToID)
	assert.Equal(t, 0.6, unresolved.Confidence)
}
