package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// Test Plan for the language registry:
// - Register wires an extractor into every dispatch table it implements
// - Partial extractors (symbols only) register only their capabilities
// - Lookups for unregistered languages report absence, not errors
// - Supports/Languages reflect registered tags

// fullStub implements every extraction capability.
type fullStub struct{}

func (fullStub) ExtractSymbols(*sitter.Node, *File) []Symbol { return nil }
func (fullStub) ExtractIdentifiers(*sitter.Node, *File, []Symbol) []Identifier {
	return nil
}
func (fullStub) ExtractRelationships(*sitter.Node, *File, []Symbol) []Relationship {
	return nil
}
func (fullStub) InferTypes([]Symbol) TypeInfo { return nil }

// symbolsOnlyStub implements just symbol extraction.
type symbolsOnlyStub struct{}

func (symbolsOnlyStub) ExtractSymbols(*sitter.Node, *File) []Symbol { return nil }

func TestRegistry_RegisterAllCapabilities(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	grammar := sitter.NewLanguage(python.Language())
	reg.Register("python", grammar, fullStub{})

	g, ok := reg.Grammar("python")
	require.True(t, ok)
	assert.NotNil(t, g)

	_, ok = reg.Symbols("python")
	assert.True(t, ok)
	_, ok = reg.Identifiers("python")
	assert.True(t, ok)
	_, ok = reg.Relationships("python")
	assert.True(t, ok)
	_, ok = reg.Types("python")
	assert.True(t, ok)
}

func TestRegistry_PartialExtractor(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register("toy", sitter.NewLanguage(python.Language()), symbolsOnlyStub{})

	_, ok := reg.Symbols("toy")
	assert.True(t, ok)

	_, ok = reg.Identifiers("toy")
	assert.False(t, ok)
	_, ok = reg.Relationships("toy")
	assert.False(t, ok)
	_, ok = reg.Types("toy")
	assert.False(t, ok)
}

func TestRegistry_UnknownLanguage(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	assert.False(t, reg.Supports("cobol"))

	_, ok := reg.Grammar("cobol")
	assert.False(t, ok)
	_, ok = reg.Symbols("cobol")
	assert.False(t, ok)
}

func TestRegistry_Languages(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	grammar := sitter.NewLanguage(python.Language())
	reg.Register("python", grammar, fullStub{})
	reg.Register("toy", grammar, symbolsOnlyStub{})

	langs := reg.Languages()
	assert.ElementsMatch(t, []string{"python", "toy"}, langs)
	assert.True(t, reg.Supports("python"))
	assert.True(t, reg.Supports("toy"))
}
