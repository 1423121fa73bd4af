package langs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/polyscope/internal/extract"
)

// Test Plan for the Rust extractor:
// - Structs, traits, consts, and free functions; impl methods parent to the
//   implemented type when it is declared in the same file
// - pub maps to public, everything else to internal
// - "impl Trait for Type" becomes an implements relationship
// - use declarations become imports anchored to a file symbol

const rustSample = `use std::collections::HashMap;

const MAX_ITEMS: usize = 16;

pub trait Speak {
    fn speak(&self);
}

pub struct Dog {
    name: String,
}

impl Speak for Dog {
    fn speak(&self) {
        announce();
    }
}

fn announce() {
    println!("woof");
}
`

func TestRust_Symbols(t *testing.T) {
	t.Parallel()

	results := extractAll(t, "rust", "kennel.rs", rustSample)
	assert.Empty(t, results.Diagnostics)

	dog := requireSymbol(t, results, "Dog")
	assert.Equal(t, extract.SymbolStruct, dog.Kind)
	assert.Equal(t, extract.VisibilityPublic, dog.Visibility)

	trait := requireSymbol(t, results, "Speak")
	assert.Equal(t, extract.SymbolTrait, trait.Kind)

	speak := requireSymbol(t, results, "speak")
	assert.Equal(t, extract.SymbolMethod, speak.Kind)
	assert.Equal(t, dog.ID, speak.ParentID)

	announce := requireSymbol(t, results, "announce")
	assert.Equal(t, extract.SymbolFunction, announce.Kind)
	assert.Equal(t, extract.VisibilityInternal, announce.Visibility)

	items := requireSymbol(t, results, "MAX_ITEMS")
	assert.Equal(t, extract.SymbolConstant, items.Kind)
	assert.Equal(t, "integer", results.Types["MAX_ITEMS"])
}

func TestRust_IdentifiersAndRelationships(t *testing.T) {
	t.Parallel()

	results := extractAll(t, "rust", "kennel.rs", rustSample)

	_, ok := findIdentifier(results, extract.IdentifierImport, "std::collections::HashMap")
	assert.True(t, ok)

	dog := requireSymbol(t, results, "Dog")
	trait := requireSymbol(t, results, "Speak")

	impl, ok := findRelationship(results, extract.RelationshipImplements, trait.ID)
	require.True(t, ok, "impl Speak for Dog should resolve in-file")
	assert.Equal(t, dog.ID, impl.FromID)
	assert.Equal(t, 1.0, impl.Confidence)

	imports, ok := findRelationship(results, extract.RelationshipImports, "std::collections::HashMap")
	require.True(t, ok)
	assert.Equal(t, 1.0, imports.Confidence)

	announce := requireSymbol(t, results, "announce")
	call, ok := findRelationship(results, extract.RelationshipCalls, announce.ID)
	require.True(t, ok)
	assert.Equal(t, 0.8, call.Confidence)
}
