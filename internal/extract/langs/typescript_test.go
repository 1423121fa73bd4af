package langs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/polyscope/internal/extract"
)

// Test Plan for the TypeScript extractor:
// - Classes, interfaces, enums, type aliases, and top-level declarations
// - Accessibility modifiers beat the naming heuristic; _name maps to protected
// - extends/implements heritage clauses become relationships
// - Function locals are skipped; class fields keep their initializer
// - The same extractor serves plain JavaScript through the superset grammar

const tsSample = `import { Point } from "./geometry";

const MAX_DEPTH = 8;

interface Drawable {
  draw(): void;
}

class Base {
  protected label = "base";
}

class Circle extends Base implements Drawable {
  radius = 1.5;

  draw(): void {
    this.render();
  }

  private render(): void {}

  _touch(): void {}
}

function main(): void {
  const c = new Circle();
  c.draw();
}
`

func TestTypeScript_Symbols(t *testing.T) {
	t.Parallel()

	results := extractAll(t, "typescript", "scene.ts", tsSample)
	assert.Empty(t, results.Diagnostics)

	maxDepth := requireSymbol(t, results, "MAX_DEPTH")
	assert.Equal(t, extract.SymbolConstant, maxDepth.Kind)
	assert.Equal(t, "integer", results.Types["MAX_DEPTH"])

	drawable := requireSymbol(t, results, "Drawable")
	assert.Equal(t, extract.SymbolInterface, drawable.Kind)

	circle := requireSymbol(t, results, "Circle")
	assert.Equal(t, extract.SymbolClass, circle.Kind)

	radius := requireSymbol(t, results, "radius")
	assert.Equal(t, extract.SymbolProperty, radius.Kind)
	assert.Equal(t, circle.ID, radius.ParentID)
	assert.Equal(t, "float", results.Types["radius"])

	label := requireSymbol(t, results, "label")
	assert.Equal(t, extract.VisibilityProtected, label.Visibility, "explicit protected modifier")

	draw := requireSymbol(t, results, "draw")
	assert.Equal(t, extract.SymbolMethod, draw.Kind)
	assert.Equal(t, extract.VisibilityPublic, draw.Visibility)

	render := requireSymbol(t, results, "render")
	assert.Equal(t, extract.VisibilityPrivate, render.Visibility, "explicit private modifier")

	touch := requireSymbol(t, results, "_touch")
	assert.Equal(t, extract.VisibilityProtected, touch.Visibility, "underscore convention")

	// Locals inside main stay out of the symbol table.
	_, ok := findSymbol(results, "c")
	assert.False(t, ok)
}

func TestTypeScript_Relationships(t *testing.T) {
	t.Parallel()

	results := extractAll(t, "typescript", "scene.ts", tsSample)

	base := requireSymbol(t, results, "Base")
	drawable := requireSymbol(t, results, "Drawable")
	circle := requireSymbol(t, results, "Circle")

	extends, ok := findRelationship(results, extract.RelationshipExtends, base.ID)
	require.True(t, ok, "Circle extends Base should resolve in-file")
	assert.Equal(t, circle.ID, extends.FromID)
	assert.Equal(t, 1.0, extends.Confidence)

	implements, ok := findRelationship(results, extract.RelationshipImplements, drawable.ID)
	require.True(t, ok, "Circle implements Drawable should resolve in-file")
	assert.Equal(t, circle.ID, implements.FromID)
	assert.Equal(t, 1.0, implements.Confidence)

	_, ok = findIdentifier(results, extract.IdentifierImport, "./geometry")
	assert.True(t, ok)

	draw := requireSymbol(t, results, "draw")
	call, ok := findRelationship(results, extract.RelationshipCalls, draw.ID)
	require.True(t, ok, "c.draw() should resolve by name")
	assert.Equal(t, 0.8, call.Confidence)
}

func TestJavaScript_SharesGrammar(t *testing.T) {
	t.Parallel()

	source := "function greet(name) {\n  return 'hi ' + name;\n}\n\nconst RETRIES = 2;\n"
	results := extractAll(t, "javascript", "greet.js", source)

	assert.Empty(t, results.Diagnostics)

	greet := requireSymbol(t, results, "greet")
	assert.Equal(t, extract.SymbolFunction, greet.Kind)

	retries := requireSymbol(t, results, "RETRIES")
	assert.Equal(t, extract.SymbolConstant, retries.Kind)
	assert.Equal(t, "integer", results.Types["RETRIES"])
}
