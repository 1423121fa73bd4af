package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// Test Plan for the shared extraction utilities:
// - Deterministic IDs: same file/position/name/kind always hashes to the same ID
// - SymbolBuilder fills visibility and parent from context when not provided
// - NodeText degrades to "" on out-of-bounds or mid-rune byte ranges
// - DocComment only picks up comments directly adjacent to a declaration,
//   including above a decorated declaration's wrapper
// - InferVisibility follows the #/_ naming conventions
// - DecoratorName strips markers and parameter text

func parsePython(t *testing.T, source string) *sitter.Node {
	t.Helper()

	parser := sitter.NewParser()
	require.NoError(t, parser.SetLanguage(sitter.NewLanguage(python.Language())))

	tree := parser.Parse([]byte(source), nil)
	require.NotNil(t, tree)
	t.Cleanup(func() {
		tree.Close()
		parser.Close()
	})
	return tree.RootNode()
}

func TestSymbolBuilder_DeterministicIDs(t *testing.T) {
	t.Parallel()

	source := "def add(a, b):\n    return a + b\n"
	file := &File{Path: "calc.py", Source: []byte(source), Language: "python"}

	build := func() Symbol {
		root := parsePython(t, source)
		fn := FindChildByKind(root, "function_definition")
		require.NotNil(t, fn)
		return NewSymbolBuilder(file).Symbol(fn, "add", SymbolFunction, SymbolOptions{})
	}

	first := build()
	second := build()
	assert.Equal(t, first.ID, second.ID, "same inputs must produce the same ID")
	assert.NotEmpty(t, first.ID)

	// A different path changes the identity.
	other := &File{Path: "other.py", Source: []byte(source), Language: "python"}
	root := parsePython(t, source)
	fn := FindChildByKind(root, "function_definition")
	moved := NewSymbolBuilder(other).Symbol(fn, "add", SymbolFunction, SymbolOptions{})
	assert.NotEqual(t, first.ID, moved.ID)
}

func TestSymbolBuilder_ContextDefaults(t *testing.T) {
	t.Parallel()

	source := "def run():\n    pass\n"
	file := &File{Path: "job.py", Source: []byte(source), Language: "python"}
	root := parsePython(t, source)
	fn := FindChildByKind(root, "function_definition")
	require.NotNil(t, fn)

	b := NewSymbolBuilder(file)
	b.Context().Push("parent-id")

	sym := b.Symbol(fn, "run", SymbolFunction, SymbolOptions{})
	assert.Equal(t, "parent-id", sym.ParentID, "parent falls back to the context stack")
	assert.Equal(t, VisibilityPublic, sym.Visibility)
	assert.Equal(t, "python", sym.Language)
	assert.Equal(t, 1, sym.Span.StartLine, "lines are 1-indexed")

	// Explicit options win over context.
	explicit := b.Symbol(fn, "run", SymbolFunction, SymbolOptions{
		Visibility: VisibilityPrivate,
		ParentID:   "other",
	})
	assert.Equal(t, VisibilityPrivate, explicit.Visibility)
	assert.Equal(t, "other", explicit.ParentID)
}

func TestUnresolvedRelationship_ClampsConfidence(t *testing.T) {
	t.Parallel()

	source := "x = 1\n"
	file := &File{Path: "m.py", Source: []byte(source), Language: "python"}
	root := parsePython(t, source)
	b := NewSymbolBuilder(file)

	low := b.UnresolvedRelationship(root, "from", "target", RelationshipCalls, -0.5)
	assert.Equal(t, 0.0, low.Confidence)

	high := b.UnresolvedRelationship(root, "from", "target", RelationshipCalls, 1.5)
	assert.Equal(t, 1.0, high.Confidence)

	resolved := b.Relationship(root, "from", "to", RelationshipExtends)
	assert.Equal(t, 1.0, resolved.Confidence)
	assert.Equal(t, "to", resolved.ToID)
}

func TestSliceText_Boundaries(t *testing.T) {
	t.Parallel()

	source := []byte("héllo")

	tests := []struct {
		name       string
		start, end uint
		want       string
	}{
		{"full range", 0, 6, "héllo"},
		{"ascii prefix", 0, 1, "h"},
		{"start after end", 4, 2, ""},
		{"end past buffer", 0, 99, ""},
		{"end splits rune", 0, 2, ""},
		{"start splits rune", 2, 6, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sliceText(source, tt.start, tt.end))
		})
	}
}

func TestDocComment_Adjacency(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "comment directly above",
			source: "# adds two numbers\ndef add(a, b):\n    return a + b\n",
			want:   "adds two numbers",
		},
		{
			name:   "multi-line block",
			source: "# first line\n# second line\ndef add(a, b):\n    return a + b\n",
			want:   "first line\nsecond line",
		},
		{
			name:   "blank line breaks attachment",
			source: "# stale note\n\n\ndef add(a, b):\n    return a + b\n",
			want:   "",
		},
		{
			name:   "no comment at all",
			source: "def add(a, b):\n    return a + b\n",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			root := parsePython(t, tt.source)
			fn := FindChildByKind(root, "function_definition")
			require.NotNil(t, fn)
			assert.Equal(t, tt.want, DocComment(fn, []byte(tt.source)))
		})
	}
}

func TestDocComment_DecoratedDeclaration(t *testing.T) {
	t.Parallel()

	// The comment sits above the decorator, so the def's own previous
	// sibling chain never reaches it without climbing to the wrapper.
	source := "# builds the kennel\n@lru_cache\ndef build():\n    pass\n"
	root := parsePython(t, source)

	decorated := FindChildByKind(root, "decorated_definition")
	require.NotNil(t, decorated)
	fn := FindChildByKind(decorated, "function_definition")
	require.NotNil(t, fn)

	assert.Equal(t, "builds the kennel", DocComment(fn, []byte(source)))

	// A blank line still breaks the attachment.
	stale := "# stale note\n\n\n@lru_cache\ndef build():\n    pass\n"
	root = parsePython(t, stale)
	fn = FindChildByKind(FindChildByKind(root, "decorated_definition"), "function_definition")
	require.NotNil(t, fn)
	assert.Equal(t, "", DocComment(fn, []byte(stale)))
}

func TestInferVisibility(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fallback Visibility
		want     Visibility
	}{
		{"#secret", VisibilityPublic, VisibilityPrivate},
		{"_helper", VisibilityPublic, VisibilityProtected},
		{"plain", VisibilityPublic, VisibilityPublic},
		{"plain", VisibilityInternal, VisibilityInternal},
		{"plain", "", VisibilityPublic},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, InferVisibility(tt.name, tt.fallback), "name %q fallback %q", tt.name, tt.fallback)
	}
}

func TestDecoratorName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want string
	}{
		{"@lru_cache(maxsize=128)", "lru_cache"},
		{"@property", "property"},
		{"@app.route('/users')", "app.route"},
		{"#[derive(Debug)]", "derive"},
		{"@Override", "Override"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DecoratorName(tt.text), "decorator %q", tt.text)
	}
}
