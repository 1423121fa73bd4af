package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// Test Plan for the extraction manager:
// - Stages run in the fixed symbols -> identifiers -> relationships -> types order
// - Enabling a later stage implies running symbols first
// - Unregistered languages yield empty results plus an info diagnostic
// - A cancelled context yields a warning diagnostic without parsing
// - An extractor panic becomes a per-file error diagnostic, never a crash
// - Broken source is surfaced as a warning while extraction stays best-effort

// recordingStub notes which stages ran, in order.
type recordingStub struct {
	stages []string
}

func (r *recordingStub) ExtractSymbols(*sitter.Node, *File) []Symbol {
	r.stages = append(r.stages, "symbols")
	return []Symbol{{ID: "s1", Name: "stub", Kind: SymbolFunction, Visibility: VisibilityPublic}}
}

func (r *recordingStub) ExtractIdentifiers(*sitter.Node, *File, []Symbol) []Identifier {
	r.stages = append(r.stages, "identifiers")
	return nil
}

func (r *recordingStub) ExtractRelationships(*sitter.Node, *File, []Symbol) []Relationship {
	r.stages = append(r.stages, "relationships")
	return nil
}

func (r *recordingStub) InferTypes([]Symbol) TypeInfo {
	r.stages = append(r.stages, "types")
	return nil
}

// panicStub faults during symbol extraction.
type panicStub struct{}

func (panicStub) ExtractSymbols(*sitter.Node, *File) []Symbol {
	panic("stub fault")
}

func newTestManager(t *testing.T, extractor any) *Manager {
	t.Helper()
	reg := NewRegistry()
	reg.Register("python", sitter.NewLanguage(python.Language()), extractor)
	return NewManager(reg)
}

func pyFile(source string) *File {
	return &File{Path: "sample.py", Source: []byte(source), Language: "python"}
}

func TestManager_StageOrder(t *testing.T) {
	t.Parallel()

	stub := &recordingStub{}
	m := newTestManager(t, stub)

	results := m.ExtractFile(context.Background(), pyFile("x = 1\n"))

	require.NotNil(t, results)
	assert.Empty(t, results.Diagnostics)
	assert.Equal(t, []string{"symbols", "identifiers", "relationships", "types"}, stub.stages)
	assert.Len(t, results.Symbols, 1)
}

func TestManager_StageSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		stages Stages
		want   []string
	}{
		{"symbols only", SymbolsOnly(), []string{"symbols"}},
		{"types imply symbols", Stages{Types: true}, []string{"symbols", "types"}},
		{"identifiers imply symbols", Stages{Identifiers: true}, []string{"symbols", "identifiers"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			stub := &recordingStub{}
			m := newTestManager(t, stub)

			m.Extract(context.Background(), pyFile("x = 1\n"), tt.stages)
			assert.Equal(t, tt.want, stub.stages)
		})
	}
}

func TestManager_UnknownLanguage(t *testing.T) {
	t.Parallel()

	m := NewManager(NewRegistry())
	file := &File{Path: "report.cob", Source: []byte("DISPLAY 'HI'."), Language: "cobol"}

	results := m.ExtractFile(context.Background(), file)

	require.NotNil(t, results)
	assert.Empty(t, results.Symbols)
	assert.Empty(t, results.Identifiers)
	assert.Empty(t, results.Relationships)

	require.Len(t, results.Diagnostics, 1)
	assert.Equal(t, SeverityInfo, results.Diagnostics[0].Severity)
	assert.Contains(t, results.Diagnostics[0].Message, `"cobol"`)
}

func TestManager_CancelledContext(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, &recordingStub{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := m.ExtractFile(ctx, pyFile("x = 1\n"))

	require.Len(t, results.Diagnostics, 1)
	assert.Equal(t, SeverityWarning, results.Diagnostics[0].Severity)
	assert.Contains(t, results.Diagnostics[0].Message, "extraction skipped")
	assert.Empty(t, results.Symbols)
}

func TestManager_PanicIsolation(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, panicStub{})

	results := m.ExtractFile(context.Background(), pyFile("x = 1\n"))

	require.NotNil(t, results, "a faulting extractor must not crash the pipeline")
	require.Len(t, results.Diagnostics, 1)
	assert.Equal(t, SeverityError, results.Diagnostics[0].Severity)
	assert.Contains(t, results.Diagnostics[0].Message, "symbol extraction failed")
	assert.Contains(t, results.Diagnostics[0].Message, "stub fault")

	// Results stay usable after the fault.
	assert.NotNil(t, results.Symbols)
	assert.NotNil(t, results.Types)
}

func TestManager_BrokenSourceIsBestEffort(t *testing.T) {
	t.Parallel()

	stub := &recordingStub{}
	m := newTestManager(t, stub)

	results := m.ExtractFile(context.Background(), pyFile("def broken(:\n"))

	var warned bool
	for _, d := range results.Diagnostics {
		if d.Severity == SeverityWarning {
			warned = true
		}
		assert.NotEqual(t, SeverityError, d.Severity)
	}
	assert.True(t, warned, "error nodes in the tree should surface as a warning")

	// The pipeline still ran over the recovered tree.
	assert.Contains(t, stub.stages, "symbols")
	assert.Len(t, results.Symbols, 1)
}
