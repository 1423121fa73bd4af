package langs

import (
	"regexp"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/polyscope/internal/extract"
)

// containingSymbolID returns the ID of the innermost symbol whose span
// encloses the given line, or "" when the line is at the top level. Used by
// identifier extraction to record containment without mutating symbols.
func containingSymbolID(symbols []extract.Symbol, line int) string {
	var best string
	bestSize := -1
	for _, sym := range symbols {
		if line < sym.Span.StartLine || line > sym.Span.EndLine {
			continue
		}
		size := sym.Span.EndLine - sym.Span.StartLine
		if bestSize == -1 || size < bestSize {
			best = sym.ID
			bestSize = size
		}
	}
	return best
}

// symbolIDByName resolves a bare name against the file's own symbols.
// Returns "" when the name belongs to another file (or nothing at all);
// the relationship then carries the unresolved name downstream.
func symbolIDByName(symbols []extract.Symbol, name string) string {
	for _, sym := range symbols {
		if sym.Name == name {
			return sym.ID
		}
	}
	return ""
}

// errorPattern recognizes a truncated declaration inside an ERROR node.
type errorPattern struct {
	re   *regexp.Regexp // first capture group is the symbol name
	kind extract.SymbolKind
}

// recoverSymbols attempts best-effort reconstruction of declarations from a
// broken subtree: the ERROR node's raw text is matched against the
// language's declaration patterns and a symbol is emitted per match. Text
// with no recognizable pattern yields nothing, silently.
func recoverSymbols(b *extract.SymbolBuilder, node *sitter.Node, source []byte, patterns []errorPattern) []extract.Symbol {
	text := extract.NodeText(node, source)
	if text == "" {
		return nil
	}

	var symbols []extract.Symbol
	for _, p := range patterns {
		for _, match := range p.re.FindAllStringSubmatch(text, -1) {
			if len(match) < 2 || match[1] == "" {
				continue
			}
			symbols = append(symbols, b.Symbol(node, match[1], p.kind, extract.SymbolOptions{
				Metadata: map[string]string{"recovered": "true"},
			}))
		}
	}
	return symbols
}

// callee returns the rightmost name of a call target: "foo" from foo(...),
// "bar" from obj.foo.bar(...). Empty for anonymous callees.
func callee(fn *sitter.Node, source []byte) string {
	if fn == nil {
		return ""
	}
	switch fn.Kind() {
	case "identifier", "field_identifier", "property_identifier", "name", "constant":
		return extract.NodeText(fn, source)
	}
	// Selector-style callees keep only the final component; the receiver
	// chain cannot be resolved without type information.
	for _, field := range []string{"property", "field", "attribute", "name", "method"} {
		if n := fn.ChildByFieldName(field); n != nil {
			return extract.NodeText(n, source)
		}
	}
	return ""
}

// callRelationship builds a calls relationship from the containing symbol to
// the callee, resolved against same-file symbols when possible. Name-matched
// targets are heuristic and stamped with reduced confidence.
func callRelationship(b *extract.SymbolBuilder, node *sitter.Node, symbols []extract.Symbol, fromLine int, calleeName string) (extract.Relationship, bool) {
	fromID := containingSymbolID(symbols, fromLine)
	if fromID == "" || calleeName == "" {
		return extract.Relationship{}, false
	}
	if toID := symbolIDByName(symbols, calleeName); toID != "" {
		return b.HeuristicRelationship(node, fromID, toID, extract.RelationshipCalls, 0.8), true
	}
	return b.UnresolvedRelationship(node, fromID, calleeName, extract.RelationshipCalls, 0.6), true
}
