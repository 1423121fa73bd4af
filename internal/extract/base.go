package extract

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// symbolID derives a deterministic symbol ID from the identity fields the
// contract guarantees stable: file path, start position, name, and kind.
// Hashing instead of counting keeps IDs reproducible across runs and lets
// many files extract concurrently without shared mutable state.
func symbolID(path string, line, column int, name string, kind SymbolKind) string {
	fingerprint := fmt.Sprintf("%s|%d|%d|%s|%s", path, line, column, name, kind)
	sum := sha256.Sum256([]byte(fingerprint))
	return hex.EncodeToString(sum[:8])
}

// identifierID derives a deterministic identifier ID the same way.
func identifierID(path string, line, column int, name string, kind IdentifierKind) string {
	fingerprint := fmt.Sprintf("%s|%d|%d|%s|ref:%s", path, line, column, name, kind)
	sum := sha256.Sum256([]byte(fingerprint))
	return hex.EncodeToString(sum[:8])
}

// spanFromNode converts a node's boundaries into a Span.
func spanFromNode(path string, node *sitter.Node) Span {
	start := node.StartPosition()
	end := node.EndPosition()
	return Span{
		File:        path,
		StartLine:   int(start.Row) + 1,
		StartColumn: int(start.Column),
		EndLine:     int(end.Row) + 1,
		EndColumn:   int(end.Column),
	}
}

// SymbolOptions bundles the optional fields of a Symbol under construction.
// Zero values mean "not provided": visibility falls back to the naming
// heuristic and the parent falls back to the context stack.
type SymbolOptions struct {
	Signature  string
	Visibility Visibility
	ParentID   string
	Doc        string
	Metadata   map[string]string
}

// SymbolBuilder constructs fully-populated records for one file's traversal.
// It owns the traversal Context, so extractors get correct parent references
// without tracking ancestry themselves. A builder is created fresh per
// extraction and never shared.
type SymbolBuilder struct {
	file *File
	ctx  *Context
}

// NewSymbolBuilder creates a builder bound to one file.
func NewSymbolBuilder(file *File) *SymbolBuilder {
	return &SymbolBuilder{
		file: file,
		ctx:  NewContext(),
	}
}

// Context returns the traversal context owned by this builder.
func (b *SymbolBuilder) Context() *Context {
	return b.ctx
}

// Symbol builds a Symbol from a node, stamping a deterministic ID and the
// node's span. Visibility defaults to the naming heuristic; the parent
// defaults to the innermost symbol on the context stack.
func (b *SymbolBuilder) Symbol(node *sitter.Node, name string, kind SymbolKind, opts SymbolOptions) Symbol {
	span := spanFromNode(b.file.Path, node)

	vis := opts.Visibility
	if vis == "" {
		vis = InferVisibility(name, b.ctx.DefaultVisibility())
	}

	parent := opts.ParentID
	if parent == "" {
		parent = b.ctx.Parent()
	}

	return Symbol{
		ID:         symbolID(b.file.Path, span.StartLine, span.StartColumn, name, kind),
		Name:       name,
		Kind:       kind,
		Visibility: vis,
		Signature:  opts.Signature,
		ParentID:   parent,
		Doc:        opts.Doc,
		Metadata:   opts.Metadata,
		Span:       span,
		Language:   b.file.Language,
	}
}

// Identifier builds a reference-site occurrence record. symbolID names the
// containing symbol when known; "" leaves containment to the downstream
// linker.
func (b *SymbolBuilder) Identifier(node *sitter.Node, name string, kind IdentifierKind, containingID string) Identifier {
	span := spanFromNode(b.file.Path, node)
	return Identifier{
		ID:       identifierID(b.file.Path, span.StartLine, span.StartColumn, name, kind),
		Name:     name,
		Kind:     kind,
		SymbolID: containingID,
		Span:     span,
	}
}

// Relationship builds a link to a resolved target symbol. Confidence is 1.0:
// this constructor is for syntactically unambiguous relationships such as an
// explicit extends clause.
func (b *SymbolBuilder) Relationship(node *sitter.Node, fromID, toID string, kind RelationshipKind) Relationship {
	return Relationship{
		FromID:     fromID,
		ToID:       toID,
		Kind:       kind,
		Confidence: 1.0,
		Span:       spanFromNode(b.file.Path, node),
	}
}

// HeuristicRelationship builds a link to a target resolved by name match
// rather than explicit syntax. Confidence is clamped to [0,1].
func (b *SymbolBuilder) HeuristicRelationship(node *sitter.Node, fromID, toID string, kind RelationshipKind, confidence float64) Relationship {
	rel := b.UnresolvedRelationship(node, fromID, "", kind, confidence)
	rel.ToID = toID
	return rel
}

// UnresolvedRelationship builds a link whose target is known only by name.
// Confidence is clamped to [0,1]; scores below 1.0 signal a heuristic match.
func (b *SymbolBuilder) UnresolvedRelationship(node *sitter.Node, fromID, toName string, kind RelationshipKind, confidence float64) Relationship {
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return Relationship{
		FromID:     fromID,
		ToName:     toName,
		Kind:       kind,
		Confidence: confidence,
		Span:       spanFromNode(b.file.Path, node),
	}
}

// NodeText returns the exact source substring covered by a node, or "" when
// the node's byte range is out of bounds or would split a multi-byte
// character. Degrading to an empty string keeps a corrupt span from
// faulting the whole extraction.
func NodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return sliceText(source, node.StartByte(), node.EndByte())
}

// sliceText slices source at validated character boundaries.
func sliceText(source []byte, start, end uint) string {
	if start > end || end > uint(len(source)) {
		return ""
	}
	if start < uint(len(source)) && !utf8.RuneStart(source[start]) {
		return ""
	}
	if end < uint(len(source)) && !utf8.RuneStart(source[end]) {
		return ""
	}
	return string(source[start:end])
}

// DocComment scans the named siblings immediately preceding a declaration
// for adjacent comment nodes and returns their text, oldest first. It
// returns "" when no comment directly precedes the declaration; doc text is
// never fabricated.
func DocComment(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}

	var parts []string
	prev := node.PrevSibling()
	line := int(node.StartPosition().Row)

	// Decorated and exported declarations carry their comment above the
	// wrapper node, not above the declaration itself. Skip decorator
	// siblings, then restart the scan from the wrapper when nothing
	// precedes the declaration inside it.
	for prev != nil && strings.Contains(prev.Kind(), "decorator") {
		line = int(prev.StartPosition().Row)
		prev = prev.PrevSibling()
	}
	if prev == nil {
		if parent := node.Parent(); parent != nil && parent.Parent() != nil {
			line = int(parent.StartPosition().Row)
			prev = parent.PrevSibling()
		}
	}

	for prev != nil && strings.Contains(prev.Kind(), "comment") {
		// Only comments ending on the line directly above (or the same
		// line) count as documentation for this declaration.
		endLine := int(prev.EndPosition().Row)
		if line-endLine > 1 {
			break
		}
		parts = append([]string{cleanComment(NodeText(prev, source))}, parts...)
		line = int(prev.StartPosition().Row)
		prev = prev.PrevSibling()
	}

	return strings.Join(parts, "\n")
}

// cleanComment strips common comment markers from one comment's text.
func cleanComment(text string) string {
	text = strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(text, "///"):
		text = strings.TrimPrefix(text, "///")
	case strings.HasPrefix(text, "//"):
		text = strings.TrimPrefix(text, "//")
	case strings.HasPrefix(text, "#"):
		text = strings.TrimPrefix(text, "#")
	case strings.HasPrefix(text, "/*"):
		text = strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/")
	}
	return strings.TrimSpace(text)
}

// InferVisibility resolves visibility from naming convention when a language
// has no explicit modifier: a leading underscore means Protected, a leading
// # (e.g. JavaScript private fields) means Private, anything else keeps the
// fallback.
func InferVisibility(name string, fallback Visibility) Visibility {
	switch {
	case strings.HasPrefix(name, "#"):
		return VisibilityPrivate
	case strings.HasPrefix(name, "_"):
		return VisibilityProtected
	case fallback != "":
		return fallback
	default:
		return VisibilityPublic
	}
}

// DecoratorName extracts the bare decorator name from its source text:
// "@lru_cache(maxsize=128)" yields "lru_cache". Markers and parameter text
// are dropped; an unparseable decorator yields "".
func DecoratorName(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimLeft(text, "@#[")
	if idx := strings.IndexAny(text, "( \t\n]"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// WalkTree visits node and its descendants in pre-order. Returning false
// from the visitor skips the node's subtree. Traversal is bounded by the
// finite node count of the parsed tree.
func WalkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		WalkTree(node.Child(i), visitor)
	}
}

// FindChildByKind returns the first direct child with the given kind, or nil.
func FindChildByKind(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child.Kind() == kind {
			return child
		}
	}
	return nil
}

// FindChildrenByKind returns all direct children with the given kind.
func FindChildrenByKind(node *sitter.Node, kind string) []*sitter.Node {
	var results []*sitter.Node
	if node == nil {
		return results
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child.Kind() == kind {
			results = append(results, child)
		}
	}
	return results
}

// NameOf returns the text of a node's "name" field, or "" when absent.
func NameOf(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return NodeText(node.ChildByFieldName("name"), source)
}
