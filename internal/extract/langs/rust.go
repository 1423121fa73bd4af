package langs

import (
	"regexp"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/polyscope/internal/extract"
)

// rustExtractor extracts symbols from Rust sources. Items without a pub
// modifier are crate-scoped and mapped to internal visibility.
type rustExtractor struct{}

var rustErrorPatterns = []errorPattern{
	{regexp.MustCompile(`(?m)^\s*(?:pub\s+)?fn\s+([A-Za-z_][A-Za-z0-9_]*)`), extract.SymbolFunction},
	{regexp.MustCompile(`(?m)^\s*(?:pub\s+)?struct\s+([A-Za-z_][A-Za-z0-9_]*)`), extract.SymbolStruct},
	{regexp.MustCompile(`(?m)^\s*(?:pub\s+)?trait\s+([A-Za-z_][A-Za-z0-9_]*)`), extract.SymbolTrait},
}

func (rustExtractor) ExtractSymbols(root *sitter.Node, file *extract.File) []extract.Symbol {
	b := extract.NewSymbolBuilder(file)
	symbols := make([]extract.Symbol, 0)
	src := file.Source

	var walk func(node *sitter.Node, inImpl bool)
	walk = func(node *sitter.Node, inImpl bool) {
		switch node.Kind() {
		case "function_item":
			name := extract.NameOf(node, src)
			if name == "" {
				return
			}
			kind := extract.SymbolFunction
			if inImpl {
				kind = extract.SymbolMethod
			}
			symbols = append(symbols, b.Symbol(node, name, kind, extract.SymbolOptions{
				Signature:  rustSignature(node, src),
				Visibility: rustVisibility(node, src),
				Doc:        extract.DocComment(node, src),
			}))
			return

		case "struct_item", "enum_item", "trait_item", "mod_item":
			name := extract.NameOf(node, src)
			if name == "" {
				return
			}
			var kind extract.SymbolKind
			switch node.Kind() {
			case "struct_item":
				kind = extract.SymbolStruct
			case "enum_item":
				kind = extract.SymbolEnum
			case "trait_item":
				kind = extract.SymbolTrait
			default:
				kind = extract.SymbolModule
			}
			sym := b.Symbol(node, name, kind, extract.SymbolOptions{
				Visibility: rustVisibility(node, src),
				Doc:        extract.DocComment(node, src),
			})
			symbols = append(symbols, sym)
			if node.Kind() == "mod_item" || node.Kind() == "trait_item" {
				b.Context().Push(sym.ID)
				for i := uint(0); i < node.ChildCount(); i++ {
					walk(node.Child(i), node.Kind() == "trait_item")
				}
				b.Context().Pop()
			}
			return

		case "impl_item":
			// Methods parent to the implemented type when it is declared in
			// this file.
			var implID string
			if typeNode := node.ChildByFieldName("type"); typeNode != nil {
				implID = symbolIDByNameIn(symbols, extract.NodeText(typeNode, src))
			}
			if implID != "" {
				b.Context().Push(implID)
			}
			if body := node.ChildByFieldName("body"); body != nil {
				for i := uint(0); i < body.ChildCount(); i++ {
					walk(body.Child(i), true)
				}
			}
			if implID != "" {
				b.Context().Pop()
			}
			return

		case "const_item", "static_item":
			name := extract.NameOf(node, src)
			if name == "" {
				return
			}
			kind := extract.SymbolConstant
			if node.Kind() == "static_item" {
				kind = extract.SymbolVariable
			}
			metadata := map[string]string{}
			if value := node.ChildByFieldName("value"); value != nil {
				metadata[extract.MetadataValue] = extract.NodeText(value, src)
			}
			symbols = append(symbols, b.Symbol(node, name, kind, extract.SymbolOptions{
				Visibility: rustVisibility(node, src),
				Doc:        extract.DocComment(node, src),
				Metadata:   metadata,
			}))
			return

		case "ERROR":
			symbols = append(symbols, recoverSymbols(b, node, src, rustErrorPatterns)...)
			return
		}

		for i := uint(0); i < node.ChildCount(); i++ {
			walk(node.Child(i), inImpl)
		}
	}

	walk(root, false)
	return symbols
}

func (rustExtractor) ExtractIdentifiers(root *sitter.Node, file *extract.File, symbols []extract.Symbol) []extract.Identifier {
	b := extract.NewSymbolBuilder(file)
	identifiers := make([]extract.Identifier, 0)
	src := file.Source

	extract.WalkTree(root, func(n *sitter.Node) bool {
		line := int(n.StartPosition().Row) + 1
		switch n.Kind() {
		case "call_expression":
			if name := rustCallee(n.ChildByFieldName("function"), src); name != "" {
				identifiers = append(identifiers, b.Identifier(n, name, extract.IdentifierCall, containingSymbolID(symbols, line)))
			}
		case "use_declaration":
			if arg := n.ChildByFieldName("argument"); arg != nil {
				identifiers = append(identifiers, b.Identifier(n, extract.NodeText(arg, src), extract.IdentifierImport, containingSymbolID(symbols, line)))
			}
		}
		return true
	})

	return identifiers
}

func (rustExtractor) ExtractRelationships(root *sitter.Node, file *extract.File, symbols []extract.Symbol) []extract.Relationship {
	b := extract.NewSymbolBuilder(file)
	relationships := make([]extract.Relationship, 0)
	src := file.Source

	extract.WalkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "impl_item":
			// "impl Trait for Type" is an implements relationship.
			traitNode := n.ChildByFieldName("trait")
			typeNode := n.ChildByFieldName("type")
			if traitNode == nil || typeNode == nil {
				return true
			}
			typeID := symbolIDByNameIn(symbols, extract.NodeText(typeNode, src))
			if typeID == "" {
				return true
			}
			traitName := extract.NodeText(traitNode, src)
			if toID := symbolIDByNameIn(symbols, traitName); toID != "" {
				relationships = append(relationships, b.Relationship(traitNode, typeID, toID, extract.RelationshipImplements))
			} else {
				relationships = append(relationships, b.UnresolvedRelationship(traitNode, typeID, traitName, extract.RelationshipImplements, 1.0))
			}

		case "use_declaration":
			fromID := containingSymbolID(symbols, int(n.StartPosition().Row)+1)
			if fromID == "" {
				// Top-level use with no module symbol: anchor to the first
				// symbol in the file, if any.
				if len(symbols) > 0 {
					fromID = symbols[0].ID
				}
			}
			if arg := n.ChildByFieldName("argument"); arg != nil && fromID != "" {
				relationships = append(relationships, b.UnresolvedRelationship(n, fromID, extract.NodeText(arg, src), extract.RelationshipImports, 1.0))
			}

		case "call_expression":
			line := int(n.StartPosition().Row) + 1
			if rel, ok := callRelationship(b, n, symbols, line, rustCallee(n.ChildByFieldName("function"), src)); ok {
				relationships = append(relationships, rel)
			}
		}
		return true
	})

	return relationships
}

func (rustExtractor) InferTypes(symbols []extract.Symbol) extract.TypeInfo {
	return extract.InferLiteralTypes(symbols)
}

// rustCallee resolves the last path segment of a call target: "new" from
// Foo::new(...), "push" from vec.push(...).
func rustCallee(fn *sitter.Node, src []byte) string {
	if fn == nil {
		return ""
	}
	switch fn.Kind() {
	case "identifier":
		return extract.NodeText(fn, src)
	case "scoped_identifier":
		return extract.NodeText(fn.ChildByFieldName("name"), src)
	case "field_expression":
		return extract.NodeText(fn.ChildByFieldName("field"), src)
	}
	return ""
}

// symbolIDByNameIn matches a possibly generic type name ("Foo<T>") against
// file symbols by its base name.
func symbolIDByNameIn(symbols []extract.Symbol, name string) string {
	if idx := strings.IndexAny(name, "<("); idx > 0 {
		name = name[:idx]
	}
	return symbolIDByName(symbols, strings.TrimSpace(name))
}

// rustVisibility maps the pub modifier onto the shared lattice.
func rustVisibility(node *sitter.Node, src []byte) extract.Visibility {
	if mod := extract.FindChildByKind(node, "visibility_modifier"); mod != nil {
		text := extract.NodeText(mod, src)
		switch {
		case text == "pub":
			return extract.VisibilityPublic
		case strings.HasPrefix(text, "pub("):
			return extract.VisibilityInternal
		}
	}
	return extract.VisibilityInternal
}

// rustSignature renders an item's text up to its body.
func rustSignature(node *sitter.Node, src []byte) string {
	text := extract.NodeText(node, src)
	if idx := strings.Index(text, "{"); idx > 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
