package langs

import (
	"regexp"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/polyscope/internal/extract"
)

// phpExtractor extracts symbols from PHP sources. Explicit visibility
// modifiers win; class members default to public per the language.
type phpExtractor struct{}

var phpErrorPatterns = []errorPattern{
	{regexp.MustCompile(`(?m)\bfunction\s+([A-Za-z_][A-Za-z0-9_]*)`), extract.SymbolFunction},
	{regexp.MustCompile(`(?m)\bclass\s+([A-Za-z_][A-Za-z0-9_]*)`), extract.SymbolClass},
}

func (phpExtractor) ExtractSymbols(root *sitter.Node, file *extract.File) []extract.Symbol {
	b := extract.NewSymbolBuilder(file)
	symbols := make([]extract.Symbol, 0)
	src := file.Source

	var walk func(node *sitter.Node, inClass bool)
	walk = func(node *sitter.Node, inClass bool) {
		switch node.Kind() {
		case "namespace_definition":
			if name := extract.NameOf(node, src); name != "" {
				sym := b.Symbol(node, name, extract.SymbolNamespace, extract.SymbolOptions{})
				symbols = append(symbols, sym)
				b.Context().Push(sym.ID)
			}
			// File-scoped namespaces have no body node; the push above
			// deliberately stays open for the rest of the file.
			if body := node.ChildByFieldName("body"); body != nil {
				for i := uint(0); i < body.ChildCount(); i++ {
					walk(body.Child(i), false)
				}
				b.Context().Pop()
			}
			return

		case "class_declaration", "interface_declaration", "trait_declaration", "enum_declaration":
			name := extract.NameOf(node, src)
			if name == "" {
				return
			}
			var kind extract.SymbolKind
			switch node.Kind() {
			case "class_declaration":
				kind = extract.SymbolClass
			case "interface_declaration":
				kind = extract.SymbolInterface
			case "trait_declaration":
				kind = extract.SymbolTrait
			default:
				kind = extract.SymbolEnum
			}
			sym := b.Symbol(node, name, kind, extract.SymbolOptions{
				Doc: extract.DocComment(node, src),
			})
			symbols = append(symbols, sym)
			b.Context().Push(sym.ID)
			if body := node.ChildByFieldName("body"); body != nil {
				for i := uint(0); i < body.ChildCount(); i++ {
					walk(body.Child(i), true)
				}
			}
			b.Context().Pop()
			return

		case "function_definition":
			name := extract.NameOf(node, src)
			if name == "" {
				return
			}
			symbols = append(symbols, b.Symbol(node, name, extract.SymbolFunction, extract.SymbolOptions{
				Signature: phpSignature(node, src),
				Doc:       extract.DocComment(node, src),
			}))
			return

		case "method_declaration":
			name := extract.NameOf(node, src)
			if name == "" {
				return
			}
			symbols = append(symbols, b.Symbol(node, name, extract.SymbolMethod, extract.SymbolOptions{
				Signature:  phpSignature(node, src),
				Visibility: phpVisibility(node, src),
				Doc:        extract.DocComment(node, src),
			}))
			return

		case "property_declaration":
			for _, elem := range extract.FindChildrenByKind(node, "property_element") {
				varName := extract.FindChildByKind(elem, "variable_name")
				if varName == nil {
					continue
				}
				name := strings.TrimPrefix(extract.NodeText(varName, src), "$")
				metadata := map[string]string{}
				if value := elem.ChildByFieldName("default_value"); value != nil {
					metadata[extract.MetadataValue] = extract.NodeText(value, src)
				}
				symbols = append(symbols, b.Symbol(elem, name, extract.SymbolProperty, extract.SymbolOptions{
					Visibility: phpVisibility(node, src),
					Metadata:   metadata,
				}))
			}
			return

		case "const_declaration":
			for _, elem := range extract.FindChildrenByKind(node, "const_element") {
				name := extract.NameOf(elem, src)
				if name == "" {
					if id := extract.FindChildByKind(elem, "name"); id != nil {
						name = extract.NodeText(id, src)
					}
				}
				if name == "" {
					continue
				}
				metadata := map[string]string{}
				if value := elem.ChildByFieldName("value"); value != nil {
					metadata[extract.MetadataValue] = extract.NodeText(value, src)
				}
				symbols = append(symbols, b.Symbol(elem, name, extract.SymbolConstant, extract.SymbolOptions{
					Visibility: phpVisibility(node, src),
					Metadata:   metadata,
				}))
			}
			return

		case "ERROR":
			symbols = append(symbols, recoverSymbols(b, node, src, phpErrorPatterns)...)
			return
		}

		for i := uint(0); i < node.ChildCount(); i++ {
			walk(node.Child(i), inClass)
		}
	}

	walk(root, false)
	return symbols
}

func (phpExtractor) ExtractIdentifiers(root *sitter.Node, file *extract.File, symbols []extract.Symbol) []extract.Identifier {
	b := extract.NewSymbolBuilder(file)
	identifiers := make([]extract.Identifier, 0)
	src := file.Source

	extract.WalkTree(root, func(n *sitter.Node) bool {
		line := int(n.StartPosition().Row) + 1
		switch n.Kind() {
		case "function_call_expression":
			if name := callee(n.ChildByFieldName("function"), src); name != "" {
				identifiers = append(identifiers, b.Identifier(n, name, extract.IdentifierCall, containingSymbolID(symbols, line)))
			}
		case "member_call_expression", "scoped_call_expression":
			if name := extract.NameOf(n, src); name != "" {
				identifiers = append(identifiers, b.Identifier(n, name, extract.IdentifierCall, containingSymbolID(symbols, line)))
			}
		case "namespace_use_declaration":
			for _, clause := range extract.FindChildrenByKind(n, "namespace_use_clause") {
				if q := extract.FindChildByKind(clause, "qualified_name"); q != nil {
					identifiers = append(identifiers, b.Identifier(clause, extract.NodeText(q, src), extract.IdentifierImport, containingSymbolID(symbols, line)))
				} else if nm := extract.FindChildByKind(clause, "name"); nm != nil {
					identifiers = append(identifiers, b.Identifier(clause, extract.NodeText(nm, src), extract.IdentifierImport, containingSymbolID(symbols, line)))
				}
			}
		case "require_expression", "require_once_expression", "include_expression", "include_once_expression":
			if target := phpIncludeTarget(n, src); target != "" {
				identifiers = append(identifiers, b.Identifier(n, target, extract.IdentifierImport, containingSymbolID(symbols, line)))
			}
		case "assignment_expression":
			if left := n.ChildByFieldName("left"); left != nil && left.Kind() == "variable_name" {
				name := strings.TrimPrefix(extract.NodeText(left, src), "$")
				identifiers = append(identifiers, b.Identifier(left, name, extract.IdentifierWrite, containingSymbolID(symbols, line)))
			}
		}
		return true
	})

	return identifiers
}

func (phpExtractor) ExtractRelationships(root *sitter.Node, file *extract.File, symbols []extract.Symbol) []extract.Relationship {
	b := extract.NewSymbolBuilder(file)
	relationships := make([]extract.Relationship, 0)
	src := file.Source

	extract.WalkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "class_declaration", "interface_declaration":
			fromID := symbolIDByName(symbols, extract.NameOf(n, src))
			if fromID == "" {
				return true
			}
			for i := uint(0); i < n.ChildCount(); i++ {
				child := n.Child(i)
				switch child.Kind() {
				case "base_clause":
					relationships = append(relationships, phpHeritage(b, child, fromID, symbols, src, extract.RelationshipExtends)...)
				case "class_interface_clause":
					relationships = append(relationships, phpHeritage(b, child, fromID, symbols, src, extract.RelationshipImplements)...)
				}
			}

		case "namespace_use_declaration", "require_expression", "require_once_expression", "include_expression", "include_once_expression":
			line := int(n.StartPosition().Row) + 1
			fromID := containingSymbolID(symbols, line)
			if fromID == "" && len(symbols) > 0 {
				fromID = symbols[0].ID
			}
			if fromID == "" {
				return true
			}
			if n.Kind() == "namespace_use_declaration" {
				for _, clause := range extract.FindChildrenByKind(n, "namespace_use_clause") {
					if q := extract.FindChildByKind(clause, "qualified_name"); q != nil {
						relationships = append(relationships, b.UnresolvedRelationship(clause, fromID, extract.NodeText(q, src), extract.RelationshipImports, 1.0))
					}
				}
			} else if target := phpIncludeTarget(n, src); target != "" {
				relationships = append(relationships, b.UnresolvedRelationship(n, fromID, target, extract.RelationshipImports, 1.0))
			}

		case "function_call_expression":
			line := int(n.StartPosition().Row) + 1
			if rel, ok := callRelationship(b, n, symbols, line, callee(n.ChildByFieldName("function"), src)); ok {
				relationships = append(relationships, rel)
			}

		case "member_call_expression", "scoped_call_expression":
			line := int(n.StartPosition().Row) + 1
			if rel, ok := callRelationship(b, n, symbols, line, extract.NameOf(n, src)); ok {
				relationships = append(relationships, rel)
			}
		}
		return true
	})

	return relationships
}

func (phpExtractor) InferTypes(symbols []extract.Symbol) extract.TypeInfo {
	return extract.InferLiteralTypes(symbols)
}

// phpHeritage resolves each name in a base/interface clause.
func phpHeritage(b *extract.SymbolBuilder, clause *sitter.Node, fromID string, symbols []extract.Symbol, src []byte, kind extract.RelationshipKind) []extract.Relationship {
	var relationships []extract.Relationship
	extract.WalkTree(clause, func(t *sitter.Node) bool {
		if t.Kind() != "name" && t.Kind() != "qualified_name" {
			return true
		}
		name := extract.NodeText(t, src)
		if toID := symbolIDByName(symbols, name); toID != "" {
			relationships = append(relationships, b.Relationship(t, fromID, toID, kind))
		} else {
			relationships = append(relationships, b.UnresolvedRelationship(t, fromID, name, kind, 1.0))
		}
		return false
	})
	return relationships
}

// phpIncludeTarget pulls the string path out of a require/include expression.
func phpIncludeTarget(node *sitter.Node, src []byte) string {
	str := extract.FindChildByKind(node, "string")
	if str == nil {
		str = extract.FindChildByKind(node, "encapsed_string")
	}
	if str == nil {
		return ""
	}
	return strings.Trim(extract.NodeText(str, src), `"'`)
}

// phpVisibility resolves an explicit modifier; members default to public.
func phpVisibility(node *sitter.Node, src []byte) extract.Visibility {
	if mod := extract.FindChildByKind(node, "visibility_modifier"); mod != nil {
		switch extract.NodeText(mod, src) {
		case "private":
			return extract.VisibilityPrivate
		case "protected":
			return extract.VisibilityProtected
		}
	}
	return extract.VisibilityPublic
}

// phpSignature renders a declaration's text up to its body.
func phpSignature(node *sitter.Node, src []byte) string {
	text := extract.NodeText(node, src)
	if idx := strings.Index(text, "{"); idx > 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
