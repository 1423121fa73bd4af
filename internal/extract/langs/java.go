package langs

import (
	"regexp"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/polyscope/internal/extract"
)

// javaExtractor extracts symbols from Java sources. Explicit modifiers drive
// visibility; the package-private default maps to internal. Annotations are
// recorded as decorator metadata by bare name.
type javaExtractor struct{}

var javaErrorPatterns = []errorPattern{
	{regexp.MustCompile(`(?m)\bclass\s+([A-Za-z_$][A-Za-z0-9_$]*)`), extract.SymbolClass},
	{regexp.MustCompile(`(?m)\binterface\s+([A-Za-z_$][A-Za-z0-9_$]*)`), extract.SymbolInterface},
}

func (javaExtractor) ExtractSymbols(root *sitter.Node, file *extract.File) []extract.Symbol {
	b := extract.NewSymbolBuilder(file)
	symbols := make([]extract.Symbol, 0)
	src := file.Source

	if pkg := extract.FindChildByKind(root, "package_declaration"); pkg != nil {
		if scoped := extract.FindChildByKind(pkg, "scoped_identifier"); scoped != nil {
			sym := b.Symbol(pkg, extract.NodeText(scoped, src), extract.SymbolNamespace, extract.SymbolOptions{})
			symbols = append(symbols, sym)
			b.Context().Push(sym.ID)
		}
	}

	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		switch node.Kind() {
		case "class_declaration", "interface_declaration", "enum_declaration":
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
			default:
				kind = extract.SymbolEnum
			}
			sym := b.Symbol(node, name, kind, extract.SymbolOptions{
				Visibility: javaVisibility(node, src),
				Doc:        extract.DocComment(node, src),
				Metadata:   decoratorMetadata(javaAnnotations(node, src), ""),
			})
			symbols = append(symbols, sym)
			b.Context().Push(sym.ID)
			if body := node.ChildByFieldName("body"); body != nil {
				for i := uint(0); i < body.ChildCount(); i++ {
					walk(body.Child(i))
				}
			}
			b.Context().Pop()
			return

		case "method_declaration", "constructor_declaration":
			name := extract.NameOf(node, src)
			if name == "" {
				return
			}
			symbols = append(symbols, b.Symbol(node, name, extract.SymbolMethod, extract.SymbolOptions{
				Signature:  javaSignature(node, src),
				Visibility: javaVisibility(node, src),
				Doc:        extract.DocComment(node, src),
				Metadata:   decoratorMetadata(javaAnnotations(node, src), ""),
			}))
			return

		case "field_declaration":
			for _, decl := range extract.FindChildrenByKind(node, "variable_declarator") {
				name := extract.NameOf(decl, src)
				if name == "" {
					continue
				}
				kind := extract.SymbolField
				if javaIsConstant(node, src) {
					kind = extract.SymbolConstant
				}
				metadata := map[string]string{}
				if value := decl.ChildByFieldName("value"); value != nil {
					metadata[extract.MetadataValue] = extract.NodeText(value, src)
				}
				symbols = append(symbols, b.Symbol(decl, name, kind, extract.SymbolOptions{
					Visibility: javaVisibility(node, src),
					Metadata:   metadata,
				}))
			}
			return

		case "ERROR":
			symbols = append(symbols, recoverSymbols(b, node, src, javaErrorPatterns)...)
			return
		}

		for i := uint(0); i < node.ChildCount(); i++ {
			walk(node.Child(i))
		}
	}

	walk(root)
	return symbols
}

func (javaExtractor) ExtractIdentifiers(root *sitter.Node, file *extract.File, symbols []extract.Symbol) []extract.Identifier {
	b := extract.NewSymbolBuilder(file)
	identifiers := make([]extract.Identifier, 0)
	src := file.Source

	extract.WalkTree(root, func(n *sitter.Node) bool {
		line := int(n.StartPosition().Row) + 1
		switch n.Kind() {
		case "method_invocation":
			if name := extract.NameOf(n, src); name != "" {
				identifiers = append(identifiers, b.Identifier(n, name, extract.IdentifierCall, containingSymbolID(symbols, line)))
			}
		case "import_declaration":
			if scoped := extract.FindChildByKind(n, "scoped_identifier"); scoped != nil {
				identifiers = append(identifiers, b.Identifier(n, extract.NodeText(scoped, src), extract.IdentifierImport, containingSymbolID(symbols, line)))
			}
		case "assignment_expression":
			if left := n.ChildByFieldName("left"); left != nil && left.Kind() == "identifier" {
				identifiers = append(identifiers, b.Identifier(left, extract.NodeText(left, src), extract.IdentifierWrite, containingSymbolID(symbols, line)))
			}
		}
		return true
	})

	return identifiers
}

func (javaExtractor) ExtractRelationships(root *sitter.Node, file *extract.File, symbols []extract.Symbol) []extract.Relationship {
	b := extract.NewSymbolBuilder(file)
	relationships := make([]extract.Relationship, 0)
	src := file.Source

	var namespaceID string
	if len(symbols) > 0 && symbols[0].Kind == extract.SymbolNamespace {
		namespaceID = symbols[0].ID
	}

	extract.WalkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "class_declaration":
			classID := symbolIDByName(symbols, extract.NameOf(n, src))
			if classID == "" {
				return true
			}
			if super := n.ChildByFieldName("superclass"); super != nil {
				name := strings.TrimSpace(strings.TrimPrefix(extract.NodeText(super, src), "extends"))
				relationships = append(relationships, javaHeritage(b, super, classID, name, symbols, extract.RelationshipExtends))
			}
			if ifaces := n.ChildByFieldName("interfaces"); ifaces != nil {
				extract.WalkTree(ifaces, func(t *sitter.Node) bool {
					if t.Kind() != "type_identifier" {
						return true
					}
					relationships = append(relationships, javaHeritage(b, t, classID, extract.NodeText(t, src), symbols, extract.RelationshipImplements))
					return false
				})
			}

		case "import_declaration":
			if namespaceID == "" {
				return true
			}
			if scoped := extract.FindChildByKind(n, "scoped_identifier"); scoped != nil {
				relationships = append(relationships, b.UnresolvedRelationship(n, namespaceID, extract.NodeText(scoped, src), extract.RelationshipImports, 1.0))
			}

		case "method_invocation":
			line := int(n.StartPosition().Row) + 1
			if rel, ok := callRelationship(b, n, symbols, line, extract.NameOf(n, src)); ok {
				relationships = append(relationships, rel)
			}
		}
		return true
	})

	return relationships
}

func (javaExtractor) InferTypes(symbols []extract.Symbol) extract.TypeInfo {
	return extract.InferLiteralTypes(symbols)
}

// javaHeritage builds one extends/implements relationship, resolved against
// file symbols when possible.
func javaHeritage(b *extract.SymbolBuilder, node *sitter.Node, fromID, toName string, symbols []extract.Symbol, kind extract.RelationshipKind) extract.Relationship {
	if toID := symbolIDByName(symbols, toName); toID != "" {
		return b.Relationship(node, fromID, toID, kind)
	}
	return b.UnresolvedRelationship(node, fromID, toName, kind, 1.0)
}

// javaAnnotations collects annotation names from a declaration's modifiers.
func javaAnnotations(node *sitter.Node, src []byte) []string {
	mods := extract.FindChildByKind(node, "modifiers")
	if mods == nil {
		return nil
	}
	var names []string
	for i := uint(0); i < mods.ChildCount(); i++ {
		child := mods.Child(i)
		if child.Kind() == "annotation" || child.Kind() == "marker_annotation" {
			if name := extract.DecoratorName(extract.NodeText(child, src)); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

// javaVisibility resolves explicit modifiers; package-private is internal.
func javaVisibility(node *sitter.Node, src []byte) extract.Visibility {
	mods := extract.FindChildByKind(node, "modifiers")
	if mods == nil {
		return extract.VisibilityInternal
	}
	text := extract.NodeText(mods, src)
	switch {
	case strings.Contains(text, "private"):
		return extract.VisibilityPrivate
	case strings.Contains(text, "protected"):
		return extract.VisibilityProtected
	case strings.Contains(text, "public"):
		return extract.VisibilityPublic
	default:
		return extract.VisibilityInternal
	}
}

// javaIsConstant reports the static final idiom.
func javaIsConstant(node *sitter.Node, src []byte) bool {
	mods := extract.FindChildByKind(node, "modifiers")
	if mods == nil {
		return false
	}
	text := extract.NodeText(mods, src)
	return strings.Contains(text, "static") && strings.Contains(text, "final")
}

// javaSignature renders a declaration's text up to its body.
func javaSignature(node *sitter.Node, src []byte) string {
	text := extract.NodeText(node, src)
	if idx := strings.Index(text, "{"); idx > 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
