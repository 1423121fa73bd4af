package langs

import (
	"regexp"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/polyscope/internal/extract"
)

// typescriptExtractor covers TypeScript, TSX, and plain JavaScript (the TS
// grammar is a JS superset). Explicit accessibility modifiers win; otherwise
// naming conventions decide (#field is private, _field is protected).
type typescriptExtractor struct{}

var typescriptErrorPatterns = []errorPattern{
	{regexp.MustCompile(`(?m)\bfunction\s+([A-Za-z_$][A-Za-z0-9_$]*)`), extract.SymbolFunction},
	{regexp.MustCompile(`(?m)\bclass\s+([A-Za-z_$][A-Za-z0-9_$]*)`), extract.SymbolClass},
	{regexp.MustCompile(`(?m)\binterface\s+([A-Za-z_$][A-Za-z0-9_$]*)`), extract.SymbolInterface},
}

func (typescriptExtractor) ExtractSymbols(root *sitter.Node, file *extract.File) []extract.Symbol {
	b := extract.NewSymbolBuilder(file)
	symbols := make([]extract.Symbol, 0)
	src := file.Source

	var walk func(node *sitter.Node, inClass bool)
	walk = func(node *sitter.Node, inClass bool) {
		switch node.Kind() {
		case "class_declaration", "abstract_class_declaration":
			name := extract.NameOf(node, src)
			if name == "" {
				return
			}
			sym := b.Symbol(node, name, extract.SymbolClass, extract.SymbolOptions{
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

		case "interface_declaration":
			name := extract.NameOf(node, src)
			if name == "" {
				return
			}
			symbols = append(symbols, b.Symbol(node, name, extract.SymbolInterface, extract.SymbolOptions{
				Doc: extract.DocComment(node, src),
			}))
			return

		case "enum_declaration":
			name := extract.NameOf(node, src)
			if name == "" {
				return
			}
			symbols = append(symbols, b.Symbol(node, name, extract.SymbolEnum, extract.SymbolOptions{
				Doc: extract.DocComment(node, src),
			}))
			return

		case "type_alias_declaration":
			name := extract.NameOf(node, src)
			if name == "" {
				return
			}
			symbols = append(symbols, b.Symbol(node, name, extract.SymbolType, extract.SymbolOptions{
				Doc: extract.DocComment(node, src),
			}))
			return

		case "function_declaration", "generator_function_declaration":
			name := extract.NameOf(node, src)
			if name == "" {
				return
			}
			sym := b.Symbol(node, name, extract.SymbolFunction, extract.SymbolOptions{
				Signature: tsSignature(node, src),
				Doc:       extract.DocComment(node, src),
			})
			symbols = append(symbols, sym)
			b.Context().Push(sym.ID)
			if body := node.ChildByFieldName("body"); body != nil {
				for i := uint(0); i < body.ChildCount(); i++ {
					walk(body.Child(i), false)
				}
			}
			b.Context().Pop()
			return

		case "method_definition":
			name := extract.NameOf(node, src)
			if name == "" {
				return
			}
			symbols = append(symbols, b.Symbol(node, name, extract.SymbolMethod, extract.SymbolOptions{
				Signature:  tsSignature(node, src),
				Visibility: tsVisibility(node, name, src),
				Doc:        extract.DocComment(node, src),
			}))
			return

		case "public_field_definition":
			name := extract.NameOf(node, src)
			if name == "" {
				return
			}
			metadata := map[string]string{}
			if value := node.ChildByFieldName("value"); value != nil {
				metadata[extract.MetadataValue] = extract.NodeText(value, src)
			}
			symbols = append(symbols, b.Symbol(node, name, extract.SymbolProperty, extract.SymbolOptions{
				Visibility: tsVisibility(node, name, src),
				Metadata:   metadata,
			}))
			return

		case "lexical_declaration", "variable_declaration":
			if inClass || b.Context().Depth() > 0 {
				return
			}
			kind := extract.SymbolVariable
			if strings.HasPrefix(extract.NodeText(node, src), "const") {
				kind = extract.SymbolConstant
			}
			for _, decl := range extract.FindChildrenByKind(node, "variable_declarator") {
				name := extract.NameOf(decl, src)
				if name == "" {
					continue
				}
				metadata := map[string]string{}
				if value := decl.ChildByFieldName("value"); value != nil {
					metadata[extract.MetadataValue] = extract.NodeText(value, src)
				}
				symbols = append(symbols, b.Symbol(decl, name, kind, extract.SymbolOptions{
					Doc:      extract.DocComment(node, src),
					Metadata: metadata,
				}))
			}
			return

		case "ERROR":
			symbols = append(symbols, recoverSymbols(b, node, src, typescriptErrorPatterns)...)
			return
		}

		for i := uint(0); i < node.ChildCount(); i++ {
			walk(node.Child(i), inClass)
		}
	}

	for i := uint(0); i < root.ChildCount(); i++ {
		walk(root.Child(i), false)
	}
	return symbols
}

func (typescriptExtractor) ExtractIdentifiers(root *sitter.Node, file *extract.File, symbols []extract.Symbol) []extract.Identifier {
	b := extract.NewSymbolBuilder(file)
	identifiers := make([]extract.Identifier, 0)

	extract.WalkTree(root, func(n *sitter.Node) bool {
		line := int(n.StartPosition().Row) + 1
		switch n.Kind() {
		case "call_expression":
			if name := callee(n.ChildByFieldName("function"), file.Source); name != "" {
				identifiers = append(identifiers, b.Identifier(n, name, extract.IdentifierCall, containingSymbolID(symbols, line)))
			}
		case "import_statement":
			if source := n.ChildByFieldName("source"); source != nil {
				name := strings.Trim(extract.NodeText(source, file.Source), `"'`)
				identifiers = append(identifiers, b.Identifier(n, name, extract.IdentifierImport, containingSymbolID(symbols, line)))
			}
		case "assignment_expression":
			if left := n.ChildByFieldName("left"); left != nil && left.Kind() == "identifier" {
				identifiers = append(identifiers, b.Identifier(left, extract.NodeText(left, file.Source), extract.IdentifierWrite, containingSymbolID(symbols, line)))
			}
		}
		return true
	})

	return identifiers
}

func (typescriptExtractor) ExtractRelationships(root *sitter.Node, file *extract.File, symbols []extract.Symbol) []extract.Relationship {
	b := extract.NewSymbolBuilder(file)
	relationships := make([]extract.Relationship, 0)
	src := file.Source

	extract.WalkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "class_declaration", "abstract_class_declaration":
			classID := symbolIDByName(symbols, extract.NameOf(n, src))
			if classID == "" {
				return true
			}
			relationships = append(relationships, tsHeritage(b, n, classID, symbols, src)...)

		case "interface_declaration":
			ifaceID := symbolIDByName(symbols, extract.NameOf(n, src))
			if ifaceID == "" {
				return true
			}
			relationships = append(relationships, tsHeritage(b, n, ifaceID, symbols, src)...)

		case "import_statement":
			fromID := containingSymbolID(symbols, int(n.StartPosition().Row)+1)
			if fromID == "" && len(symbols) > 0 {
				fromID = symbols[0].ID
			}
			source := n.ChildByFieldName("source")
			if source == nil || fromID == "" {
				return true
			}
			target := strings.Trim(extract.NodeText(source, src), `"'`)
			relationships = append(relationships, b.UnresolvedRelationship(n, fromID, target, extract.RelationshipImports, 1.0))

		case "call_expression":
			line := int(n.StartPosition().Row) + 1
			if rel, ok := callRelationship(b, n, symbols, line, callee(n.ChildByFieldName("function"), src)); ok {
				relationships = append(relationships, rel)
			}
		}
		return true
	})

	return relationships
}

func (typescriptExtractor) InferTypes(symbols []extract.Symbol) extract.TypeInfo {
	return extract.InferLiteralTypes(symbols)
}

// tsHeritage emits extends/implements relationships from a declaration's
// heritage clauses.
func tsHeritage(b *extract.SymbolBuilder, node *sitter.Node, fromID string, symbols []extract.Symbol, src []byte) []extract.Relationship {
	var relationships []extract.Relationship

	emit := func(clause *sitter.Node, kind extract.RelationshipKind) {
		if clause == nil {
			return
		}
		extract.WalkTree(clause, func(t *sitter.Node) bool {
			if t.Kind() != "identifier" && t.Kind() != "type_identifier" {
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
	}

	// Classes nest clauses under class_heritage; interfaces attach
	// extends_type_clause directly.
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "class_heritage":
			emit(extract.FindChildByKind(child, "extends_clause"), extract.RelationshipExtends)
			emit(extract.FindChildByKind(child, "implements_clause"), extract.RelationshipImplements)
		case "extends_clause", "extends_type_clause":
			emit(child, extract.RelationshipExtends)
		case "implements_clause":
			emit(child, extract.RelationshipImplements)
		}
	}

	return relationships
}

// tsVisibility resolves an explicit accessibility modifier, falling back to
// the naming heuristic.
func tsVisibility(node *sitter.Node, name string, src []byte) extract.Visibility {
	if mod := extract.FindChildByKind(node, "accessibility_modifier"); mod != nil {
		switch extract.NodeText(mod, src) {
		case "private":
			return extract.VisibilityPrivate
		case "protected":
			return extract.VisibilityProtected
		case "public":
			return extract.VisibilityPublic
		}
	}
	return extract.InferVisibility(name, extract.VisibilityPublic)
}

// tsSignature renders a declaration's text up to its body.
func tsSignature(node *sitter.Node, src []byte) string {
	text := extract.NodeText(node, src)
	if idx := strings.Index(text, "{"); idx > 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
