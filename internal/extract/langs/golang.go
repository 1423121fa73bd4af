package langs

import (
	"regexp"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/polyscope/internal/extract"
)

// goExtractor extracts symbols from Go sources. Exported (capitalized) names
// are public; everything else is package-scoped and mapped to internal.
type goExtractor struct{}

var goErrorPatterns = []errorPattern{
	{regexp.MustCompile(`(?m)^\s*func\s+(?:\([^)]*\)\s*)?([A-Za-z_][A-Za-z0-9_]*)`), extract.SymbolFunction},
	{regexp.MustCompile(`(?m)^\s*type\s+([A-Za-z_][A-Za-z0-9_]*)`), extract.SymbolType},
}

func (goExtractor) ExtractSymbols(root *sitter.Node, file *extract.File) []extract.Symbol {
	b := extract.NewSymbolBuilder(file)
	symbols := make([]extract.Symbol, 0)
	src := file.Source

	// Package symbol anchors all top-level declarations.
	if pkg := extract.FindChildByKind(root, "package_clause"); pkg != nil {
		name := extract.NodeText(extract.FindChildByKind(pkg, "package_identifier"), src)
		if name != "" {
			sym := b.Symbol(pkg, name, extract.SymbolModule, extract.SymbolOptions{
				Doc: extract.DocComment(pkg, src),
			})
			symbols = append(symbols, sym)
			b.Context().Push(sym.ID)
		}
	}

	for i := uint(0); i < root.ChildCount(); i++ {
		node := root.Child(i)
		switch node.Kind() {
		case "function_declaration":
			name := extract.NameOf(node, src)
			if name == "" {
				continue
			}
			symbols = append(symbols, b.Symbol(node, name, extract.SymbolFunction, extract.SymbolOptions{
				Signature:  goSignature(node, src),
				Visibility: goVisibility(name),
				Doc:        extract.DocComment(node, src),
			}))

		case "method_declaration":
			name := extract.NameOf(node, src)
			if name == "" {
				continue
			}
			metadata := map[string]string{}
			if recv := node.ChildByFieldName("receiver"); recv != nil {
				metadata["receiver"] = strings.Trim(extract.NodeText(recv, src), "()")
			}
			symbols = append(symbols, b.Symbol(node, name, extract.SymbolMethod, extract.SymbolOptions{
				Signature:  goSignature(node, src),
				Visibility: goVisibility(name),
				Doc:        extract.DocComment(node, src),
				Metadata:   metadata,
			}))

		case "type_declaration":
			for _, spec := range extract.FindChildrenByKind(node, "type_spec") {
				sym, fields := goTypeSpec(b, spec, node, src)
				if sym.Name == "" {
					continue
				}
				symbols = append(symbols, sym)
				symbols = append(symbols, fields...)
			}

		case "const_declaration", "var_declaration":
			kind := extract.SymbolVariable
			specKind := "var_spec"
			if node.Kind() == "const_declaration" {
				kind = extract.SymbolConstant
				specKind = "const_spec"
			}
			for _, spec := range extract.FindChildrenByKind(node, specKind) {
				name := extract.NameOf(spec, src)
				if name == "" {
					continue
				}
				metadata := map[string]string{}
				if value := spec.ChildByFieldName("value"); value != nil {
					metadata[extract.MetadataValue] = extract.NodeText(value, src)
				}
				symbols = append(symbols, b.Symbol(spec, name, kind, extract.SymbolOptions{
					Visibility: goVisibility(name),
					Doc:        extract.DocComment(node, src),
					Metadata:   metadata,
				}))
			}

		case "ERROR":
			symbols = append(symbols, recoverSymbols(b, node, src, goErrorPatterns)...)
		}
	}

	return symbols
}

// goTypeSpec builds the symbol for one type spec plus field symbols for
// struct and interface bodies.
func goTypeSpec(b *extract.SymbolBuilder, spec, decl *sitter.Node, src []byte) (extract.Symbol, []extract.Symbol) {
	name := extract.NameOf(spec, src)
	if name == "" {
		return extract.Symbol{}, nil
	}

	kind := extract.SymbolType
	typeNode := spec.ChildByFieldName("type")
	if typeNode != nil {
		switch typeNode.Kind() {
		case "struct_type":
			kind = extract.SymbolStruct
		case "interface_type":
			kind = extract.SymbolInterface
		}
	}

	sym := b.Symbol(spec, name, kind, extract.SymbolOptions{
		Visibility: goVisibility(name),
		Doc:        extract.DocComment(decl, src),
	})

	var fields []extract.Symbol
	if kind == extract.SymbolStruct && typeNode != nil {
		if list := extract.FindChildByKind(typeNode, "field_declaration_list"); list != nil {
			for _, field := range extract.FindChildrenByKind(list, "field_declaration") {
				fieldName := extract.NameOf(field, src)
				if fieldName == "" {
					continue // embedded field
				}
				fields = append(fields, b.Symbol(field, fieldName, extract.SymbolField, extract.SymbolOptions{
					Visibility: goVisibility(fieldName),
					ParentID:   sym.ID,
				}))
			}
		}
	}

	return sym, fields
}

func (goExtractor) ExtractIdentifiers(root *sitter.Node, file *extract.File, symbols []extract.Symbol) []extract.Identifier {
	b := extract.NewSymbolBuilder(file)
	identifiers := make([]extract.Identifier, 0)

	extract.WalkTree(root, func(n *sitter.Node) bool {
		line := int(n.StartPosition().Row) + 1
		switch n.Kind() {
		case "call_expression":
			if name := callee(n.ChildByFieldName("function"), file.Source); name != "" {
				identifiers = append(identifiers, b.Identifier(n, name, extract.IdentifierCall, containingSymbolID(symbols, line)))
			}
		case "import_spec":
			if path := n.ChildByFieldName("path"); path != nil {
				name := strings.Trim(extract.NodeText(path, file.Source), `"`)
				identifiers = append(identifiers, b.Identifier(n, name, extract.IdentifierImport, containingSymbolID(symbols, line)))
			}
		case "assignment_statement", "short_var_declaration":
			if left := n.ChildByFieldName("left"); left != nil {
				for i := uint(0); i < left.ChildCount(); i++ {
					target := left.Child(i)
					if target.Kind() == "identifier" {
						identifiers = append(identifiers, b.Identifier(target, extract.NodeText(target, file.Source), extract.IdentifierWrite, containingSymbolID(symbols, line)))
					}
				}
			}
		}
		return true
	})

	return identifiers
}

func (goExtractor) ExtractRelationships(root *sitter.Node, file *extract.File, symbols []extract.Symbol) []extract.Relationship {
	b := extract.NewSymbolBuilder(file)
	relationships := make([]extract.Relationship, 0)

	var packageID string
	for _, sym := range symbols {
		if sym.Kind == extract.SymbolModule {
			packageID = sym.ID
			break
		}
	}

	extract.WalkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "import_spec":
			if packageID == "" {
				return true
			}
			if path := n.ChildByFieldName("path"); path != nil {
				target := strings.Trim(extract.NodeText(path, file.Source), `"`)
				relationships = append(relationships, b.UnresolvedRelationship(n, packageID, target, extract.RelationshipImports, 1.0))
			}
		case "call_expression":
			line := int(n.StartPosition().Row) + 1
			if rel, ok := callRelationship(b, n, symbols, line, callee(n.ChildByFieldName("function"), file.Source)); ok {
				relationships = append(relationships, rel)
			}
		}
		return true
	})

	return relationships
}

func (goExtractor) InferTypes(symbols []extract.Symbol) extract.TypeInfo {
	return extract.InferLiteralTypes(symbols)
}

// goSignature renders a declaration's text up to its body.
func goSignature(node *sitter.Node, src []byte) string {
	text := extract.NodeText(node, src)
	if idx := strings.Index(text, "{"); idx > 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// goVisibility maps Go's export rule onto the shared lattice: exported names
// are public, unexported names are package-scoped.
func goVisibility(name string) extract.Visibility {
	if name == "" {
		return extract.VisibilityInternal
	}
	first := name[0]
	if first >= 'A' && first <= 'Z' {
		return extract.VisibilityPublic
	}
	return extract.VisibilityInternal
}
