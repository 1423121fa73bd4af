package langs

import (
	"path/filepath"
	"regexp"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/polyscope/internal/extract"
)

// cExtractor extracts symbols from C sources. C has no access-control
// syntax, so everything defaults to public; static file-scope objects map
// to internal.
type cExtractor struct{}

var cErrorPatterns = []errorPattern{
	{regexp.MustCompile(`(?m)^\s*(?:[A-Za-z_][A-Za-z0-9_*\s]*\s)?([A-Za-z_][A-Za-z0-9_]*)\s*\([^;]*$`), extract.SymbolFunction},
	{regexp.MustCompile(`(?m)\bstruct\s+([A-Za-z_][A-Za-z0-9_]*)`), extract.SymbolStruct},
}

func (cExtractor) ExtractSymbols(root *sitter.Node, file *extract.File) []extract.Symbol {
	b := extract.NewSymbolBuilder(file)
	symbols := make([]extract.Symbol, 0)
	src := file.Source

	// File-level anchor for includes and top-level declarations.
	moduleName := strings.TrimSuffix(filepath.Base(file.Path), filepath.Ext(file.Path))
	module := b.Symbol(root, moduleName, extract.SymbolModule, extract.SymbolOptions{})
	symbols = append(symbols, module)
	b.Context().Push(module.ID)

	for i := uint(0); i < root.ChildCount(); i++ {
		node := root.Child(i)
		switch node.Kind() {
		case "function_definition":
			name := cDeclaratorName(node.ChildByFieldName("declarator"), src)
			if name == "" {
				continue
			}
			symbols = append(symbols, b.Symbol(node, name, extract.SymbolFunction, extract.SymbolOptions{
				Signature:  cSignature(node, src),
				Visibility: cVisibility(node, src),
				Doc:        extract.DocComment(node, src),
			}))

		case "struct_specifier", "enum_specifier", "union_specifier":
			name := extract.NameOf(node, src)
			if name == "" {
				continue
			}
			kind := extract.SymbolStruct
			if node.Kind() == "enum_specifier" {
				kind = extract.SymbolEnum
			}
			symbols = append(symbols, b.Symbol(node, name, kind, extract.SymbolOptions{
				Doc: extract.DocComment(node, src),
			}))

		case "type_definition":
			if decl := node.ChildByFieldName("declarator"); decl != nil {
				name := extract.NodeText(decl, src)
				if name != "" {
					symbols = append(symbols, b.Symbol(node, name, extract.SymbolType, extract.SymbolOptions{
						Doc: extract.DocComment(node, src),
					}))
				}
			}

		case "declaration":
			for _, init := range extract.FindChildrenByKind(node, "init_declarator") {
				name := cDeclaratorName(init.ChildByFieldName("declarator"), src)
				if name == "" {
					continue
				}
				metadata := map[string]string{}
				if value := init.ChildByFieldName("value"); value != nil {
					metadata[extract.MetadataValue] = extract.NodeText(value, src)
				}
				symbols = append(symbols, b.Symbol(node, name, extract.SymbolVariable, extract.SymbolOptions{
					Visibility: cVisibility(node, src),
					Metadata:   metadata,
				}))
			}

		case "preproc_def":
			name := extract.NameOf(node, src)
			if name == "" {
				continue
			}
			metadata := map[string]string{}
			if value := node.ChildByFieldName("value"); value != nil {
				metadata[extract.MetadataValue] = extract.NodeText(value, src)
			}
			symbols = append(symbols, b.Symbol(node, name, extract.SymbolConstant, extract.SymbolOptions{
				Metadata: metadata,
			}))

		case "ERROR":
			symbols = append(symbols, recoverSymbols(b, node, src, cErrorPatterns)...)
		}
	}

	return symbols
}

func (cExtractor) ExtractIdentifiers(root *sitter.Node, file *extract.File, symbols []extract.Symbol) []extract.Identifier {
	b := extract.NewSymbolBuilder(file)
	identifiers := make([]extract.Identifier, 0)
	src := file.Source

	extract.WalkTree(root, func(n *sitter.Node) bool {
		line := int(n.StartPosition().Row) + 1
		switch n.Kind() {
		case "call_expression":
			if name := callee(n.ChildByFieldName("function"), src); name != "" {
				identifiers = append(identifiers, b.Identifier(n, name, extract.IdentifierCall, containingSymbolID(symbols, line)))
			}
		case "preproc_include":
			if path := n.ChildByFieldName("path"); path != nil {
				name := strings.Trim(extract.NodeText(path, src), `"<>`)
				identifiers = append(identifiers, b.Identifier(n, name, extract.IdentifierImport, containingSymbolID(symbols, line)))
			}
		}
		return true
	})

	return identifiers
}

func (cExtractor) ExtractRelationships(root *sitter.Node, file *extract.File, symbols []extract.Symbol) []extract.Relationship {
	b := extract.NewSymbolBuilder(file)
	relationships := make([]extract.Relationship, 0)
	src := file.Source

	var moduleID string
	if len(symbols) > 0 && symbols[0].Kind == extract.SymbolModule {
		moduleID = symbols[0].ID
	}

	extract.WalkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "preproc_include":
			if moduleID == "" {
				return true
			}
			if path := n.ChildByFieldName("path"); path != nil {
				target := strings.Trim(extract.NodeText(path, src), `"<>`)
				relationships = append(relationships, b.UnresolvedRelationship(n, moduleID, target, extract.RelationshipImports, 1.0))
			}
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

func (cExtractor) InferTypes(symbols []extract.Symbol) extract.TypeInfo {
	return extract.InferLiteralTypes(symbols)
}

// cDeclaratorName digs through pointer/function declarators to the
// underlying identifier.
func cDeclaratorName(decl *sitter.Node, src []byte) string {
	for decl != nil {
		switch decl.Kind() {
		case "identifier":
			return extract.NodeText(decl, src)
		case "function_declarator", "pointer_declarator", "array_declarator", "parenthesized_declarator":
			decl = decl.ChildByFieldName("declarator")
		default:
			return ""
		}
	}
	return ""
}

// cVisibility maps static file-scope linkage to internal.
func cVisibility(node *sitter.Node, src []byte) extract.Visibility {
	for _, spec := range extract.FindChildrenByKind(node, "storage_class_specifier") {
		if extract.NodeText(spec, src) == "static" {
			return extract.VisibilityInternal
		}
	}
	return extract.VisibilityPublic
}

// cSignature renders a definition's text up to its body.
func cSignature(node *sitter.Node, src []byte) string {
	text := extract.NodeText(node, src)
	if idx := strings.Index(text, "{"); idx > 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
