package langs

import (
	"regexp"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/polyscope/internal/extract"
)

// rubyExtractor extracts symbols from Ruby sources. Constants follow the
// capitalized-name convention; require calls double as import records.
type rubyExtractor struct{}

var rubyErrorPatterns = []errorPattern{
	{regexp.MustCompile(`(?m)^\s*def\s+([A-Za-z_][A-Za-z0-9_?!=]*)`), extract.SymbolMethod},
	{regexp.MustCompile(`(?m)^\s*class\s+([A-Z][A-Za-z0-9_]*)`), extract.SymbolClass},
	{regexp.MustCompile(`(?m)^\s*module\s+([A-Z][A-Za-z0-9_]*)`), extract.SymbolModule},
}

func (rubyExtractor) ExtractSymbols(root *sitter.Node, file *extract.File) []extract.Symbol {
	b := extract.NewSymbolBuilder(file)
	symbols := make([]extract.Symbol, 0)
	src := file.Source

	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		switch node.Kind() {
		case "class", "module":
			name := extract.NameOf(node, src)
			if name == "" {
				return
			}
			kind := extract.SymbolClass
			if node.Kind() == "module" {
				kind = extract.SymbolModule
			}
			sym := b.Symbol(node, name, kind, extract.SymbolOptions{
				Doc: extract.DocComment(node, src),
			})
			symbols = append(symbols, sym)
			b.Context().Push(sym.ID)
			for i := uint(0); i < node.ChildCount(); i++ {
				walk(node.Child(i))
			}
			b.Context().Pop()
			return

		case "method", "singleton_method":
			name := extract.NameOf(node, src)
			if name == "" {
				return
			}
			kind := extract.SymbolMethod
			if b.Context().Depth() == 0 {
				kind = extract.SymbolFunction
			}
			symbols = append(symbols, b.Symbol(node, name, kind, extract.SymbolOptions{
				Signature: rubySignature(node, src),
				Doc:       extract.DocComment(node, src),
			}))
			// Method bodies only declare locals; skip them.
			return

		case "assignment":
			left := node.ChildByFieldName("left")
			if left == nil || left.Kind() != "constant" && left.Kind() != "identifier" {
				break
			}
			name := extract.NodeText(left, src)
			if name == "" {
				break
			}
			kind := extract.SymbolVariable
			if left.Kind() == "constant" {
				kind = extract.SymbolConstant
			}
			metadata := map[string]string{}
			if right := node.ChildByFieldName("right"); right != nil {
				metadata[extract.MetadataValue] = extract.NodeText(right, src)
			}
			symbols = append(symbols, b.Symbol(node, name, kind, extract.SymbolOptions{
				Metadata: metadata,
			}))
			return

		case "ERROR":
			symbols = append(symbols, recoverSymbols(b, node, src, rubyErrorPatterns)...)
			return
		}

		for i := uint(0); i < node.ChildCount(); i++ {
			walk(node.Child(i))
		}
	}

	walk(root)
	return symbols
}

func (rubyExtractor) ExtractIdentifiers(root *sitter.Node, file *extract.File, symbols []extract.Symbol) []extract.Identifier {
	b := extract.NewSymbolBuilder(file)
	identifiers := make([]extract.Identifier, 0)
	src := file.Source

	extract.WalkTree(root, func(n *sitter.Node) bool {
		if n.Kind() != "call" {
			return true
		}
		line := int(n.StartPosition().Row) + 1
		name := callee(n.ChildByFieldName("method"), src)
		if name == "" {
			return true
		}
		if name == "require" || name == "require_relative" {
			if target := rubyRequireTarget(n, src); target != "" {
				identifiers = append(identifiers, b.Identifier(n, target, extract.IdentifierImport, containingSymbolID(symbols, line)))
			}
			return true
		}
		identifiers = append(identifiers, b.Identifier(n, name, extract.IdentifierCall, containingSymbolID(symbols, line)))
		return true
	})

	return identifiers
}

func (rubyExtractor) ExtractRelationships(root *sitter.Node, file *extract.File, symbols []extract.Symbol) []extract.Relationship {
	b := extract.NewSymbolBuilder(file)
	relationships := make([]extract.Relationship, 0)
	src := file.Source

	extract.WalkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "class":
			classID := symbolIDByName(symbols, extract.NameOf(n, src))
			if classID == "" {
				return true
			}
			if super := n.ChildByFieldName("superclass"); super != nil {
				name := strings.TrimLeft(extract.NodeText(super, src), "< ")
				if toID := symbolIDByName(symbols, name); toID != "" {
					relationships = append(relationships, b.Relationship(super, classID, toID, extract.RelationshipExtends))
				} else if name != "" {
					relationships = append(relationships, b.UnresolvedRelationship(super, classID, name, extract.RelationshipExtends, 1.0))
				}
			}

		case "call":
			line := int(n.StartPosition().Row) + 1
			name := callee(n.ChildByFieldName("method"), src)
			if name == "require" || name == "require_relative" {
				fromID := containingSymbolID(symbols, line)
				if fromID == "" && len(symbols) > 0 {
					fromID = symbols[0].ID
				}
				if target := rubyRequireTarget(n, src); target != "" && fromID != "" {
					relationships = append(relationships, b.UnresolvedRelationship(n, fromID, target, extract.RelationshipImports, 1.0))
				}
				return true
			}
			if rel, ok := callRelationship(b, n, symbols, line, name); ok {
				relationships = append(relationships, rel)
			}
		}
		return true
	})

	return relationships
}

func (rubyExtractor) InferTypes(symbols []extract.Symbol) extract.TypeInfo {
	return extract.InferLiteralTypes(symbols)
}

// rubyRequireTarget pulls the string argument out of a require call.
func rubyRequireTarget(call *sitter.Node, src []byte) string {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return ""
	}
	str := extract.FindChildByKind(args, "string")
	if str == nil {
		return ""
	}
	return strings.Trim(extract.NodeText(str, src), `"'`)
}

// rubySignature renders the def line of a method.
func rubySignature(node *sitter.Node, src []byte) string {
	text := extract.NodeText(node, src)
	if idx := strings.IndexAny(text, "\n"); idx > 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
