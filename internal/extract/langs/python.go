package langs

import (
	"path/filepath"
	"regexp"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/polyscope/internal/extract"
)

// pythonExtractor extracts symbols from Python sources. Visibility follows
// the underscore convention; decorators land in symbol metadata by bare name.
type pythonExtractor struct{}

var pythonErrorPatterns = []errorPattern{
	{regexp.MustCompile(`(?m)^\s*def\s+([A-Za-z_][A-Za-z0-9_]*)`), extract.SymbolFunction},
	{regexp.MustCompile(`(?m)^\s*class\s+([A-Za-z_][A-Za-z0-9_]*)`), extract.SymbolClass},
}

func (pythonExtractor) ExtractSymbols(root *sitter.Node, file *extract.File) []extract.Symbol {
	b := extract.NewSymbolBuilder(file)
	symbols := make([]extract.Symbol, 0)

	// Every file gets a module symbol so top-level declarations and import
	// relationships have a uniform anchor.
	moduleName := strings.TrimSuffix(filepath.Base(file.Path), filepath.Ext(file.Path))
	module := b.Symbol(root, moduleName, extract.SymbolModule, extract.SymbolOptions{})
	symbols = append(symbols, module)
	b.Context().Push(module.ID)

	var walk func(node *sitter.Node, decorators []string, inClass, inFunc bool)
	walk = func(node *sitter.Node, decorators []string, inClass, inFunc bool) {
		switch node.Kind() {
		case "decorated_definition":
			var names []string
			for _, d := range extract.FindChildrenByKind(node, "decorator") {
				if name := extract.DecoratorName(extract.NodeText(d, file.Source)); name != "" {
					names = append(names, name)
				}
			}
			if def := node.ChildByFieldName("definition"); def != nil {
				walk(def, names, inClass, inFunc)
			}
			return

		case "class_definition":
			name := extract.NameOf(node, file.Source)
			if name == "" {
				return
			}
			sym := b.Symbol(node, name, extract.SymbolClass, extract.SymbolOptions{
				Doc:      extract.DocComment(node, file.Source),
				Metadata: decoratorMetadata(decorators, ""),
			})
			symbols = append(symbols, sym)
			b.Context().Push(sym.ID)
			if body := node.ChildByFieldName("body"); body != nil {
				for i := uint(0); i < body.ChildCount(); i++ {
					walk(body.Child(i), nil, true, inFunc)
				}
			}
			b.Context().Pop()
			return

		case "function_definition":
			name := extract.NameOf(node, file.Source)
			if name == "" {
				return
			}
			kind := extract.SymbolFunction
			if inClass {
				kind = extract.SymbolMethod
			}
			sym := b.Symbol(node, name, kind, extract.SymbolOptions{
				Signature: pythonSignature(node, file.Source),
				Doc:       extract.DocComment(node, file.Source),
				Metadata:  decoratorMetadata(decorators, ""),
			})
			symbols = append(symbols, sym)
			b.Context().Push(sym.ID)
			if body := node.ChildByFieldName("body"); body != nil {
				for i := uint(0); i < body.ChildCount(); i++ {
					walk(body.Child(i), nil, false, true)
				}
			}
			b.Context().Pop()
			return

		case "expression_statement":
			// Module-level and class-level assignments become variables,
			// constants (ALL_CAPS convention), or properties. Locals inside
			// functions are deliberately skipped.
			if inFunc {
				return
			}
			if assign := extract.FindChildByKind(node, "assignment"); assign != nil {
				if sym, ok := pythonAssignment(b, assign, file.Source, inClass); ok {
					symbols = append(symbols, sym)
				}
			}
			return

		case "ERROR":
			symbols = append(symbols, recoverSymbols(b, node, file.Source, pythonErrorPatterns)...)
			return
		}

		for i := uint(0); i < node.ChildCount(); i++ {
			walk(node.Child(i), decorators, inClass, inFunc)
		}
	}

	for i := uint(0); i < root.ChildCount(); i++ {
		walk(root.Child(i), nil, false, false)
	}
	return symbols
}

// pythonAssignment builds a symbol for one class- or module-level assignment.
func pythonAssignment(b *extract.SymbolBuilder, assign *sitter.Node, source []byte, inClass bool) (extract.Symbol, bool) {
	left := assign.ChildByFieldName("left")
	if left == nil || left.Kind() != "identifier" {
		return extract.Symbol{}, false
	}
	name := extract.NodeText(left, source)
	if name == "" {
		return extract.Symbol{}, false
	}

	kind := extract.SymbolVariable
	switch {
	case inClass:
		kind = extract.SymbolProperty
	case isUpperSnake(name):
		kind = extract.SymbolConstant
	}

	metadata := map[string]string{}
	if right := assign.ChildByFieldName("right"); right != nil {
		metadata[extract.MetadataValue] = extract.NodeText(right, source)
	}

	return b.Symbol(assign, name, kind, extract.SymbolOptions{Metadata: metadata}), true
}

func (pythonExtractor) ExtractIdentifiers(root *sitter.Node, file *extract.File, symbols []extract.Symbol) []extract.Identifier {
	b := extract.NewSymbolBuilder(file)
	identifiers := make([]extract.Identifier, 0)

	extract.WalkTree(root, func(n *sitter.Node) bool {
		line := int(n.StartPosition().Row) + 1
		switch n.Kind() {
		case "call":
			if name := callee(n.ChildByFieldName("function"), file.Source); name != "" {
				identifiers = append(identifiers, b.Identifier(n, name, extract.IdentifierCall, containingSymbolID(symbols, line)))
			}
		case "import_statement":
			for i := uint(0); i < n.ChildCount(); i++ {
				child := n.Child(i)
				if child.Kind() == "dotted_name" || child.Kind() == "aliased_import" {
					identifiers = append(identifiers, b.Identifier(child, extract.NodeText(child, file.Source), extract.IdentifierImport, containingSymbolID(symbols, line)))
				}
			}
		case "import_from_statement":
			if mod := n.ChildByFieldName("module_name"); mod != nil {
				identifiers = append(identifiers, b.Identifier(mod, extract.NodeText(mod, file.Source), extract.IdentifierImport, containingSymbolID(symbols, line)))
			}
		case "assignment":
			if left := n.ChildByFieldName("left"); left != nil && left.Kind() == "identifier" {
				identifiers = append(identifiers, b.Identifier(left, extract.NodeText(left, file.Source), extract.IdentifierWrite, containingSymbolID(symbols, line)))
			}
		}
		return true
	})

	return identifiers
}

func (pythonExtractor) ExtractRelationships(root *sitter.Node, file *extract.File, symbols []extract.Symbol) []extract.Relationship {
	b := extract.NewSymbolBuilder(file)
	relationships := make([]extract.Relationship, 0)

	extract.WalkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "class_definition":
			className := extract.NameOf(n, file.Source)
			classID := symbolIDByName(symbols, className)
			if classID == "" {
				return true
			}
			if supers := n.ChildByFieldName("superclasses"); supers != nil {
				for i := uint(0); i < supers.ChildCount(); i++ {
					base := supers.Child(i)
					if base.Kind() != "identifier" && base.Kind() != "attribute" {
						continue
					}
					baseName := extract.NodeText(base, file.Source)
					if toID := symbolIDByName(symbols, baseName); toID != "" {
						relationships = append(relationships, b.Relationship(base, classID, toID, extract.RelationshipExtends))
					} else {
						relationships = append(relationships, b.UnresolvedRelationship(base, classID, baseName, extract.RelationshipExtends, 1.0))
					}
				}
			}

		case "import_statement", "import_from_statement":
			fromID := containingSymbolID(symbols, int(n.StartPosition().Row)+1)
			if fromID == "" {
				return true
			}
			target := ""
			if mod := n.ChildByFieldName("module_name"); mod != nil {
				target = extract.NodeText(mod, file.Source)
			} else if dotted := extract.FindChildByKind(n, "dotted_name"); dotted != nil {
				target = extract.NodeText(dotted, file.Source)
			}
			if target != "" {
				relationships = append(relationships, b.UnresolvedRelationship(n, fromID, target, extract.RelationshipImports, 1.0))
			}

		case "call":
			line := int(n.StartPosition().Row) + 1
			if rel, ok := callRelationship(b, n, symbols, line, callee(n.ChildByFieldName("function"), file.Source)); ok {
				relationships = append(relationships, rel)
			}
		}
		return true
	})

	return relationships
}

func (pythonExtractor) InferTypes(symbols []extract.Symbol) extract.TypeInfo {
	return extract.InferLiteralTypes(symbols)
}

// pythonSignature renders "name(params) -> return" from a function node.
func pythonSignature(node *sitter.Node, source []byte) string {
	sig := extract.NameOf(node, source)
	if params := node.ChildByFieldName("parameters"); params != nil {
		sig += extract.NodeText(params, source)
	} else {
		sig += "()"
	}
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		sig += " -> " + extract.NodeText(ret, source)
	}
	return sig
}

// decoratorMetadata records decorator names (and optionally a raw modifier
// string) as symbol metadata.
func decoratorMetadata(decorators []string, modifiers string) map[string]string {
	if len(decorators) == 0 && modifiers == "" {
		return nil
	}
	md := map[string]string{}
	if len(decorators) > 0 {
		md["decorators"] = strings.Join(decorators, ",")
	}
	if modifiers != "" {
		md["modifiers"] = modifiers
	}
	return md
}

// isUpperSnake reports whether a name follows the ALL_CAPS constant
// convention.
func isUpperSnake(name string) bool {
	if name == "" {
		return false
	}
	hasLetter := false
	for _, ch := range name {
		if ch >= 'a' && ch <= 'z' {
			return false
		}
		if ch >= 'A' && ch <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}
