package extract

import (
	"regexp"
	"strings"
)

// Compiled once at package init and only ever read afterwards, so every
// concurrent extraction shares the same tables.
var (
	integerRe = regexp.MustCompile(`^-?\d+$`)
	floatRe   = regexp.MustCompile(`^-?\d+\.\d+$`)
	pathRe    = regexp.MustCompile(`^(/|\./|\.\./|~/)[^\s]*$`)
)

// MetadataValue is the metadata key under which language extractors stash a
// variable's initializer text for type inference.
const MetadataValue = "value"

// InferLiteralType classifies a literal's source text into a coarse type
// tag. The classification is a heuristic, not a type system: anything not
// recognized is "string".
func InferLiteralType(text string) string {
	text = strings.TrimSpace(text)
	text = strings.Trim(text, `"'`)

	switch {
	case text == "true" || text == "false":
		return "boolean"
	case integerRe.MatchString(text):
		return "integer"
	case floatRe.MatchString(text):
		return "float"
	case pathRe.MatchString(text):
		return "path"
	case strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]"):
		return "array"
	case strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}"):
		return "struct"
	default:
		return "string"
	}
}

// InferLiteralTypes builds a TypeInfo mapping for symbols whose extractor
// recorded an initializer under MetadataValue. Symbols without a recorded
// value are omitted: absence means "not inferred", never an error.
func InferLiteralTypes(symbols []Symbol) TypeInfo {
	types := TypeInfo{}
	for _, sym := range symbols {
		value, ok := sym.Metadata[MetadataValue]
		if !ok || value == "" {
			continue
		}
		types[sym.Name] = InferLiteralType(value)
	}
	return types
}
