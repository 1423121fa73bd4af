package extract

// SymbolKind classifies a declared code entity.
// The set is closed: every language maps onto these kinds so downstream
// consumers see a uniform vocabulary regardless of source language.
type SymbolKind string

const (
	SymbolFunction  SymbolKind = "function"
	SymbolMethod    SymbolKind = "method"
	SymbolClass     SymbolKind = "class"
	SymbolInterface SymbolKind = "interface"
	SymbolStruct    SymbolKind = "struct"
	SymbolEnum      SymbolKind = "enum"
	SymbolTrait     SymbolKind = "trait"
	SymbolType      SymbolKind = "type"
	SymbolVariable  SymbolKind = "variable"
	SymbolConstant  SymbolKind = "constant"
	SymbolProperty  SymbolKind = "property"
	SymbolField     SymbolKind = "field"
	SymbolModule    SymbolKind = "module"
	SymbolNamespace SymbolKind = "namespace"
	SymbolEvent     SymbolKind = "event"
)

// Visibility is the access level of a symbol. Public is the default when a
// language has no explicit access-control syntax; naming conventions
// (leading underscore, leading #) downgrade it.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityInternal  Visibility = "internal"
	VisibilityPrivate   Visibility = "private"
)

// IdentifierKind classifies a reference-site occurrence of a name.
type IdentifierKind string

const (
	IdentifierCall   IdentifierKind = "call"
	IdentifierRead   IdentifierKind = "read"
	IdentifierWrite  IdentifierKind = "write"
	IdentifierImport IdentifierKind = "import"
)

// RelationshipKind classifies a directed link between two symbols.
type RelationshipKind string

const (
	RelationshipExtends    RelationshipKind = "extends"
	RelationshipImplements RelationshipKind = "implements"
	RelationshipCalls      RelationshipKind = "calls"
	RelationshipImports    RelationshipKind = "imports"
	RelationshipReferences RelationshipKind = "references"
)

// Span is the source location of a symbol, identifier, or relationship.
// Lines are 1-indexed; columns are 0-indexed byte columns as reported by
// tree-sitter.
type Span struct {
	File        string `json:"file"`
	StartLine   int    `json:"start_line"`
	StartColumn int    `json:"start_column"`
	EndLine     int    `json:"end_line"`
	EndColumn   int    `json:"end_column"`
}

// Symbol is a declared program entity: a function, class, variable, etc.
// IDs are deterministic hashes of (file, location, name, kind), so re-running
// extraction on unchanged content yields identical IDs with no shared counter.
type Symbol struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Kind       SymbolKind        `json:"kind"`
	Visibility Visibility        `json:"visibility"`
	Signature  string            `json:"signature,omitempty"`
	ParentID   string            `json:"parent_id,omitempty"` // lookup key of the enclosing symbol, not ownership
	Doc        string            `json:"doc,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Span       Span              `json:"span"`
	Language   string            `json:"language"`
}

// Identifier is a reference-site occurrence of a name, distinct from its
// declaration. It never introduces a new Symbol.
type Identifier struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Kind     IdentifierKind `json:"kind"`
	SymbolID string         `json:"symbol_id,omitempty"` // containing symbol, if known
	Span     Span           `json:"span"`
}

// Relationship is a directed, kind-tagged link between two symbols.
// ToID is set when the target was resolved within the file; ToName carries
// the bare name otherwise, leaving resolution to the downstream linker.
// Confidence below 1.0 marks a heuristic match; treat it as an ordering hint
// for ranking, not a calibrated probability.
type Relationship struct {
	FromID     string           `json:"from_id"`
	ToID       string           `json:"to_id,omitempty"`
	ToName     string           `json:"to_name,omitempty"`
	Kind       RelationshipKind `json:"kind"`
	Confidence float64          `json:"confidence"`
	Span       Span             `json:"span"`
}

// TypeInfo maps symbol names to best-effort coarse type tags ("integer",
// "string", "path", ...). A missing entry means "not inferred", never error.
type TypeInfo map[string]string

// Severity grades a diagnostic.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic reports a non-fatal extraction problem for one file.
type Diagnostic struct {
	File     string   `json:"file"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// ExtractionResults is the aggregate output of one file's extraction.
// It is built once per pipeline invocation and not mutated afterwards.
type ExtractionResults struct {
	FilePath      string         `json:"file_path"`
	Language      string         `json:"language"`
	Symbols       []Symbol       `json:"symbols"`
	Identifiers   []Identifier   `json:"identifiers"`
	Relationships []Relationship `json:"relationships"`
	Types         TypeInfo       `json:"types"`
	Diagnostics   []Diagnostic   `json:"diagnostics"`
}

// File is one unit of extraction input: raw source plus the language tag
// detected by the caller (extension or shebang).
type File struct {
	Path     string
	Source   []byte
	Language string
}
