package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test Plan for literal type inference:
// - Classify literal text into coarse tags (integer, float, boolean, path, ...)
// - Unrecognized text falls back to "string"
// - InferLiteralTypes only maps symbols that recorded an initializer

func TestInferLiteralType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want string
	}{
		{"42", "integer"},
		{"-7", "integer"},
		{"3.14", "float"},
		{"-0.5", "float"},
		{"true", "boolean"},
		{"false", "boolean"},
		{`"./config.yml"`, "path"},
		{"/usr/local/bin", "path"},
		{"~/notes.txt", "path"},
		{"[1, 2, 3]", "array"},
		{`{"a": 1}`, "struct"},
		{`"hello world"`, "string"},
		{"some_function()", "string"},
		{"", "string"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, InferLiteralType(tt.text), "literal %q", tt.text)
	}
}

func TestInferLiteralTypes(t *testing.T) {
	t.Parallel()

	symbols := []Symbol{
		{Name: "MAX_RETRIES", Metadata: map[string]string{MetadataValue: "3"}},
		{Name: "timeout", Metadata: map[string]string{MetadataValue: "1.5"}},
		{Name: "verbose", Metadata: map[string]string{MetadataValue: "false"}},
		{Name: "no_value"},
		{Name: "empty_value", Metadata: map[string]string{MetadataValue: ""}},
	}

	types := InferLiteralTypes(symbols)

	assert.Equal(t, "integer", types["MAX_RETRIES"])
	assert.Equal(t, "float", types["timeout"])
	assert.Equal(t, "boolean", types["verbose"])

	// Absent entries mean "not inferred", never an error.
	_, ok := types["no_value"]
	assert.False(t, ok)
	_, ok = types["empty_value"]
	assert.False(t, ok)
	assert.Len(t, types, 3)
}
