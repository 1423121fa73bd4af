package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mvp-joe/polyscope/internal/extract"
)

// writeResults renders extraction results as JSON to the given path, or to
// stdout when path is empty.
func writeResults(path string, results []*extract.ExtractionResults, pretty bool) error {
	var out io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}
