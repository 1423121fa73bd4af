package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/polyscope/internal/discovery"
	"github.com/mvp-joe/polyscope/internal/extract"
	"github.com/mvp-joe/polyscope/internal/extract/langs"
	"github.com/mvp-joe/polyscope/internal/watcher"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Re-extract files as they change",
	Long: `Watch monitors a source tree and re-runs extraction on files as they
change, emitting one JSON result per re-extracted file to stdout.

Deleted files produce a result with empty symbol tables, so downstream
consumers can drop their stale entries.

Examples:
  # Watch the current directory
  polyscope watch

  # Watch a specific tree, symbols only
  polyscope watch ./src --stages symbols
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringSliceVar(&stagesFlag, "stages", nil, "Pipeline stages to run (symbols,identifiers,relationships,types)")
	watchCmd.Flags().IntVar(&workersFlag, "workers", 0, "Concurrent file extractions (0 = number of CPUs)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	rootDir, cfg, err := loadRunConfig(args)
	if err != nil {
		return err
	}

	manager := extract.NewManager(langs.Default())
	enc := json.NewEncoder(os.Stdout)
	if cfg.Output.Pretty {
		enc.SetIndent("", "  ")
	}

	w, err := watcher.New([]string{rootDir}, watchedExtensions(cfg.Paths.Include), 0)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Stop()

	err = w.Start(ctx, func(changed []string) {
		files := make([]*extract.File, 0, len(changed))
		for _, path := range changed {
			file, err := discovery.LoadFile(path)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					// Deleted: emit an empty result so consumers can evict.
					files = append(files, &extract.File{
						Path:     path,
						Language: discovery.DetectLanguage(path, nil),
					})
					continue
				}
				fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", path, err)
				continue
			}
			files = append(files, file)
		}

		results := manager.ExtractBatch(ctx, files, extract.BatchOptions{
			Workers: cfg.Extraction.Workers,
			Stages:  cfg.Stages(),
		})
		for _, res := range results {
			if err := enc.Encode(res); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to encode result for %s: %v\n", res.FilePath, err)
			}
		}
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	log.Printf("Watching %s for changes (Ctrl+C to stop)", rootDir)
	<-ctx.Done()
	return nil
}

// watchedExtensions derives the extension filter from include patterns:
// "**/*.py" watches ".py".
func watchedExtensions(patterns []string) []string {
	seen := map[string]bool{}
	var exts []string
	for _, pattern := range patterns {
		ext := filepath.Ext(pattern)
		if ext == "" || ext == "." || seen[ext] {
			continue
		}
		seen[ext] = true
		exts = append(exts, ext)
	}
	return exts
}
