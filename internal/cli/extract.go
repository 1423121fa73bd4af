package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/polyscope/internal/config"
	"github.com/mvp-joe/polyscope/internal/discovery"
	"github.com/mvp-joe/polyscope/internal/extract"
	"github.com/mvp-joe/polyscope/internal/extract/langs"
)

var (
	quietFlag   bool
	outputFlag  string
	workersFlag int
	stagesFlag  []string
	prettyFlag  bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract [dir]",
	Short: "Extract symbols from a source tree",
	Long: `Extract parses every matching source file under a directory and emits
symbols, identifiers, relationships, and inferred types as JSON.

Files that fail to parse are reported as diagnostics on their own results;
they never abort the run.

Examples:
  # Extract from the current directory to stdout
  polyscope extract

  # Extract a specific tree into a file
  polyscope extract ./src -o symbols.json

  # Fast symbols-only pass
  polyscope extract --stages symbols
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress output")
	extractCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write JSON results to a file instead of stdout")
	extractCmd.Flags().IntVar(&workersFlag, "workers", 0, "Concurrent file extractions (0 = number of CPUs)")
	extractCmd.Flags().StringSliceVar(&stagesFlag, "stages", nil, "Pipeline stages to run (symbols,identifiers,relationships,types)")
	extractCmd.Flags().BoolVar(&prettyFlag, "pretty", false, "Indent JSON output")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	rootDir, cfg, err := loadRunConfig(args)
	if err != nil {
		return err
	}

	files, err := discoverFiles(rootDir, cfg)
	if err != nil {
		return err
	}

	progress := newProgressReporter(quietFlag || outputFlag == "")
	progress.onDiscoveryComplete(len(files))

	manager := extract.NewManager(langs.Default())
	results := manager.ExtractBatch(ctx, files, extract.BatchOptions{
		Workers: cfg.Extraction.Workers,
		Stages:  cfg.Stages(),
		OnResult: func(res *extract.ExtractionResults) {
			progress.onFileExtracted(res)
		},
	})

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("extraction cancelled")
	}

	if err := writeResults(outputFlag, results, cfg.Output.Pretty); err != nil {
		return err
	}

	progress.onComplete()
	return nil
}

// signalContext returns a context cancelled by SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// loadRunConfig resolves the root directory from args and loads its
// configuration with command-line flags applied on top.
func loadRunConfig(args []string) (string, *config.Config, error) {
	rootDir := "."
	if len(args) > 0 {
		rootDir = args[0]
	}
	rootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return "", nil, fmt.Errorf("failed to resolve root directory: %w", err)
	}

	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Flags win over file and environment.
	if workersFlag > 0 {
		cfg.Extraction.Workers = workersFlag
	}
	if len(stagesFlag) > 0 {
		cfg.Extraction.Stages = stagesFlag
	}
	if prettyFlag {
		cfg.Output.Pretty = true
	}
	if err := config.Validate(cfg); err != nil {
		return "", nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return rootDir, cfg, nil
}

// discoverFiles walks the tree and loads every matching file into an
// extraction input. Unreadable files are skipped with a note on stderr.
func discoverFiles(rootDir string, cfg *config.Config) ([]*extract.File, error) {
	d, err := discovery.New(rootDir, cfg.Paths.Include, cfg.Paths.Ignore)
	if err != nil {
		return nil, err
	}

	paths, err := d.Discover()
	if err != nil {
		return nil, fmt.Errorf("file discovery failed: %w", err)
	}

	files := make([]*extract.File, 0, len(paths))
	for _, path := range paths {
		file, err := discovery.LoadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", path, err)
			continue
		}
		files = append(files, file)
	}
	return files, nil
}
