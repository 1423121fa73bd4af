package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/mvp-joe/polyscope/internal/extract"
)

// progressReporter renders extraction progress with a progress bar.
type progressReporter struct {
	quiet     bool
	bar       *progressbar.ProgressBar
	startTime time.Time

	files         int
	symbols       int
	identifiers   int
	relationships int
	diagnostics   int
}

// newProgressReporter creates a reporter; quiet suppresses all non-error
// output.
func newProgressReporter(quiet bool) *progressReporter {
	return &progressReporter{
		quiet:     quiet,
		startTime: time.Now(),
	}
}

func (p *progressReporter) onDiscoveryComplete(fileCount int) {
	if p.quiet {
		return
	}
	log.Printf("Extracting from %d files\n", fileCount)

	p.bar = progressbar.NewOptions(fileCount,
		progressbar.OptionSetDescription("Extracting symbols"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

// onFileExtracted tallies one file's results. Serialized by the batch
// runner's OnResult callback, so no locking is needed here.
func (p *progressReporter) onFileExtracted(res *extract.ExtractionResults) {
	p.files++
	p.symbols += len(res.Symbols)
	p.identifiers += len(res.Identifiers)
	p.relationships += len(res.Relationships)
	p.diagnostics += len(res.Diagnostics)

	if p.quiet || p.bar == nil {
		return
	}
	p.bar.Add(1)
}

func (p *progressReporter) onComplete() {
	if p.quiet {
		return
	}

	elapsed := time.Since(p.startTime).Seconds()
	fmt.Printf("✓ Extraction complete: %d symbols, %d identifiers, %d relationships from %d files in %.1fs\n",
		p.symbols, p.identifiers, p.relationships, p.files, elapsed)
	if p.diagnostics > 0 {
		fmt.Printf("  Diagnostics: %d (see output for details)\n", p.diagnostics)
	}
}
