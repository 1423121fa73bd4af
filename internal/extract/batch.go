package extract

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// BatchOptions configures a multi-file extraction run.
type BatchOptions struct {
	// Workers caps concurrent file extractions; <= 0 means GOMAXPROCS.
	Workers int

	// Stages selects the pipeline stages to run per file.
	Stages Stages

	// OnResult, if set, is called once per completed file. Calls are
	// serialized, so the callback needs no locking of its own.
	OnResult func(*ExtractionResults)
}

// ExtractBatch extracts files in parallel. Files are independent units of
// work: results land at the same index as their input, per-file failures
// surface as diagnostics on that file's results, and no failure aborts the
// batch. Within each file the pipeline stays strictly sequential.
func (m *Manager) ExtractBatch(ctx context.Context, files []*File, opts BatchOptions) []*ExtractionResults {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*ExtractionResults, len(files))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, file := range files {
		g.Go(func() error {
			res := m.Extract(gctx, file, opts.Stages)
			results[i] = res

			if opts.OnResult != nil {
				mu.Lock()
				opts.OnResult(res)
				mu.Unlock()
			}
			return nil
		})
	}

	// Workers never return errors; failures live in per-file diagnostics.
	_ = g.Wait()

	return results
}
