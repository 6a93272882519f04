package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fluiddruid/telemproc/internal/storage"
)

// orchestrator fans input files out to workers. Files share no state,
// so workers need no synchronization beyond the results channel; the
// single drain loop prints each summary as one block so concurrent
// files never interleave mid-line.
type orchestrator struct {
	config *Config
	store  *storage.Store
	logger *slog.Logger

	wg sync.WaitGroup
}

type fileResult struct {
	path    string
	summary string
	err     error
}

func newOrchestrator(config *Config, store *storage.Store, logger *slog.Logger) *orchestrator {
	return &orchestrator{
		config: config,
		store:  store,
		logger: logger,
	}
}

func (o *orchestrator) Run(ctx context.Context) error {
	workers := min(o.config.Settings.Workers, len(o.config.Inputs))

	jobs := make(chan string)
	results := make(chan fileResult, workers)

	for i := 0; i < workers; i++ {
		o.wg.Add(1)
		go o.worker(ctx, jobs, results)
	}

	go func() {
		defer close(jobs)
		for _, path := range o.config.Inputs {
			select {
			case jobs <- path:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		o.wg.Wait()
		close(results)
	}()

	var failed int
	for res := range results {
		if res.err != nil {
			// Per-file failure: report and continue with the rest.
			o.logger.Error(fmt.Sprintf("skipping %s: %s", res.path, res.err))
			failed++
			continue
		}
		fmt.Print(res.summary)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if failed == len(o.config.Inputs) {
		return fmt.Errorf("all %d input files failed", failed)
	}
	return nil
}

func (o *orchestrator) worker(ctx context.Context, jobs <-chan string, results chan<- fileResult) {
	defer o.wg.Done()

	for path := range jobs {
		summary, err := o.processFile(ctx, path)
		results <- fileResult{path: path, summary: summary, err: err}
	}
}
