package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/yaklabco/gofurigana/internal/logging"
)

// Runner processes every discovered document with a Pipeline.
type Runner struct {
	Pipeline *Pipeline
}

// New returns a Runner using pipeline.
func New(pipeline *Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// job is one discovered file and its position in the sorted file list.
type job struct {
	index int
	path  string
}

// Run discovers documents and processes them on opts.Jobs workers (one per
// CPU when zero). Outcomes are reported in discovery order whatever order
// the workers finish in. On cancellation the files finished so far are
// returned together with the context error.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	pipelineOpts, err := PipelineOptionsFromConfig(opts.Config)
	if err != nil {
		return nil, fmt.Errorf("pipeline options: %w", err)
	}

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	pipelineOpts.BaseDir = workDir
	pipelineOpts.OutDir = opts.outDir(workDir)

	logging.FromContext(ctx).Debug("discovered files",
		logging.FieldFilesDiscovered, len(files), logging.FieldWorkingDir, workDir)

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	workers := opts.Jobs
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, len(files))

	jobs := make(chan job)
	outcomes := make([]*FileOutcome, len(files))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				outcome := r.processOne(ctx, j.path, pipelineOpts)
				outcomes[j.index] = &outcome
			}
		}()
	}

feed:
	for i, path := range files {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- job{index: i, path: path}:
		}
	}
	close(jobs)
	wg.Wait()

	for _, outcome := range outcomes {
		if outcome != nil {
			result.accumulate(*outcome)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

// processOne runs the pipeline for one file with a file-tagged logger.
func (r *Runner) processOne(ctx context.Context, path string, opts PipelineOptions) FileOutcome {
	fileCtx, logger := logging.WithFile(ctx, path)

	pr, err := r.Pipeline.ProcessFile(fileCtx, path, opts)
	if err != nil {
		logger.Debug("process failed", logging.FieldError, err)
		return FileOutcome{Path: path, Error: err}
	}

	logger.Debug("processed",
		logging.FieldFormat, string(pr.Format),
		logging.FieldAnnotations, pr.Annotations(),
		logging.FieldInserted, pr.Result.Inserted,
	)
	return FileOutcome{Path: path, Result: pr}
}
