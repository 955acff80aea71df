package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	mdpublish "github.com/alnah/go-mdpublish"
	"github.com/alnah/go-mdpublish/internal/fileutil"
)

// Publisher is the part of *mdpublish.Publisher the batch needs.
type Publisher interface {
	Render(ctx context.Context, markdown, themeID string) (*mdpublish.Rendering, error)
	Transform(ctx context.Context, r *mdpublish.Rendering) (string, error)
	Page(ctx context.Context, r *mdpublish.Rendering, sourceDir string) (string, error)
}

// Compile-time interface implementation check.
var _ Publisher = (*mdpublish.Publisher)(nil)

// Pool abstracts publisher pool operations for testability.
type Pool interface {
	Acquire(ctx context.Context) (Publisher, error)
	Release(Publisher)
	Size() int
}

// poolAdapter exposes *mdpublish.PublisherPool as a Pool.
type poolAdapter struct {
	pool *mdpublish.PublisherPool
}

func (a *poolAdapter) Acquire(ctx context.Context) (Publisher, error) {
	pub, err := a.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return pub, nil
}

func (a *poolAdapter) Release(p Publisher) {
	pub, ok := p.(*mdpublish.Publisher)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", p))
	}
	a.pool.Release(pub)
}

func (a *poolAdapter) Size() int { return a.pool.Size() }

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Theme      string
	Err        error
	Duration   time.Duration
}

// conversionParams groups parameters shared across batch/file conversion.
type conversionParams struct {
	theme string
	page  bool
}

// runConvert writes paste-ready HTML (or preview pages) for every markdown
// file under the input.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, fs, err := parseConvertFlags(args, env)
	if err != nil {
		return err
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	s, err := prepare(&flags.common, nil, nil, env)
	if err != nil {
		return err
	}

	inputPath := fs.Arg(0)
	if inputPath == "" {
		return fmt.Errorf("%w: convert needs a file or directory", ErrNoInput)
	}
	outputDir := flags.output
	if outputDir == "" {
		outputDir = s.cfg.Output.DefaultDir
	}

	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files found in %s", ErrNoInput, inputPath)
	}

	// Fail fast on a bad theme before spawning workers.
	probe, err := s.newPublisher()
	if err != nil {
		return err
	}
	_ = probe.Close()

	workers := flags.workers
	if workers == 0 {
		workers = s.envCfg.Workers
	}
	size := min(mdpublish.ResolvePoolSize(workers), len(files))
	s.logger.Debug("starting conversion", "files", len(files), "workers", size)

	pool := mdpublish.NewPublisherPool(size, func() (*mdpublish.Publisher, error) {
		return mdpublish.NewPublisher(s.opts...)
	})
	defer pool.Close()

	params := &conversionParams{theme: s.cfg.Theme.Default, page: flags.page}
	results := convertBatch(ctx, &poolAdapter{pool: pool}, files, params)

	failed := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if failed > 0 {
		return fmt.Errorf("%d conversion(s) failed", failed)
	}
	return nil
}

// convertBatch processes files concurrently using the publisher pool.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, params *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			pub, err := pool.Acquire(ctx)
			if err != nil {
				for idx := range jobs {
					results[idx] = ConversionResult{InputPath: files[idx].InputPath, Err: err}
				}
				return
			}
			defer pool.Release(pub)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{InputPath: files[idx].InputPath, Err: ctx.Err()}
					continue
				}
				results[idx] = convertFile(ctx, pub, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, pub Publisher, f FileToConvert, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{InputPath: f.InputPath, OutputPath: f.OutputPath}
	done := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return done(fmt.Errorf("%w: %v", ErrReadMarkdown, err))
	}

	r, err := pub.Render(ctx, string(content), params.theme)
	if err != nil {
		return done(err)
	}
	result.Theme = r.Theme.ID

	var out string
	if params.page {
		out, err = pub.Page(ctx, r, filepath.Dir(f.InputPath))
	} else {
		out, err = pub.Transform(ctx, r)
	}
	if err != nil {
		return done(err)
	}

	if err := fileutil.WriteFileAtomic(f.OutputPath, []byte(out), filePermissions); err != nil {
		return done(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}
	return done(nil)
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResultsWithWriter outputs conversion results using the provided writers.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s [%s] (%v)\n", r.InputPath, r.OutputPath, r.Theme, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
