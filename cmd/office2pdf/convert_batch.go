package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	office2pdf "github.com/alnah/go-office2pdf"
	"github.com/alnah/go-office2pdf/internal/hints"
)

// File permission constants.
const (
	dirPermissions = 0o750 // rwxr-x---: owner full, group read+execute
)

// ErrOutputDir is returned when an output directory cannot be created.
var ErrOutputDir = errors.New("failed to create output directory")

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Tier       office2pdf.Tier
	Attempts   []office2pdf.Attempt
	Err        error
	Duration   time.Duration
}

// convertBatch converts files on at most params.workers goroutines.
// Results keep the order of files.
func convertBatch(ctx context.Context, conv DocumentConverter, files []FileToConvert, params *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(max(params.workers, 1), len(files))

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx], params)
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
func convertFile(ctx context.Context, conv DocumentConverter, f FileToConvert, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}

	outDir := filepath.Dir(f.OutputPath)
	if err := os.MkdirAll(outDir, dirPermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v%s", ErrOutputDir, err, hints.ForOutputDirectory())
		result.Duration = time.Since(start)
		return result
	}

	res, err := conv.Convert(ctx, office2pdf.Request{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
		Category:   params.category,
		Timeout:    params.timeout,
	})
	result.Duration = time.Since(start)
	if err != nil {
		result.Err = err
		return result
	}

	result.OutputPath = res.OutputPath
	result.Tier = res.Tier
	result.Attempts = res.Attempts
	return result
}

// ResultSummary holds the count of succeeded and failed conversions,
// and how many fell back to the placeholder.
type ResultSummary struct {
	Succeeded   int
	Failed      int
	Placeholder int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		switch {
		case r.Err != nil:
			summary.Failed++
		case r.Tier == office2pdf.TierPlaceholder:
			summary.Succeeded++
			summary.Placeholder++
		default:
			summary.Succeeded++
		}
	}
	return summary
}

// printResults writes one line per file and returns the failure count.
func printResults(results []ConversionResult, quiet, verbose bool, env *Environment) int {
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
			fmt.Fprintf(env.Stdout, "%s -> %s [%s] (%v)\n", r.InputPath, r.OutputPath, r.Tier, r.Duration.Round(time.Millisecond))
			for _, a := range r.Attempts {
				if a.Err != nil {
					fmt.Fprintf(env.Stdout, "  %s: %v\n", a.Tier, a.Err)
				}
			}
		} else {
			fmt.Fprintf(env.Stdout, "Created %s [%s]\n", r.OutputPath, r.Tier)
		}
	}

	if !quiet && len(results) > 1 {
		line := fmt.Sprintf("\n%d succeeded, %d failed", summary.Succeeded, summary.Failed)
		if summary.Placeholder > 0 {
			line += fmt.Sprintf(" (%d placeholder)", summary.Placeholder)
		}
		fmt.Fprintln(env.Stdout, line)
	}

	return summary.Failed
}
