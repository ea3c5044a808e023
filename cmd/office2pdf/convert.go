package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	office2pdf "github.com/alnah/go-office2pdf"
	"github.com/alnah/go-office2pdf/internal/config"
	"github.com/alnah/go-office2pdf/internal/hints"
)

// Sentinel errors for the convert command.
var (
	ErrNoInput           = errors.New("no input specified")
	ErrUnknownCategory   = errors.New("unknown document category")
	ErrConversionsFailed = errors.New("conversion(s) failed")
)

// DocumentConverter is the part of office2pdf.Converter the CLI uses.
type DocumentConverter interface {
	Convert(ctx context.Context, req office2pdf.Request) (*office2pdf.Result, error)
	Capabilities(ctx context.Context) office2pdf.CapabilityReport
}

// Compile-time interface implementation check.
var _ DocumentConverter = (*office2pdf.Converter)(nil)

// conversionParams groups parameters shared across a batch.
type conversionParams struct {
	category office2pdf.FormatCategory
	timeout  time.Duration
	workers  int
}

// runConvertCmd parses flags and runs the convert command.
func runConvertCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	return runConvert(ctx, positional, flags, env)
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positional []string, flags *convertFlags, env *Environment) error {
	if len(positional) == 0 {
		return fmt.Errorf("%w: pass one or more files or directories", ErrNoInput)
	}

	cfg, err := loadSettings(&flags.common, env)
	if err != nil {
		return err
	}
	if err := mergeFlags(flags, cfg); err != nil {
		return err
	}

	params, err := buildParams(flags, cfg)
	if err != nil {
		return err
	}

	files, err := discoverAll(positional, cfg.Convert.OutputDir, params.category != 0)
	if err != nil {
		if errors.Is(err, ErrUnsupportedExtension) {
			return fmt.Errorf("%w%s", err, hints.ForUnsupportedFile(office2pdf.SupportedExtensions()))
		}
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s%s", ErrNoDocuments, strings.Join(positional, ", "),
			hints.ForUnsupportedFile(office2pdf.SupportedExtensions()))
	}

	logger := newLogger(env.Stderr, cfg.Log, &flags.common, slog.LevelWarn)
	conv, err := newConverter(cfg, logger, env)
	if err != nil {
		return err
	}
	defer conv.Close()

	if flags.common.verbose {
		report := conv.Capabilities(ctx)
		if !report.Engine.Available {
			fmt.Fprintf(env.Stderr, "no conversion engine found%s\n", hints.ForEngineNotFound())
		}
		fmt.Fprintf(env.Stderr, "Workers: %d\n", params.workers)
	}

	results := convertBatch(ctx, conv, files, params)

	failed := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if failed > 0 {
		return fmt.Errorf("%d %w", failed, ErrConversionsFailed)
	}
	return nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) error {
	if flags.output != "" {
		cfg.Convert.OutputDir = flags.output
	}
	if flags.timeout > 0 {
		cfg.Convert.Timeout = flags.timeout
	}
	if flags.workers != 0 {
		if err := validateWorkers(flags.workers); err != nil {
			return err
		}
		cfg.Convert.Workers = flags.workers
	}
	return nil
}

// buildParams resolves batch-wide parameters.
func buildParams(flags *convertFlags, cfg *config.Config) (*conversionParams, error) {
	params := &conversionParams{
		timeout: cfg.Convert.Timeout,
		workers: office2pdf.ResolveWorkers(cfg.Convert.Workers),
	}

	if flags.category != "" {
		category, ok := office2pdf.ParseFormatCategory(flags.category)
		if !ok {
			return nil, fmt.Errorf("%w: %q (valid: word-processing, presentation, spreadsheet)", ErrUnknownCategory, flags.category)
		}
		params.category = category
	}
	return params, nil
}
