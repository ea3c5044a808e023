package office2pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-office2pdf/internal/browser"
	"github.com/alnah/go-office2pdf/internal/engine"
	"github.com/alnah/go-office2pdf/internal/render"
)

// Converter runs the conversion tier chain. Create with NewConverter,
// use Convert for conversion, and Close when done.
type Converter struct {
	cfg      converterConfig
	engine   ExternalEngine
	library  EmbeddedLibrary
	closer   io.Closer // the default library, owned by the converter
	renderer *render.Renderer
	tiers    []tier
	logger   *slog.Logger
}

// NewConverter creates a Converter with default configuration: the
// LibreOffice engine found on this system, the installed Chromium, and
// the built-in renderer. Returns an error for an invalid page size or
// timestamp format.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:      DefaultTimeout,
			logger:       slog.Default(),
			probeTimeout: engine.DefaultProbeTimeout,
			settleDelay:  engine.DefaultSettleDelay,
			pageSize:     render.DefaultPageSize,
		},
	}

	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.cfg.logger

	renderer, err := render.New(
		render.WithPageSize(c.cfg.pageSize),
		render.WithTimestampFormat(c.cfg.timestampFormat),
		render.WithClock(c.cfg.now),
	)
	if err != nil {
		return nil, fmt.Errorf("configuring renderer: %w", err)
	}
	c.renderer = renderer

	if c.cfg.engineDisabled {
		c.engine = nil
	} else if c.engine == nil {
		c.engine = c.defaultEngine()
	}

	if c.cfg.embeddedDisabled {
		c.library = nil
	} else if c.library == nil {
		libOpts := []browser.Option{
			browser.WithPageSize(renderer.PageSize()),
			browser.WithLogger(c.logger),
		}
		// Unset fields keep the ROD_* environment defaults.
		if c.cfg.browserBin != "" {
			libOpts = append(libOpts, browser.WithBrowserBin(c.cfg.browserBin))
		}
		if c.cfg.browserNoSandbox {
			libOpts = append(libOpts, browser.WithNoSandbox(true))
		}
		lib := browser.New(libOpts...)
		c.library = lib
		c.closer = lib
	}

	// Tests may have injected the chain already.
	if c.tiers == nil {
		c.tiers = []tier{
			&engineTier{engine: c.engine},
			&embeddedTier{library: c.library},
			&extractionTier{renderer: renderer},
			&placeholderTier{renderer: renderer},
		}
	}

	return c, nil
}

func (c *Converter) defaultEngine() *engine.LibreOffice {
	explicit := append([]string(nil), c.cfg.enginePaths...)
	if env := strings.TrimSpace(os.Getenv(EngineEnv)); env != "" {
		explicit = append(explicit, env)
	}

	presence := c.cfg.presence
	if presence == nil {
		proberOpts := []engine.ProberOption{
			engine.WithProbeTimeout(c.cfg.probeTimeout),
			engine.WithProbeLogger(c.logger),
		}
		if c.cfg.runner != nil {
			proberOpts = append(proberOpts, engine.WithRunner(c.cfg.runner))
		}
		if c.cfg.lookPath != nil {
			proberOpts = append(proberOpts, engine.WithLookPath(c.cfg.lookPath))
		}
		resolver := engine.NewPathResolver("", c.cfg.engineCandidates, explicit...)
		presence = engine.NewProber(resolver, proberOpts...)
	}

	loOpts := []engine.LibreOfficeOption{
		engine.WithSettleDelay(c.cfg.settleDelay),
		engine.WithLogger(c.logger),
	}
	if c.cfg.runner != nil {
		loOpts = append(loOpts, engine.WithCommandRunner(c.cfg.runner))
	}
	return engine.NewLibreOffice(presence, loOpts...)
}

// Convert writes a PDF for req.InputPath to req.OutputPath, trying each
// tier in order until one produces a valid file. It returns
// ErrInvalidRequest for a bad request and ErrConversionFailed only when
// even the placeholder could not be written; every other failure is
// logged and recorded in Result.Attempts.
func (c *Converter) Convert(ctx context.Context, req Request) (*Result, error) {
	req, err := c.normalize(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res := &Result{OutputPath: req.OutputPath}
	var last *TierError

	for _, t := range c.tiers {
		tierStart := time.Now()
		err := runTier(ctx, t, req)
		elapsed := time.Since(tierStart)

		if err == nil {
			res.Attempts = append(res.Attempts, Attempt{Tier: t.Name(), Duration: elapsed})
			res.Tier = t.Name()
			res.Duration = time.Since(start)
			c.logger.Info("document converted",
				"input", req.InputPath,
				"output", req.OutputPath,
				"category", req.Category.String(),
				"tier", t.Name().String(),
				"duration", res.Duration)
			return res, nil
		}

		te := classify(t.Name(), err)
		res.Attempts = append(res.Attempts, Attempt{Tier: t.Name(), Err: te, Duration: elapsed})
		c.logTierFailure(ctx, te, req, elapsed)
		last = te
	}

	c.logger.Error("conversion failed", "input", req.InputPath, "output", req.OutputPath, "error", last)
	return nil, ErrConversionFailed
}

// ConvertFile converts inputPath to outputPath and returns outputPath.
// A zero category is detected from the input extension.
func (c *Converter) ConvertFile(ctx context.Context, inputPath, outputPath string, category FormatCategory) (string, error) {
	res, err := c.Convert(ctx, Request{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Category:   category,
	})
	if err != nil {
		return "", err
	}
	return res.OutputPath, nil
}

// Close releases the browser launched by the default embedded library.
// Libraries passed with WithEmbeddedLibrary are left to the caller.
func (c *Converter) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

func (c *Converter) logTierFailure(ctx context.Context, te *TierError, req Request, elapsed time.Duration) {
	level := slog.LevelWarn
	if errors.Is(te.Kind, ErrEngineUnavailable) {
		level = slog.LevelDebug
	}
	c.logger.Log(ctx, level, "conversion tier failed",
		"tier", te.Tier.String(),
		"kind", te.Kind.Error(),
		"input", req.InputPath,
		"error", te.Err,
		"duration", elapsed)
}

// normalize validates req and fills in the category and timeout.
//
// This is a TRUST BOUNDARY: library users build Request by hand, and the
// CLI and server pass user paths straight through.
func (c *Converter) normalize(req Request) (Request, error) {
	if strings.TrimSpace(req.InputPath) == "" {
		return req, fmt.Errorf("%w: input path is empty", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.OutputPath) == "" {
		return req, fmt.Errorf("%w: output path is empty", ErrInvalidRequest)
	}

	in, err := filepath.Abs(req.InputPath)
	if err != nil {
		return req, fmt.Errorf("%w: resolving input: %v", ErrInvalidRequest, err)
	}
	out, err := filepath.Abs(req.OutputPath)
	if err != nil {
		return req, fmt.Errorf("%w: resolving output: %v", ErrInvalidRequest, err)
	}
	if in == out {
		return req, fmt.Errorf("%w: input and output are the same file", ErrInvalidRequest)
	}

	info, err := os.Stat(req.InputPath)
	if err != nil {
		return req, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if info.IsDir() {
		return req, fmt.Errorf("%w: input %s is a directory", ErrInvalidRequest, req.InputPath)
	}
	if info, err := os.Stat(req.OutputPath); err == nil && info.IsDir() {
		return req, fmt.Errorf("%w: output %s is a directory", ErrInvalidRequest, req.OutputPath)
	}

	switch {
	case req.Category == 0:
		req.Category = DetectCategory(req.InputPath)
		if !req.Category.Valid() {
			return req, fmt.Errorf("%w: cannot infer document category from %q", ErrInvalidRequest, filepath.Ext(req.InputPath))
		}
	case !req.Category.Valid():
		return req, fmt.Errorf("%w: unknown category %d", ErrInvalidRequest, int(req.Category))
	}

	switch {
	case req.Timeout < 0:
		return req, fmt.Errorf("%w: negative timeout %s", ErrInvalidRequest, req.Timeout)
	case req.Timeout == 0:
		req.Timeout = c.cfg.timeout
	}

	return req, nil
}
