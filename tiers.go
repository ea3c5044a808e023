package office2pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-office2pdf/internal/browser"
	"github.com/alnah/go-office2pdf/internal/engine"
	"github.com/alnah/go-office2pdf/internal/extract"
	"github.com/alnah/go-office2pdf/internal/fileutil"
	"github.com/alnah/go-office2pdf/internal/pdfcheck"
	"github.com/alnah/go-office2pdf/internal/render"
)

// ExternalEngine converts a file on disk with a full-fidelity converter.
type ExternalEngine interface {
	Presence(ctx context.Context) EnginePresence
	Convert(ctx context.Context, inputPath, outputPath string) error
}

// EmbeddedLibrary converts document bytes in process, or through a
// helper it manages itself.
type EmbeddedLibrary interface {
	Name() string
	Available() bool
	Convert(ctx context.Context, data []byte, category FormatCategory) ([]byte, error)
}

var (
	_ ExternalEngine  = (*engine.LibreOffice)(nil)
	_ EmbeddedLibrary = (*browser.Library)(nil)

	_ tier = (*engineTier)(nil)
	_ tier = (*embeddedTier)(nil)
	_ tier = (*extractionTier)(nil)
	_ tier = (*placeholderTier)(nil)
)

// tier is one step of the fallback chain. Attempt writes req.OutputPath
// or returns an error; the caller validates and classifies.
type tier interface {
	Name() Tier
	Attempt(ctx context.Context, req Request) error
}

const outputPerm = 0o644

type engineTier struct {
	engine ExternalEngine
}

func (t *engineTier) Name() Tier { return TierEngine }

func (t *engineTier) Attempt(ctx context.Context, req Request) error {
	if t.engine == nil {
		return ErrEngineUnavailable
	}
	return t.engine.Convert(ctx, req.InputPath, req.OutputPath)
}

type embeddedTier struct {
	library EmbeddedLibrary
}

func (t *embeddedTier) Name() Tier { return TierEmbedded }

func (t *embeddedTier) Attempt(ctx context.Context, req Request) error {
	if t.library == nil || !t.library.Available() {
		return ErrEngineUnavailable
	}

	data, err := os.ReadFile(req.InputPath) // #nosec G304 -- validated request path
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	pdf, err := t.library.Convert(ctx, data, req.Category)
	if err != nil {
		return fmt.Errorf("%s: %w", t.library.Name(), err)
	}
	return fileutil.WriteFileAtomic(req.OutputPath, pdf, outputPerm)
}

type extractionTier struct {
	renderer *render.Renderer
}

func (t *extractionTier) Name() Tier { return TierExtraction }

func (t *extractionTier) Attempt(ctx context.Context, req Request) error {
	data, err := os.ReadFile(req.InputPath) // #nosec G304 -- validated request path
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	content, err := extract.FromBytes(ctx, data, req.Category)
	if err != nil {
		return err
	}
	pdf, err := t.renderer.Content(content)
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(req.OutputPath, pdf, outputPerm)
}

type placeholderTier struct {
	renderer *render.Renderer
}

func (t *placeholderTier) Name() Tier { return TierPlaceholder }

func (t *placeholderTier) Attempt(_ context.Context, req Request) error {
	pdf, err := t.renderer.Placeholder(render.Placeholder{
		Label:    req.Category.Label(),
		Filename: filepath.Base(req.InputPath),
	})
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(req.OutputPath, pdf, outputPerm)
}

// runTier runs one tier under its own deadline and validates what it
// wrote. Panics become ErrEngineInvocationFailed so the chain continues.
func runTier(ctx context.Context, t tier, req Request) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrEngineInvocationFailed, r)
		}
	}()

	if t.Name() == TierPlaceholder {
		ctx = context.WithoutCancel(ctx)
	} else {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	if err := t.Attempt(ctx, req); err != nil {
		return err
	}
	if err := checkOutput(t.Name(), req.OutputPath); err != nil {
		_ = os.Remove(req.OutputPath)
		return fmt.Errorf("%w: %w", ErrOutputMissing, err)
	}
	return nil
}

// checkOutput fully parses third-party output. Our own renderer output
// only needs the header check.
func checkOutput(t Tier, path string) error {
	switch t {
	case TierEngine, TierEmbedded:
		_, err := pdfcheck.Validate(path)
		return err
	default:
		return fileutil.CheckPDF(path)
	}
}
