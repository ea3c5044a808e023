package office2pdf

import (
	"context"
	"errors"
	"fmt"

	"github.com/alnah/go-office2pdf/internal/browser"
	"github.com/alnah/go-office2pdf/internal/container"
	"github.com/alnah/go-office2pdf/internal/engine"
	"github.com/alnah/go-office2pdf/internal/extract"
	"github.com/alnah/go-office2pdf/internal/fileutil"
	"github.com/alnah/go-office2pdf/internal/pdfcheck"
)

// Failure kinds of a single tier. They are logged and recorded in
// Result.Attempts but never returned by Convert.
var (
	ErrEngineUnavailable      = errors.New("engine unavailable")
	ErrEngineTimeout          = errors.New("engine timed out")
	ErrEngineInvocationFailed = errors.New("engine invocation failed")
	ErrMalformedContainer     = errors.New("malformed document container")
	ErrOutputMissing          = errors.New("no valid output produced")
	ErrPlaceholderWriteFailed = errors.New("placeholder could not be written")
)

// Errors returned to callers.
var (
	ErrConversionFailed = errors.New("document conversion failed")
	ErrInvalidRequest   = errors.New("invalid conversion request")
)

// kinds is checked first when classifying, so errors that already carry
// a kind keep it.
var kinds = []error{
	ErrEngineUnavailable,
	ErrEngineTimeout,
	ErrOutputMissing,
	ErrMalformedContainer,
	ErrPlaceholderWriteFailed,
	ErrEngineInvocationFailed,
}

// TierError is a classified tier failure. errors.Is matches both Kind and
// the underlying cause.
type TierError struct {
	Tier Tier
	Kind error
	Err  error
}

func (e *TierError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s tier: %v", e.Tier, e.Kind)
	}
	return fmt.Sprintf("%s tier: %v: %v", e.Tier, e.Kind, e.Err)
}

func (e *TierError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// classify maps any tier error to one of the failure kinds. Every
// placeholder failure is ErrPlaceholderWriteFailed.
func classify(t Tier, err error) *TierError {
	var te *TierError
	if errors.As(err, &te) && te.Tier == t {
		return te
	}

	kind := kindOf(err)
	if t == TierPlaceholder {
		kind = ErrPlaceholderWriteFailed
	}
	return &TierError{Tier: t, Kind: kind, Err: err}
}

func kindOf(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}

	switch {
	case errors.Is(err, engine.ErrUnavailable),
		errors.Is(err, browser.ErrNoBrowser):
		return ErrEngineUnavailable
	case errors.Is(err, engine.ErrTimeout),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return ErrEngineTimeout
	case errors.Is(err, engine.ErrNoOutput),
		errors.Is(err, pdfcheck.ErrInvalid),
		errors.Is(err, pdfcheck.ErrNoPages),
		errors.Is(err, fileutil.ErrEmptyFile),
		errors.Is(err, fileutil.ErrNotPDF):
		return ErrOutputMissing
	case errors.Is(err, container.ErrMalformed),
		errors.Is(err, extract.ErrUnsupportedCategory):
		return ErrMalformedContainer
	}
	return ErrEngineInvocationFailed
}
