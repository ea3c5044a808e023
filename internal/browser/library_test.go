package browser

// Notes:
// - These tests never launch a browser. Printing is covered by
//   library_integration_test.go behind the integration build tag.

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-rod/rod"

	"github.com/alnah/go-office2pdf/internal/container"
	"github.com/alnah/go-office2pdf/internal/extract"
	"github.com/alnah/go-office2pdf/internal/officetest"
)

func noBrowser() (string, bool) { return "", false }

// ---------------------------------------------------------------------------
// TestLibrary_Available - Browser discovery
// ---------------------------------------------------------------------------

func TestLibrary_Available(t *testing.T) {
	t.Parallel()

	fakeBin := filepath.Join(t.TempDir(), "chromium")
	if err := os.WriteFile(fakeBin, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}

	tests := []struct {
		name string
		opts []Option
		want bool
	}{
		{
			name: "nothing installed",
			opts: []Option{WithBrowserBin(""), WithLookPath(noBrowser)},
			want: false,
		},
		{
			name: "found on system",
			opts: []Option{WithBrowserBin(""), WithLookPath(func() (string, bool) { return "/usr/bin/chromium", true })},
			want: true,
		},
		{
			name: "explicit binary exists",
			opts: []Option{WithBrowserBin(fakeBin), WithLookPath(noBrowser)},
			want: true,
		},
		{
			name: "explicit binary missing is not replaced by search",
			opts: []Option{
				WithBrowserBin(filepath.Join(t.TempDir(), "missing")),
				WithLookPath(func() (string, bool) { return "/usr/bin/chromium", true }),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := New(tt.opts...)
			if got := l.Available(); got != tt.want {
				t.Errorf("Available() = %v, want %v", got, tt.want)
			}
			if l.Name() != Name {
				t.Errorf("Name() = %q", l.Name())
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestLibrary_Convert - Failure paths without a browser
// ---------------------------------------------------------------------------

func TestLibrary_Convert_MalformedInput(t *testing.T) {
	t.Parallel()

	l := New(WithBrowserBin(""), WithLookPath(noBrowser))
	defer l.Close()

	_, err := l.Convert(context.Background(), []byte("not a zip"), extract.Presentation)
	if !errors.Is(err, container.ErrMalformed) {
		t.Errorf("Convert() error = %v, want ErrMalformed", err)
	}
}

func TestLibrary_Convert_NoBrowser(t *testing.T) {
	t.Parallel()

	l := New(WithBrowserBin(""), WithLookPath(noBrowser))
	defer l.Close()

	deck := officetest.Presentation(t, officetest.Slide{Title: "Intro"})
	_, err := l.Convert(context.Background(), deck, extract.Presentation)
	if !errors.Is(err, ErrNoBrowser) {
		t.Errorf("Convert() error = %v, want ErrNoBrowser", err)
	}
}

func TestLibrary_Convert_AfterClose(t *testing.T) {
	t.Parallel()

	l := New(WithBrowserBin(""), WithLookPath(noBrowser))
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}

	deck := officetest.Presentation(t, officetest.Slide{Title: "Intro"})
	_, err := l.Convert(context.Background(), deck, extract.Presentation)
	if !errors.Is(err, ErrClosed) {
		t.Errorf("Convert() error = %v, want ErrClosed", err)
	}
}

func TestLibrary_Convert_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := New(WithBrowserBin(""), WithLookPath(noBrowser))
	defer l.Close()

	deck := officetest.Presentation(t, officetest.Slide{Title: "Intro"})
	if _, err := l.Convert(ctx, deck, extract.Presentation); !errors.Is(err, context.Canceled) {
		t.Errorf("Convert() error = %v, want context.Canceled", err)
	}
}

// ---------------------------------------------------------------------------
// TestLibrary_Discard - A dead browser is relaunched on next use
// ---------------------------------------------------------------------------

func TestLibrary_Discard(t *testing.T) {
	t.Parallel()

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	l := New(WithBrowserBin(""), WithLookPath(noBrowser), WithLogger(quiet))
	dead := rod.New()
	l.browser = dead

	if got, err := l.ensureBrowser(); err != nil || got != dead {
		t.Fatalf("ensureBrowser() = %p, %v, want cached browser", got, err)
	}

	l.discard(dead, errors.New("websocket closed"))
	if l.browser != nil || l.launcher != nil {
		t.Fatalf("browser = %p, launcher = %p, want both cleared", l.browser, l.launcher)
	}

	// Next use relaunches, which fails here for want of a binary.
	if _, err := l.ensureBrowser(); !errors.Is(err, ErrNoBrowser) {
		t.Errorf("ensureBrowser() error = %v, want ErrNoBrowser", err)
	}
}

func TestLibrary_Discard_KeepsReplacement(t *testing.T) {
	t.Parallel()

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	l := New(WithBrowserBin(""), WithLookPath(noBrowser), WithLogger(quiet))
	stale, fresh := rod.New(), rod.New()
	l.browser = fresh

	l.discard(stale, errors.New("websocket closed"))
	if l.browser != fresh {
		t.Errorf("browser = %p, want replacement %p kept", l.browser, fresh)
	}
}
