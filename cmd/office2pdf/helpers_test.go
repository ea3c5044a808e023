package main

// Notes:
// - Shared fixtures and fakes for the command tests. Real conversions run
//   with the engine and browser disabled, so they exercise the extraction
//   and placeholder tiers only and need no external binaries.

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	office2pdf "github.com/alnah/go-office2pdf"
	"github.com/alnah/go-office2pdf/internal/officetest"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Environment and converters
// ---------------------------------------------------------------------------

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

// testEnv returns an Environment with captured output and no engine or
// browser.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &Environment{
		Now:    func() time.Time { return fixedNow },
		Stdout: stdout,
		Stderr: stderr,
		Options: []office2pdf.Option{
			office2pdf.WithoutEngine(),
			office2pdf.WithoutEmbeddedLibrary(),
		},
	}, stdout, stderr
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newFallbackConverter returns a real converter limited to the
// extraction and placeholder tiers.
func newFallbackConverter(t *testing.T) *office2pdf.Converter {
	t.Helper()

	conv, err := office2pdf.NewConverter(
		office2pdf.WithoutEngine(),
		office2pdf.WithoutEmbeddedLibrary(),
		office2pdf.WithLogger(quietLogger()),
		office2pdf.WithClock(func() time.Time { return fixedNow }),
	)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	t.Cleanup(func() { _ = conv.Close() })
	return conv
}

// fakeConverter records requests and returns canned results.
type fakeConverter struct {
	mu       sync.Mutex
	requests []office2pdf.Request
	result   func(office2pdf.Request) (*office2pdf.Result, error)
	report   office2pdf.CapabilityReport
}

func (f *fakeConverter) Convert(_ context.Context, req office2pdf.Request) (*office2pdf.Result, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return f.result(req)
}

func (f *fakeConverter) Capabilities(context.Context) office2pdf.CapabilityReport {
	return f.report
}

// ---------------------------------------------------------------------------
// Test Infrastructure - Fixtures
// ---------------------------------------------------------------------------

func writeDocx(t *testing.T, dir, name string) string {
	t.Helper()
	data := officetest.Document(t,
		officetest.Paragraph{Style: "Heading1", Text: "Quarterly report"},
		officetest.Paragraph{Text: "Revenue grew."},
	)
	return officetest.WriteFile(t, dir, name, data)
}

func writePptx(t *testing.T, dir, name string) string {
	t.Helper()
	data := officetest.Presentation(t,
		officetest.Slide{Title: "Roadmap", Body: []string{"Ship it"}},
	)
	return officetest.WriteFile(t, dir, name, data)
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}
	return data
}

func requirePDF(t *testing.T, path string) {
	t.Helper()
	if data := readFile(t, path); !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("%s does not start with a PDF header", filepath.Base(path))
	}
}
