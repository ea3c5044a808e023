package browser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-office2pdf/internal/extract"
	"github.com/alnah/go-office2pdf/internal/fileutil"
	"github.com/alnah/go-office2pdf/internal/process"
)

// Name identifies the library in logs and capability reports.
const Name = "chromium"

// Library prints office documents with a shared headless browser. The
// browser is launched on first use and killed by Close.
type Library struct {
	bin       string
	noSandbox bool
	pageSize  string
	lookPath  func() (string, bool)
	logger    *slog.Logger
	html      *htmlBuilder

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	closed   bool
}

// Option configures a Library.
type Option func(*Library)

// WithBrowserBin uses the given browser binary instead of searching.
func WithBrowserBin(path string) Option {
	return func(l *Library) { l.bin = path }
}

// WithNoSandbox disables the Chromium sandbox, which containers and CI
// usually require.
func WithNoSandbox(v bool) Option {
	return func(l *Library) { l.noSandbox = v }
}

// WithPageSize sets the printed paper size: A4, Letter or Legal.
func WithPageSize(size string) Option {
	return func(l *Library) { l.pageSize = size }
}

// WithLookPath replaces the installed-browser search.
func WithLookPath(fn func() (string, bool)) Option {
	return func(l *Library) {
		if fn != nil {
			l.lookPath = fn
		}
	}
}

// WithLogger sets the logger for launch and shutdown events.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Library) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a Library. ROD_BROWSER_BIN and ROD_NO_SANDBOX=1 are read as
// defaults; options override them.
func New(opts ...Option) *Library {
	l := &Library{
		bin:       os.Getenv("ROD_BROWSER_BIN"),
		noSandbox: os.Getenv("ROD_NO_SANDBOX") == "1",
		pageSize:  "A4",
		lookPath:  launcher.LookPath,
		logger:    slog.Default(),
		html:      newHTMLBuilder(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name returns the library name.
func (l *Library) Name() string { return Name }

// Available reports whether a browser binary is installed.
func (l *Library) Available() bool {
	_, ok := l.binary()
	return ok
}

// BinaryPath returns the browser that would be launched, if any.
func (l *Library) BinaryPath() (string, bool) {
	return l.binary()
}

func (l *Library) binary() (string, bool) {
	if l.bin != "" {
		if fileutil.FileExists(l.bin) {
			return l.bin, true
		}
		if p, err := exec.LookPath(l.bin); err == nil {
			return p, true
		}
		return "", false
	}
	return l.lookPath()
}

// Convert extracts the document's content and prints it to PDF bytes.
// Extraction errors wrap container.ErrMalformed.
func (l *Library) Convert(ctx context.Context, data []byte, category extract.Category) ([]byte, error) {
	content, err := extract.FromBytes(ctx, data, category)
	if err != nil {
		return nil, err
	}

	doc, err := l.html.Build(content, l.pageSize)
	if err != nil {
		return nil, err
	}
	return l.print(ctx, doc)
}

// print loads an HTML document from a temp file and prints it.
func (l *Library) print(ctx context.Context, doc string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := l.ensureBrowser()
	if err != nil {
		return nil, err
	}

	path, cleanup, err := fileutil.WriteTempFile(doc, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + path})
	if err != nil {
		l.discard(browser, err)
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	p := page.Context(ctx)
	if err := p.WaitLoad(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	reader, err := p.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PreferCSSPageSize: true,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	buf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return buf, nil
}

// ensureBrowser launches and connects the shared browser once.
func (l *Library) ensureBrowser() (*rod.Browser, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, ErrClosed
	}
	if l.browser != nil {
		return l.browser, nil
	}

	bin, ok := l.binary()
	if !ok {
		return nil, ErrNoBrowser
	}

	ln := launcher.New().Bin(bin).Headless(true)
	if l.noSandbox {
		ln = ln.NoSandbox(true)
	}
	u, err := ln.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		kill(ln)
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	l.launcher = ln
	l.browser = b
	l.logger.Debug("browser launched", "bin", bin, "pid", ln.PID())
	return b, nil
}

// discard drops b as the shared browser after it stopped answering, so
// the next conversion launches a new one. A browser already replaced by
// another caller is left alone.
func (l *Library) discard(b *rod.Browser, cause error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.browser != b {
		return
	}
	ln := l.launcher
	l.browser = nil
	l.launcher = nil
	kill(ln)
	l.logger.Warn("browser discarded", "error", cause)
}

// Close shuts the browser down and kills its process tree. Later
// conversions fail with ErrClosed.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	if l.browser == nil {
		return nil
	}

	err := l.browser.Close()
	l.logger.Debug("browser closed", "pid", l.launcher.PID())
	kill(l.launcher)
	l.browser = nil
	l.launcher = nil
	return err
}

func kill(ln *launcher.Launcher) {
	if ln == nil || ln.PID() == 0 {
		return
	}
	process.KillProcessGroup(ln.PID())
	// Kill covers platforms where the browser is not a group leader.
	ln.Kill()
	ln.Cleanup()
}
