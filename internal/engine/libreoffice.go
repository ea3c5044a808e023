package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alnah/go-office2pdf/internal/fileutil"
)

// DefaultSettleDelay is how long to wait for the output file to appear
// after the engine exits successfully.
const DefaultSettleDelay = 500 * time.Millisecond

const settlePollInterval = 25 * time.Millisecond

// LibreOffice converts documents to PDF with a headless soffice process.
type LibreOffice struct {
	presence    PresenceProvider
	runner      Runner
	settleDelay time.Duration
	profileRoot string
	logger      *slog.Logger
}

// LibreOfficeOption configures a LibreOffice adapter.
type LibreOfficeOption func(*LibreOffice)

// WithCommandRunner sets the runner used for conversions.
func WithCommandRunner(r Runner) LibreOfficeOption {
	return func(l *LibreOffice) { l.runner = r }
}

// WithSettleDelay sets the grace period for the output file to appear.
func WithSettleDelay(d time.Duration) LibreOfficeOption {
	return func(l *LibreOffice) {
		if d >= 0 {
			l.settleDelay = d
		}
	}
}

// WithProfileRoot sets where per-attempt user profiles are created.
func WithProfileRoot(dir string) LibreOfficeOption {
	return func(l *LibreOffice) { l.profileRoot = dir }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) LibreOfficeOption {
	return func(l *LibreOffice) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLibreOffice returns an adapter that converts with whatever engine
// presence reports.
func NewLibreOffice(presence PresenceProvider, opts ...LibreOfficeOption) *LibreOffice {
	l := &LibreOffice{
		presence:    presence,
		runner:      ExecRunner{},
		settleDelay: DefaultSettleDelay,
		profileRoot: os.TempDir(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Presence exposes the underlying (memoized) presence.
func (l *LibreOffice) Presence(ctx context.Context) Presence {
	if l.presence == nil {
		return Presence{}
	}
	return l.presence.Presence(ctx)
}

// Convert renders inputPath to outputPath. The engine writes into a
// scratch directory next to outputPath and the result is moved into
// place, so concurrent conversions never collide on the engine's
// deterministic output name. ctx bounds the whole run: when it expires
// the engine's process group is killed and ErrTimeout is returned.
func (l *LibreOffice) Convert(ctx context.Context, inputPath, outputPath string) error {
	presence := l.Presence(ctx)
	if !presence.Available {
		return ErrUnavailable
	}

	input, err := filepath.Abs(inputPath)
	if err != nil {
		return fmt.Errorf("%w: resolving input: %v", ErrInvocation, err)
	}

	workDir, err := os.MkdirTemp(filepath.Dir(outputPath), "."+fileutil.TempPrefix+"work-*")
	if err != nil {
		return fmt.Errorf("%w: creating work dir: %v", ErrInvocation, err)
	}
	defer os.RemoveAll(workDir)

	profileDir := filepath.Join(l.profileRoot, fileutil.TempPrefix+"profile-"+uuid.NewString())
	if err := os.MkdirAll(profileDir, 0o700); err != nil {
		return fmt.Errorf("%w: creating profile dir: %v", ErrInvocation, err)
	}
	defer os.RemoveAll(profileDir)

	cmd := Command{
		Path: presence.Path,
		Args: []string{
			"--headless",
			"--norestore",
			"--nolockcheck",
			"--nodefault",
			"--nofirststartwizard",
			"-env:UserInstallation=" + fileURL(profileDir),
			"--convert-to", "pdf",
			"--outdir", workDir,
			input,
		},
		// A private HOME keeps concurrent instances from sharing state.
		Env: append(os.Environ(), "HOME="+profileDir),
	}

	start := time.Now()
	_, stderr, err := l.runner.Run(ctx, cmd)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return fmt.Errorf("%w after %s: %v", ErrTimeout, time.Since(start).Round(time.Millisecond), err)
		}
		return fmt.Errorf("%w: %v: %s", ErrInvocation, err, strings.TrimSpace(stderr))
	}

	produced := filepath.Join(workDir, ExpectedOutputName(input))
	if !l.waitForFile(ctx, produced) {
		return fmt.Errorf("%w: %s", ErrNoOutput, filepath.Base(produced))
	}

	if err := fileutil.MoveFile(produced, outputPath); err != nil {
		return fmt.Errorf("%w: %v", ErrInvocation, err)
	}

	l.logger.Debug("engine conversion finished", "engine", presence.Path, "input", inputPath, "duration", time.Since(start))
	return nil
}

// ExpectedOutputName is the file name soffice gives its PDF output: the
// input's base name with a .pdf extension.
func ExpectedOutputName(inputPath string) string {
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".pdf"
}

func (l *LibreOffice) waitForFile(ctx context.Context, path string) bool {
	if fileutil.FileExists(path) {
		return true
	}
	if l.settleDelay <= 0 {
		return false
	}

	deadline := time.NewTimer(l.settleDelay)
	defer deadline.Stop()
	tick := time.NewTicker(settlePollInterval)
	defer tick.Stop()

	for {
		select {
		case <-tick.C:
			if fileutil.FileExists(path) {
				return true
			}
		case <-deadline.C:
			return fileutil.FileExists(path)
		case <-ctx.Done():
			return fileutil.FileExists(path)
		}
	}
}

func fileURL(dir string) string {
	p := filepath.ToSlash(dir)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}
