package office2pdf

import (
	"log/slog"
	"time"

	"github.com/alnah/go-office2pdf/internal/engine"
)

// EngineEnv names the environment variable holding an explicit engine
// path. It is probed before the per-OS candidates.
const EngineEnv = "OFFICE2PDF_ENGINE"

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout time.Duration
	logger  *slog.Logger

	enginePaths      []string
	engineCandidates map[string][]string
	engineDisabled   bool
	presence         engine.PresenceProvider
	probeTimeout     time.Duration
	settleDelay      time.Duration
	runner           engine.Runner
	lookPath         func(string) (string, error)

	embeddedDisabled bool
	browserBin       string
	browserNoSandbox bool

	pageSize        string
	timestampFormat string
	now             func() time.Time
}

// WithTimeout sets the per-tier timeout used when Request.Timeout is zero.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("office2pdf: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithLogger sets the structured logger. Tier failures are logged at
// Warn (Debug when the tier is simply unavailable).
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.cfg.logger = logger
		}
	}
}

// WithEngine replaces the default LibreOffice engine.
func WithEngine(e ExternalEngine) Option {
	return func(c *Converter) {
		c.engine = e
	}
}

// WithoutEngine disables the engine tier.
func WithoutEngine() Option {
	return func(c *Converter) {
		c.cfg.engineDisabled = true
	}
}

// WithEnginePath probes the given binaries before the per-OS candidates.
func WithEnginePath(paths ...string) Option {
	return func(c *Converter) {
		c.cfg.enginePaths = append(c.cfg.enginePaths, paths...)
	}
}

// WithEngineCandidates replaces the per-OS candidate table. Keys are
// GOOS values; systems without an entry use the "linux" one.
func WithEngineCandidates(table map[string][]string) Option {
	return func(c *Converter) {
		c.cfg.engineCandidates = table
	}
}

// WithEnginePresence skips probing and uses the given answer.
func WithEnginePresence(p EnginePresence) Option {
	return func(c *Converter) {
		c.cfg.presence = engine.FixedPresence(p)
	}
}

// WithProbeTimeout bounds each candidate's version query.
func WithProbeTimeout(d time.Duration) Option {
	return func(c *Converter) {
		if d > 0 {
			c.cfg.probeTimeout = d
		}
	}
}

// WithSettleDelay sets how long to wait for the engine's output file
// after a successful exit.
func WithSettleDelay(d time.Duration) Option {
	return func(c *Converter) {
		if d >= 0 {
			c.cfg.settleDelay = d
		}
	}
}

// WithEmbeddedLibrary replaces the default headless browser library.
func WithEmbeddedLibrary(lib EmbeddedLibrary) Option {
	return func(c *Converter) {
		c.library = lib
	}
}

// WithoutEmbeddedLibrary disables the embedded tier.
func WithoutEmbeddedLibrary() Option {
	return func(c *Converter) {
		c.cfg.embeddedDisabled = true
	}
}

// WithBrowserBin sets the Chromium binary used by the default library.
func WithBrowserBin(path string) Option {
	return func(c *Converter) {
		c.cfg.browserBin = path
	}
}

// WithBrowserNoSandbox disables the Chromium sandbox (containers, CI).
func WithBrowserNoSandbox(v bool) Option {
	return func(c *Converter) {
		c.cfg.browserNoSandbox = v
	}
}

// WithPageSize sets the paper size of rendered output: A4, Letter or Legal.
func WithPageSize(size string) Option {
	return func(c *Converter) {
		c.cfg.pageSize = size
	}
}

// WithTimestampFormat sets the placeholder timestamp format, either a
// preset name ("iso", "date", "european", "us", "long", "rfc3339") or a
// token pattern such as "DD/MM/YYYY HH:mm".
func WithTimestampFormat(format string) Option {
	return func(c *Converter) {
		c.cfg.timestampFormat = format
	}
}

// WithClock sets the time source for rendered timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		c.cfg.now = now
	}
}
