package engine

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// DefaultProbeTimeout bounds each candidate's version query.
const DefaultProbeTimeout = 5 * time.Second

// Presence is the memoized answer to "is an engine installed, and where".
type Presence struct {
	Available bool   `json:"available"`
	Path      string `json:"path,omitempty"`
	Version   string `json:"version,omitempty"`
}

// PresenceProvider reports engine presence.
type PresenceProvider interface {
	Presence(ctx context.Context) Presence
}

// Prober probes candidates once and caches the outcome for its lifetime.
// An engine installed after the first probe is not seen until a new
// Prober is built.
type Prober struct {
	resolver PathResolver
	runner   Runner
	lookPath func(string) (string, error)
	timeout  time.Duration
	logger   *slog.Logger

	once     sync.Once
	presence Presence
}

// ProberOption configures a Prober.
type ProberOption func(*Prober)

// WithRunner sets the command runner used for version queries.
func WithRunner(r Runner) ProberOption {
	return func(p *Prober) { p.runner = r }
}

// WithLookPath replaces exec.LookPath.
func WithLookPath(fn func(string) (string, error)) ProberOption {
	return func(p *Prober) { p.lookPath = fn }
}

// WithProbeTimeout sets the per-candidate timeout.
func WithProbeTimeout(d time.Duration) ProberOption {
	return func(p *Prober) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithProbeLogger sets the logger for probe diagnostics.
func WithProbeLogger(l *slog.Logger) ProberOption {
	return func(p *Prober) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewProber builds a Prober over the resolver's candidates.
func NewProber(resolver PathResolver, opts ...ProberOption) *Prober {
	p := &Prober{
		resolver: resolver,
		runner:   ExecRunner{},
		lookPath: exec.LookPath,
		timeout:  DefaultProbeTimeout,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ PresenceProvider = (*Prober)(nil)

// Presence probes on first use and returns the cached result afterwards.
// The probe is detached from ctx cancellation so that one abandoned
// request cannot cache a false negative.
func (p *Prober) Presence(ctx context.Context) Presence {
	p.once.Do(func() {
		p.presence = p.probe(context.WithoutCancel(ctx))
	})
	return p.presence
}

func (p *Prober) probe(ctx context.Context) Presence {
	if p.resolver == nil {
		return Presence{}
	}

	for _, candidate := range p.resolver.Candidates() {
		path, err := p.lookPath(candidate)
		if err != nil {
			p.logger.Debug("engine candidate not found", "candidate", candidate)
			continue
		}

		version, err := p.queryVersion(ctx, path)
		if err != nil {
			p.logger.Debug("engine candidate rejected", "path", path, "error", err)
			continue
		}

		p.logger.Info("conversion engine found", "path", path, "version", version)
		return Presence{Available: true, Path: path, Version: version}
	}

	p.logger.Info("no conversion engine found")
	return Presence{}
}

func (p *Prober) queryVersion(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	stdout, _, err := p.runner.Run(ctx, Command{Path: path, Args: []string{"--version"}})
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(strings.TrimSpace(stdout), "\n")
	return strings.TrimSpace(line), nil
}

// FixedPresence is a PresenceProvider with a predetermined answer.
type FixedPresence Presence

// Presence returns the fixed value.
func (f FixedPresence) Presence(context.Context) Presence {
	return Presence(f)
}
