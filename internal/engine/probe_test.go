package engine

import (
	"context"
	"errors"
	"os/exec"
	"sync"
	"testing"
	"time"
)

var errNoBinary = errors.New("no binary")

// lookPathIn resolves only the named candidates.
func lookPathIn(found map[string]string) func(string) (string, error) {
	return func(name string) (string, error) {
		if p, ok := found[name]; ok {
			return p, nil
		}
		return "", exec.ErrNotFound
	}
}

// ---------------------------------------------------------------------------
// TestProber_Presence - Candidate selection
// ---------------------------------------------------------------------------

func TestProber_Presence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		found     map[string]string
		failPaths map[string]bool
		want      Presence
		wantCalls int
	}{
		{
			name:      "nothing installed",
			found:     map[string]string{},
			want:      Presence{},
			wantCalls: 0,
		},
		{
			name:      "first resolvable candidate wins",
			found:     map[string]string{"soffice": "/usr/bin/soffice", "libreoffice": "/usr/bin/libreoffice"},
			want:      Presence{Available: true, Path: "/usr/bin/soffice", Version: "LibreOffice 24.2.7.2"},
			wantCalls: 1,
		},
		{
			name:      "failing version query moves to next candidate",
			found:     map[string]string{"soffice": "/usr/bin/soffice", "libreoffice": "/usr/bin/libreoffice"},
			failPaths: map[string]bool{"/usr/bin/soffice": true},
			want:      Presence{Available: true, Path: "/usr/bin/libreoffice", Version: "LibreOffice 24.2.7.2"},
			wantCalls: 2,
		},
		{
			name:      "all version queries fail",
			found:     map[string]string{"soffice": "/usr/bin/soffice"},
			failPaths: map[string]bool{"/usr/bin/soffice": true},
			want:      Presence{},
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			runner := &fakeRunner{fn: func(_ context.Context, cmd Command) (string, string, error) {
				if tt.failPaths[cmd.Path] {
					return "", "boom", errors.New("exit status 1")
				}
				return "LibreOffice 24.2.7.2 420(Build:2)\nextra\n", "", nil
			}}
			p := NewProber(StaticResolver{"soffice", "libreoffice"},
				WithRunner(runner),
				WithLookPath(lookPathIn(tt.found)),
			)

			got := p.Presence(context.Background())
			if got.Available != tt.want.Available || got.Path != tt.want.Path {
				t.Errorf("Presence() = %+v, want %+v", got, tt.want)
			}
			if tt.want.Available && got.Version != "LibreOffice 24.2.7.2 420(Build:2)" {
				t.Errorf("Version = %q, want first stdout line", got.Version)
			}
			if n := len(runner.Calls()); n != tt.wantCalls {
				t.Errorf("runner calls = %d, want %d", n, tt.wantCalls)
			}
			for _, c := range runner.Calls() {
				if len(c.Args) != 1 || c.Args[0] != "--version" {
					t.Errorf("probe args = %v, want [--version]", c.Args)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestProber_Memoized - One probe per Prober
// ---------------------------------------------------------------------------

func TestProber_Memoized(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{fn: func(context.Context, Command) (string, string, error) {
		return "LibreOffice 7.6", "", nil
	}}
	p := NewProber(StaticResolver{"soffice"},
		WithRunner(runner),
		WithLookPath(lookPathIn(map[string]string{"soffice": "/usr/bin/soffice"})),
	)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !p.Presence(context.Background()).Available {
				t.Error("Presence() not available")
			}
		}()
	}
	wg.Wait()
	_ = p.Presence(context.Background())

	if n := len(runner.Calls()); n != 1 {
		t.Errorf("runner calls = %d, want 1", n)
	}
}

func TestProber_NegativeResultIsCachedToo(t *testing.T) {
	t.Parallel()

	lookups := 0
	p := NewProber(StaticResolver{"soffice"},
		WithRunner(&fakeRunner{}),
		WithLookPath(func(string) (string, error) {
			lookups++
			return "", errNoBinary
		}),
	)

	for range 3 {
		if p.Presence(context.Background()).Available {
			t.Fatal("Presence() available, want unavailable")
		}
	}
	if lookups != 1 {
		t.Errorf("lookups = %d, want 1", lookups)
	}
}

func TestProber_CancelledCallerDoesNotPoisonCache(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{fn: func(ctx context.Context, _ Command) (string, string, error) {
		if err := ctx.Err(); err != nil {
			return "", "", err
		}
		return "LibreOffice 7.6", "", nil
	}}
	p := NewProber(StaticResolver{"soffice"},
		WithRunner(runner),
		WithLookPath(lookPathIn(map[string]string{"soffice": "/usr/bin/soffice"})),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if !p.Presence(ctx).Available {
		t.Error("Presence() with cancelled ctx = unavailable, want available")
	}
}

func TestProber_TimeoutPerCandidate(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{fn: func(ctx context.Context, _ Command) (string, string, error) {
		<-ctx.Done()
		return "", "", ctx.Err()
	}}
	p := NewProber(StaticResolver{"a", "b"},
		WithRunner(runner),
		WithLookPath(lookPathIn(map[string]string{"a": "/bin/a", "b": "/bin/b"})),
		WithProbeTimeout(30*time.Millisecond),
	)

	start := time.Now()
	got := p.Presence(context.Background())
	if got.Available {
		t.Errorf("Presence() = %+v, want unavailable", got)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("probe took %s, want bounded by per-candidate timeout", elapsed)
	}
	if n := len(runner.Calls()); n != 2 {
		t.Errorf("runner calls = %d, want 2", n)
	}
}

func TestProber_NilResolver(t *testing.T) {
	t.Parallel()

	if NewProber(nil).Presence(context.Background()).Available {
		t.Error("Presence() with nil resolver = available")
	}
}

func TestFixedPresence(t *testing.T) {
	t.Parallel()

	want := Presence{Available: true, Path: "/opt/soffice"}
	if got := FixedPresence(want).Presence(context.Background()); got != want {
		t.Errorf("Presence() = %+v, want %+v", got, want)
	}
}
