package yamlutil_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-office2pdf/internal/yamlutil"
)

type engineSection struct {
	Path         string        `yaml:"path"`
	ProbeTimeout time.Duration `yaml:"probeTimeout"`
}

type testConfig struct {
	Engine  engineSection `yaml:"engine"`
	Workers int           `yaml:"workers"`
}

// ---------------------------------------------------------------------------
// TestDecodeStrict - Configuration decoding
// ---------------------------------------------------------------------------

func TestDecodeStrict(t *testing.T) {
	t.Parallel()

	data := []byte("engine:\n  path: /opt/soffice\n  probeTimeout: 3s\nworkers: 4\n")

	var cfg testConfig
	if err := yamlutil.DecodeStrict(data, &cfg); err != nil {
		t.Fatalf("DecodeStrict() error = %v", err)
	}
	if cfg.Engine.Path != "/opt/soffice" {
		t.Errorf("Engine.Path = %q", cfg.Engine.Path)
	}
	if cfg.Engine.ProbeTimeout != 3*time.Second {
		t.Errorf("Engine.ProbeTimeout = %v, want 3s", cfg.Engine.ProbeTimeout)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
}

func TestDecodeStrict_KeepsUnsetFields(t *testing.T) {
	t.Parallel()

	cfg := testConfig{Workers: 2, Engine: engineSection{Path: "soffice"}}
	if err := yamlutil.DecodeStrict([]byte("workers: 6\n"), &cfg); err != nil {
		t.Fatalf("DecodeStrict() error = %v", err)
	}
	if cfg.Workers != 6 || cfg.Engine.Path != "soffice" {
		t.Errorf("cfg = %+v, want workers replaced and path kept", cfg)
	}
}

func TestDecodeStrict_Errors(t *testing.T) {
	t.Parallel()

	var decodeErr *yamlutil.DecodeError

	tests := []struct {
		name     string
		data     []byte
		dest     any
		wantErr  error
		wantType bool
	}{
		{name: "nil data", data: nil, dest: &testConfig{}, wantErr: yamlutil.ErrEmpty},
		{name: "whitespace only", data: []byte("  \n\t\n"), dest: &testConfig{}, wantErr: yamlutil.ErrEmpty},
		{name: "nil destination", data: []byte("workers: 1"), dest: nil, wantErr: yamlutil.ErrNilDestination},
		{
			name:    "too large",
			data:    []byte("workers: 1\n# " + strings.Repeat("x", yamlutil.MaxInputSize)),
			dest:    &testConfig{},
			wantErr: yamlutil.ErrInputTooLarge,
		},
		{name: "unknown key", data: []byte("engine:\n  pth: /opt/soffice\n"), dest: &testConfig{}, wantType: true},
		{name: "wrong type", data: []byte("workers: many\n"), dest: &testConfig{}, wantType: true},
		{name: "syntax error", data: []byte("engine: [unclosed\n"), dest: &testConfig{}, wantType: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.DecodeStrict(tt.data, tt.dest)
			if err == nil {
				t.Fatal("DecodeStrict() error = nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("DecodeStrict() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantType && !errors.As(err, &decodeErr) {
				t.Errorf("DecodeStrict() error = %T, want *DecodeError", err)
			}
		})
	}
}

func TestDecodeError_Detail(t *testing.T) {
	t.Parallel()

	err := yamlutil.DecodeStrict([]byte("workers: 2\nengine:\n  pth: x\n"), &testConfig{})

	var decodeErr *yamlutil.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("error = %v, want *DecodeError", err)
	}
	if !strings.Contains(decodeErr.Detail, "pth") {
		t.Errorf("Detail = %q, want the unknown key named", decodeErr.Detail)
	}
	if !strings.HasPrefix(err.Error(), "yamlutil: ") {
		t.Errorf("Error() = %q", err.Error())
	}
}
