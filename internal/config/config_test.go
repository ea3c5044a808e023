package config

// Notes:
// - Tests touching the working directory or XDG_CONFIG_HOME use t.Chdir /
//   t.Setenv and therefore do not run in parallel.
// - Durations are decoded from YAML strings such as "5s" and "2m".

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Render.PageSize != "A4" {
		t.Errorf("Render.PageSize = %q, want A4", cfg.Render.PageSize)
	}
	if cfg.Engine.Disabled || cfg.Embedded.Disabled {
		t.Error("tiers disabled by default")
	}
	if cfg.Convert.Timeout != 0 || cfg.Convert.Workers != 0 {
		t.Errorf("Convert = %+v, want zero values (library defaults)", cfg.Convert)
	}
	if cfg.Server.Addr == "" || cfg.Server.MaxUploadMB == 0 {
		t.Errorf("Server = %+v, want address and upload limit", cfg.Server)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestValidateFieldLength - Length limits
// ---------------------------------------------------------------------------

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     string
		maxLength int
		wantErr   bool
	}{
		{name: "empty value is valid", value: "", maxLength: 10},
		{name: "value at limit is valid", value: "1234567890", maxLength: 10},
		{name: "value over limit returns error", value: "12345678901", maxLength: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateFieldLength("test.field", tt.value, tt.maxLength)
			if tt.wantErr != (err != nil) {
				t.Fatalf("validateFieldLength() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrFieldTooLong) {
				t.Errorf("error = %v, want ErrFieldTooLong", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestConfig_Validate - Value ranges
// ---------------------------------------------------------------------------

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{
			name:   "defaults pass",
			mutate: func(*Config) {},
		},
		{
			name: "full valid config",
			mutate: func(c *Config) {
				c.Engine = EngineConfig{
					Path:         "/opt/libreoffice/program/soffice",
					Candidates:   map[string][]string{"linux": {"soffice"}},
					ProbeTimeout: 3 * time.Second,
					SettleDelay:  time.Second,
				}
				c.Embedded = EmbeddedConfig{BrowserBin: "/usr/bin/chromium", NoSandbox: true}
				c.Render = RenderConfig{PageSize: "letter", TimestampFormat: "european"}
				c.Convert = ConvertConfig{Timeout: 2 * time.Minute, Workers: 4}
				c.Log = LogConfig{Level: "DEBUG", Format: "json"}
			},
		},
		{
			name:    "unknown page size",
			mutate:  func(c *Config) { c.Render.PageSize = "A3" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "timestamp format too long",
			mutate:  func(c *Config) { c.Render.TimestampFormat = strings.Repeat("Y", MaxTimestampLength+1) },
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Convert.Timeout = -time.Second },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "timeout above max",
			mutate:  func(c *Config) { c.Convert.Timeout = MaxTimeout + time.Second },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "probe timeout above max",
			mutate:  func(c *Config) { c.Engine.ProbeTimeout = 2 * time.Minute },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "too many workers",
			mutate:  func(c *Config) { c.Convert.Workers = MaxWorkers + 1 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "negative workers",
			mutate:  func(c *Config) { c.Convert.Workers = -1 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "engine path too long",
			mutate:  func(c *Config) { c.Engine.Path = strings.Repeat("a", MaxPathLength+1) },
			wantErr: ErrFieldTooLong,
		},
		{
			name: "too many candidates",
			mutate: func(c *Config) {
				c.Engine.Candidates = map[string][]string{"linux": make([]string, MaxCandidates+1)}
			},
			wantErr: ErrInvalidValue,
		},
		{
			name:    "upload limit too large",
			mutate:  func(c *Config) { c.Server.MaxUploadMB = MaxUploadMB + 1 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig - File loading and search
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("valid file path loads config", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "office2pdf.yaml", `engine:
  path: /opt/lo/program/soffice
  probeTimeout: 3s
  candidates:
    linux: [soffice, /usr/local/bin/soffice]
embedded:
  disabled: true
render:
  pageSize: Letter
  timestampFormat: "DD/MM/YYYY"
convert:
  timeout: 2m
  workers: 3
server:
  addr: ":9000"
log:
  level: debug
`)

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Engine.Path != "/opt/lo/program/soffice" {
			t.Errorf("Engine.Path = %q", cfg.Engine.Path)
		}
		if cfg.Engine.ProbeTimeout != 3*time.Second {
			t.Errorf("Engine.ProbeTimeout = %s, want 3s", cfg.Engine.ProbeTimeout)
		}
		if got := cfg.Engine.Candidates["linux"]; len(got) != 2 || got[1] != "/usr/local/bin/soffice" {
			t.Errorf("Engine.Candidates[linux] = %v", got)
		}
		if !cfg.Embedded.Disabled {
			t.Error("Embedded.Disabled = false, want true")
		}
		if cfg.Render.PageSize != "Letter" || cfg.Render.TimestampFormat != "DD/MM/YYYY" {
			t.Errorf("Render = %+v", cfg.Render)
		}
		if cfg.Convert.Timeout != 2*time.Minute || cfg.Convert.Workers != 3 {
			t.Errorf("Convert = %+v", cfg.Convert)
		}
		if cfg.Server.Addr != ":9000" {
			t.Errorf("Server.Addr = %q", cfg.Server.Addr)
		}
		if cfg.Server.MaxUploadMB != DefaultConfig().Server.MaxUploadMB {
			t.Errorf("Server.MaxUploadMB = %d, want default kept", cfg.Server.MaxUploadMB)
		}
		if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
			t.Errorf("Log = %+v", cfg.Log)
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("/nonexistent/path/config.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "invalid.yaml", "render: [unclosed")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "unknown.yaml", "render:\n  pageSize: A4\n  watermark: DRAFT\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value is rejected after parsing", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "bad.yaml", "convert:\n  workers: 500\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("unreadable file returns read error not ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		if runtime.GOOS == "windows" || os.Geteuid() == 0 {
			t.Skip("permission bits are not enforced")
		}
		path := writeConfig(t, t.TempDir(), "unreadable.yaml", "log:\n  level: info\n")
		if err := os.Chmod(path, 0o000); err != nil {
			t.Fatalf("setup chmod: %v", err)
		}
		defer os.Chmod(path, 0o600)

		_, err := LoadConfig(path)
		if err == nil {
			t.Fatal("LoadConfig() expected error")
		}
		if errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want read error", err)
		}
	})
}

func TestLoadConfig_SearchByName(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", filepath.Join(dir, "home"))

	t.Run("current directory .yml", func(t *testing.T) {
		writeConfig(t, dir, "local.yml", "log:\n  format: json\n")

		cfg, err := LoadConfig("local")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Log.Format != "json" {
			t.Errorf("Log.Format = %q, want json", cfg.Log.Format)
		}
	})

	t.Run("user config directory", func(t *testing.T) {
		if runtime.GOOS != "linux" {
			t.Skip("XDG_CONFIG_HOME only drives os.UserConfigDir on Linux")
		}
		appDir := filepath.Join(dir, "xdg", AppDir)
		if err := os.MkdirAll(appDir, 0o750); err != nil {
			t.Fatal(err)
		}
		writeConfig(t, appDir, "shared.yaml", "render:\n  pageSize: Legal\n")

		cfg, err := LoadConfig("shared")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Render.PageSize != "Legal" {
			t.Errorf("Render.PageSize = %q, want Legal", cfg.Render.PageSize)
		}
	})

	t.Run("missing name lists searched paths", func(t *testing.T) {
		_, err := LoadConfig("absent")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		for _, p := range SearchPaths("absent") {
			if !strings.Contains(err.Error(), p) {
				t.Errorf("error %q does not mention %s", err, p)
			}
		}
	})
}
