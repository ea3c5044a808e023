package main

// Notes:
// - Tests use t.Setenv() and t.Chdir() which prevent t.Parallel().
// - loadEnvFile tests unset the variable after t.Setenv so godotenv sees
//   it as absent; t.Setenv still restores the original value on cleanup.

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-office2pdf/internal/config"
)

// unsetEnv removes key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("Unsetenv(%s) error = %v", key, err)
	}
}

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("OFFICE2PDF_CONFIG", "/etc/office2pdf/prod.yaml")
	t.Setenv("OFFICE2PDF_TIMEOUT", "2m")
	t.Setenv("OFFICE2PDF_WORKERS", "3")
	t.Setenv("OFFICE2PDF_OUTPUT_DIR", "/out")
	t.Setenv("OFFICE2PDF_PAGE_SIZE", "Letter")
	t.Setenv("OFFICE2PDF_LOG_LEVEL", "debug")

	cfg, err := loadEnvConfig()
	if err != nil {
		t.Fatalf("loadEnvConfig() error = %v", err)
	}

	if cfg.ConfigPath != "/etc/office2pdf/prod.yaml" {
		t.Errorf("ConfigPath = %q", cfg.ConfigPath)
	}
	if cfg.Timeout != 2*time.Minute {
		t.Errorf("Timeout = %v, want 2m", cfg.Timeout)
	}
	if cfg.Workers != 3 {
		t.Errorf("Workers = %d, want 3", cfg.Workers)
	}
	if cfg.OutputDir != "/out" {
		t.Errorf("OutputDir = %q, want /out", cfg.OutputDir)
	}
	if cfg.PageSize != "Letter" {
		t.Errorf("PageSize = %q, want Letter", cfg.PageSize)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoadEnvConfig_Empty(t *testing.T) {
	for _, key := range knownEnvVars {
		unsetEnv(t, key)
	}

	cfg, err := loadEnvConfig()
	if err != nil {
		t.Fatalf("loadEnvConfig() error = %v", err)
	}
	if *cfg != (envConfig{}) {
		t.Errorf("loadEnvConfig() = %+v, want zero value", *cfg)
	}
}

func TestLoadEnvConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unparsable timeout", key: "OFFICE2PDF_TIMEOUT", value: "soon"},
		{name: "bare number timeout", key: "OFFICE2PDF_TIMEOUT", value: "90"},
		{name: "zero timeout", key: "OFFICE2PDF_TIMEOUT", value: "0s"},
		{name: "negative timeout", key: "OFFICE2PDF_TIMEOUT", value: "-5s"},
		{name: "unparsable workers", key: "OFFICE2PDF_WORKERS", value: "many"},
		{name: "negative workers", key: "OFFICE2PDF_WORKERS", value: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetEnv(t, "OFFICE2PDF_TIMEOUT")
			unsetEnv(t, "OFFICE2PDF_WORKERS")
			t.Setenv(tt.key, tt.value)

			_, err := loadEnvConfig()
			if !errors.Is(err, config.ErrInvalidValue) {
				t.Fatalf("loadEnvConfig() error = %v, want %v", err, config.ErrInvalidValue)
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error %q does not name %s", err, tt.key)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Precedence over the config file
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("environment overrides file values", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Convert.Timeout = time.Minute
		cfg.Convert.Workers = 2
		cfg.Convert.OutputDir = "/from/file"

		applyEnvConfig(&envConfig{
			Timeout:   3 * time.Minute,
			Workers:   6,
			OutputDir: "/from/env",
			PageSize:  "Legal",
			LogLevel:  "warn",
		}, cfg)

		if cfg.Convert.Timeout != 3*time.Minute {
			t.Errorf("Timeout = %v, want 3m", cfg.Convert.Timeout)
		}
		if cfg.Convert.Workers != 6 {
			t.Errorf("Workers = %d, want 6", cfg.Convert.Workers)
		}
		if cfg.Convert.OutputDir != "/from/env" {
			t.Errorf("OutputDir = %q, want /from/env", cfg.Convert.OutputDir)
		}
		if cfg.Render.PageSize != "Legal" {
			t.Errorf("PageSize = %q, want Legal", cfg.Render.PageSize)
		}
		if cfg.Log.Level != "warn" {
			t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
		}
	})

	t.Run("empty environment keeps file values", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Convert.Timeout = time.Minute
		cfg.Convert.OutputDir = "/from/file"
		want := *cfg

		applyEnvConfig(&envConfig{}, cfg)

		if cfg.Convert != want.Convert || cfg.Render != want.Render || cfg.Log != want.Log {
			t.Errorf("config changed: got %+v, want %+v", *cfg, want)
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("OFFICE2PDF_TIMOUT", "30s")
	t.Setenv("OFFICE2PDF_WORKERS", "2")

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)

	out := buf.String()
	if !strings.Contains(out, "OFFICE2PDF_TIMOUT") {
		t.Errorf("output %q does not warn about OFFICE2PDF_TIMOUT", out)
	}
	if strings.Contains(out, "OFFICE2PDF_WORKERS") {
		t.Errorf("output %q warns about a known variable", out)
	}
}

// ---------------------------------------------------------------------------
// TestLoadEnvFile - .env loading
// ---------------------------------------------------------------------------

func TestLoadEnvFile(t *testing.T) {
	unsetEnv(t, "OFFICE2PDF_PAGE_SIZE")
	t.Setenv("OFFICE2PDF_LOG_LEVEL", "error")

	path := filepath.Join(t.TempDir(), "office2pdf.env")
	content := "OFFICE2PDF_PAGE_SIZE=Letter\nOFFICE2PDF_LOG_LEVEL=debug\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if err := loadEnvFile(path); err != nil {
		t.Fatalf("loadEnvFile() error = %v", err)
	}

	if got := os.Getenv("OFFICE2PDF_PAGE_SIZE"); got != "Letter" {
		t.Errorf("OFFICE2PDF_PAGE_SIZE = %q, want Letter", got)
	}
	if got := os.Getenv("OFFICE2PDF_LOG_LEVEL"); got != "error" {
		t.Errorf("OFFICE2PDF_LOG_LEVEL = %q, want the existing value error", got)
	}
}

func TestLoadEnvFile_DefaultFile(t *testing.T) {
	unsetEnv(t, "OFFICE2PDF_OUTPUT_DIR")

	dir := t.TempDir()
	t.Chdir(dir)

	if err := loadEnvFile(""); err != nil {
		t.Fatalf("loadEnvFile() without .env error = %v", err)
	}
	if _, ok := os.LookupEnv("OFFICE2PDF_OUTPUT_DIR"); ok {
		t.Fatal("OFFICE2PDF_OUTPUT_DIR set without a .env file")
	}

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("OFFICE2PDF_OUTPUT_DIR=pdf\n"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := loadEnvFile(""); err != nil {
		t.Fatalf("loadEnvFile() error = %v", err)
	}
	if got := os.Getenv("OFFICE2PDF_OUTPUT_DIR"); got != "pdf" {
		t.Errorf("OFFICE2PDF_OUTPUT_DIR = %q, want pdf", got)
	}
}

func TestLoadEnvFile_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	err := loadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	if !errors.Is(err, ErrEnvFile) {
		t.Errorf("loadEnvFile() error = %v, want %v", err, ErrEnvFile)
	}
}
