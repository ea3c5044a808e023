package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	office2pdf "github.com/alnah/go-office2pdf"
	"github.com/alnah/go-office2pdf/internal/config"
	"github.com/alnah/go-office2pdf/internal/fileutil"
)

const envPrefix = "OFFICE2PDF_"

// defaultEnvFile is loaded when present and --env-file is not given.
const defaultEnvFile = ".env"

// ErrEnvFile is returned when an explicit env file cannot be loaded.
var ErrEnvFile = errors.New("failed to load env file")

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // OFFICE2PDF_CONFIG: config file name or path
	Timeout    time.Duration // OFFICE2PDF_TIMEOUT: per-tier timeout
	Workers    int           // OFFICE2PDF_WORKERS: parallel conversions
	OutputDir  string        // OFFICE2PDF_OUTPUT_DIR: default output directory
	PageSize   string        // OFFICE2PDF_PAGE_SIZE: A4, Letter, Legal
	LogLevel   string        // OFFICE2PDF_LOG_LEVEL: debug, info, warn, error
}

// knownEnvVars lists valid OFFICE2PDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = []string{
	office2pdf.EngineEnv,
	"OFFICE2PDF_CONFIG",
	"OFFICE2PDF_TIMEOUT",
	"OFFICE2PDF_WORKERS",
	"OFFICE2PDF_OUTPUT_DIR",
	"OFFICE2PDF_PAGE_SIZE",
	"OFFICE2PDF_LOG_LEVEL",
	"OFFICE2PDF_CONTAINER",
}

// loadEnvFile loads variables from path into the process environment.
// Variables already set are not overridden. With an empty path the
// default .env is loaded when it exists.
func loadEnvFile(path string) error {
	if path == "" {
		if !fileutil.FileExists(defaultEnvFile) {
			return nil
		}
		path = defaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEnvFile, path, err)
	}
	return nil
}

// loadEnvConfig reads configuration from environment variables.
// Unparsable numbers and durations are reported as errors rather than
// silently dropped.
func loadEnvConfig() (*envConfig, error) {
	cfg := &envConfig{
		ConfigPath: os.Getenv("OFFICE2PDF_CONFIG"),
		OutputDir:  os.Getenv("OFFICE2PDF_OUTPUT_DIR"),
		PageSize:   os.Getenv("OFFICE2PDF_PAGE_SIZE"),
		LogLevel:   os.Getenv("OFFICE2PDF_LOG_LEVEL"),
	}

	if v := os.Getenv("OFFICE2PDF_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: OFFICE2PDF_TIMEOUT=%q (want a positive duration like 90s)", config.ErrInvalidValue, v)
		}
		cfg.Timeout = d
	}

	if v := os.Getenv("OFFICE2PDF_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: OFFICE2PDF_WORKERS=%q (want a non-negative integer)", config.ErrInvalidValue, v)
		}
		cfg.Workers = n
	}

	return cfg, nil
}

// warnUnknownEnvVars prints warnings for unrecognized OFFICE2PDF_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !slices.Contains(knownEnvVars, name) {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig applies environment values on top of the loaded config.
// Precedence: flags > environment > config file > defaults
// (flags are applied later by each command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Timeout > 0 {
		cfg.Convert.Timeout = env.Timeout
	}
	if env.Workers > 0 {
		cfg.Convert.Workers = env.Workers
	}
	if env.OutputDir != "" {
		cfg.Convert.OutputDir = env.OutputDir
	}
	if env.PageSize != "" {
		cfg.Render.PageSize = env.PageSize
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
}
