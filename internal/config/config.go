// Package config loads the YAML configuration shared by the CLI, the HTTP
// server and the MCP server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-office2pdf/internal/dateutil"
	"github.com/alnah/go-office2pdf/internal/fileutil"
	"github.com/alnah/go-office2pdf/internal/render"
	"github.com/alnah/go-office2pdf/internal/yamlutil"
)

// AppDir is the directory name under the user config directory.
const AppDir = "go-office2pdf"

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field limits.
const (
	MaxPathLength      = 4096
	MaxAddrLength      = 256
	MaxCandidates      = 32
	MaxWorkers         = 8
	MaxUploadMB        = 1024
	MaxTimeout         = 30 * time.Minute
	MaxProbeTimeout    = time.Minute
	MaxSettleDelay     = 30 * time.Second
	MaxTimestampLength = dateutil.MaxFormatLength
)

// Config holds all configuration.
type Config struct {
	Engine   EngineConfig   `yaml:"engine"`
	Embedded EmbeddedConfig `yaml:"embedded"`
	Render   RenderConfig   `yaml:"render"`
	Convert  ConvertConfig  `yaml:"convert"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// EngineConfig configures the external conversion engine.
type EngineConfig struct {
	Disabled bool   `yaml:"disabled"`
	Path     string `yaml:"path"` // probed before the candidates
	// Candidates replaces the built-in per-OS table. Keys are GOOS values.
	Candidates   map[string][]string `yaml:"candidates"`
	ProbeTimeout time.Duration       `yaml:"probeTimeout"` // 0 = 5s
	SettleDelay  time.Duration       `yaml:"settleDelay"`  // 0 = 500ms
}

// EmbeddedConfig configures the headless browser tier.
type EmbeddedConfig struct {
	Disabled   bool   `yaml:"disabled"`
	BrowserBin string `yaml:"browserBin"` // empty = ROD_BROWSER_BIN or search
	NoSandbox  bool   `yaml:"noSandbox"`
}

// RenderConfig configures the built-in PDF renderer.
type RenderConfig struct {
	PageSize        string `yaml:"pageSize"`        // "A4" (default), "Letter", "Legal"
	TimestampFormat string `yaml:"timestampFormat"` // preset or token pattern
}

// ConvertConfig configures conversions.
type ConvertConfig struct {
	Timeout   time.Duration `yaml:"timeout"`   // per tier, 0 = 60s
	Workers   int           `yaml:"workers"`   // 0 = auto
	OutputDir string        `yaml:"outputDir"` // empty = next to the input
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	MaxUploadMB  int           `yaml:"maxUploadMB"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Validate checks ranges and field lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	// Engine
	if err := validateFieldLength("engine.path", c.Engine.Path, MaxPathLength); err != nil {
		return err
	}
	for goos, list := range c.Engine.Candidates {
		if len(list) > MaxCandidates {
			return fmt.Errorf("%w: engine.candidates.%s has %d entries (max %d)", ErrInvalidValue, goos, len(list), MaxCandidates)
		}
		for i, p := range list {
			if err := validateFieldLength(fmt.Sprintf("engine.candidates.%s[%d]", goos, i), p, MaxPathLength); err != nil {
				return err
			}
		}
	}
	if err := validateDuration("engine.probeTimeout", c.Engine.ProbeTimeout, MaxProbeTimeout); err != nil {
		return err
	}
	if err := validateDuration("engine.settleDelay", c.Engine.SettleDelay, MaxSettleDelay); err != nil {
		return err
	}

	// Embedded
	if err := validateFieldLength("embedded.browserBin", c.Embedded.BrowserBin, MaxPathLength); err != nil {
		return err
	}

	// Render
	if c.Render.PageSize != "" {
		if _, err := render.ParsePageSize(c.Render.PageSize); err != nil {
			return fmt.Errorf("%w: render.pageSize: %v", ErrInvalidValue, err)
		}
	}
	if err := validateFieldLength("render.timestampFormat", c.Render.TimestampFormat, MaxTimestampLength); err != nil {
		return err
	}
	if _, err := dateutil.Layout(c.Render.TimestampFormat); err != nil {
		return fmt.Errorf("%w: render.timestampFormat: %v", ErrInvalidValue, err)
	}

	// Convert
	if err := validateDuration("convert.timeout", c.Convert.Timeout, MaxTimeout); err != nil {
		return err
	}
	if c.Convert.Workers < 0 || c.Convert.Workers > MaxWorkers {
		return fmt.Errorf("%w: convert.workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Convert.Workers)
	}
	if err := validateFieldLength("convert.outputDir", c.Convert.OutputDir, MaxPathLength); err != nil {
		return err
	}

	// Server
	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if c.Server.MaxUploadMB < 0 || c.Server.MaxUploadMB > MaxUploadMB {
		return fmt.Errorf("%w: server.maxUploadMB: must be between 0 and %d, got %d", ErrInvalidValue, MaxUploadMB, c.Server.MaxUploadMB)
	}
	if err := validateDuration("server.readTimeout", c.Server.ReadTimeout, MaxTimeout); err != nil {
		return err
	}
	if err := validateDuration("server.writeTimeout", c.Server.WriteTimeout, MaxTimeout); err != nil {
		return err
	}

	// Log
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level: %q (must be debug, info, warn, or error)", ErrInvalidValue, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log.format: %q (must be text or json)", ErrInvalidValue, c.Log.Format)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateDuration accepts zero (use the default) up to maxValue.
func validateDuration(fieldName string, d, maxValue time.Duration) error {
	if d < 0 || d > maxValue {
		return fmt.Errorf("%w: %s: must be between 0 and %s, got %s", ErrInvalidValue, fieldName, maxValue, d)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
// Zero durations and worker counts defer to the library defaults.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{PageSize: render.DefaultPageSize},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8080",
			MaxUploadMB:  50,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 5 * time.Minute,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields absent from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.DecodeStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths returns the files LoadConfig tries for a config name, in
// order: current directory, then the user config directory.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppDir, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
