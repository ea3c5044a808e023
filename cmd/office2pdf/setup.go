package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	office2pdf "github.com/alnah/go-office2pdf"
	"github.com/alnah/go-office2pdf/internal/config"
	"github.com/alnah/go-office2pdf/internal/fileutil"
	"github.com/alnah/go-office2pdf/internal/hints"
)

// loadSettings resolves the effective configuration for a command:
// env file, then config file, then environment overrides.
func loadSettings(common *commonFlags, env *Environment) (*config.Config, error) {
	if err := loadEnvFile(common.envFile); err != nil {
		return nil, err
	}
	if !common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	envCfg, err := loadEnvConfig()
	if err != nil {
		return nil, err
	}

	cfg := config.DefaultConfig()
	name := common.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name != "" {
		cfg, err = config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(envCfg, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the slog logger for a command. Flags win over the
// configured level; floor raises the minimum when not verbose, so
// per-document Info records do not duplicate the CLI's own output.
func newLogger(w io.Writer, cfg config.LogConfig, common *commonFlags, floor slog.Level) *slog.Logger {
	level := parseLevel(cfg.Level)
	switch {
	case common.verbose:
		level = slog.LevelDebug
	case common.quiet:
		level = slog.LevelError
	case level < floor:
		level = floor
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// converterOptions maps configuration onto library options. Zero values
// keep the library defaults.
func converterOptions(cfg *config.Config, logger *slog.Logger, env *Environment) []office2pdf.Option {
	opts := []office2pdf.Option{
		office2pdf.WithLogger(logger),
	}
	if env.Now != nil {
		opts = append(opts, office2pdf.WithClock(env.Now))
	}
	if cfg.Convert.Timeout > 0 {
		opts = append(opts, office2pdf.WithTimeout(cfg.Convert.Timeout))
	}

	if cfg.Engine.Disabled {
		opts = append(opts, office2pdf.WithoutEngine())
	} else {
		if cfg.Engine.Path != "" {
			opts = append(opts, office2pdf.WithEnginePath(cfg.Engine.Path))
		}
		if len(cfg.Engine.Candidates) > 0 {
			opts = append(opts, office2pdf.WithEngineCandidates(cfg.Engine.Candidates))
		}
		if cfg.Engine.ProbeTimeout > 0 {
			opts = append(opts, office2pdf.WithProbeTimeout(cfg.Engine.ProbeTimeout))
		}
		if cfg.Engine.SettleDelay > 0 {
			opts = append(opts, office2pdf.WithSettleDelay(cfg.Engine.SettleDelay))
		}
	}

	if cfg.Embedded.Disabled {
		opts = append(opts, office2pdf.WithoutEmbeddedLibrary())
	} else {
		if cfg.Embedded.BrowserBin != "" {
			opts = append(opts, office2pdf.WithBrowserBin(cfg.Embedded.BrowserBin))
		}
		if cfg.Embedded.NoSandbox {
			opts = append(opts, office2pdf.WithBrowserNoSandbox(true))
		}
	}

	if cfg.Render.PageSize != "" {
		opts = append(opts, office2pdf.WithPageSize(cfg.Render.PageSize))
	}
	if cfg.Render.TimestampFormat != "" {
		opts = append(opts, office2pdf.WithTimestampFormat(cfg.Render.TimestampFormat))
	}

	return append(opts, env.Options...)
}

// newConverter builds a converter from configuration.
func newConverter(cfg *config.Config, logger *slog.Logger, env *Environment) (*office2pdf.Converter, error) {
	conv, err := office2pdf.NewConverter(converterOptions(cfg, logger, env)...)
	if err != nil {
		return nil, fmt.Errorf("creating converter: %w", err)
	}
	return conv, nil
}
