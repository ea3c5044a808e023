package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	office2pdf "github.com/alnah/go-office2pdf"
	"github.com/alnah/go-office2pdf/internal/config"
	"github.com/alnah/go-office2pdf/internal/engine"
	"github.com/alnah/go-office2pdf/internal/fileutil"
	"github.com/alnah/go-office2pdf/internal/hints"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status     string                                          `json:"status"`
	Engine     engineInfo                                       `json:"engine"`
	Browser    browserInfo                                      `json:"browser"`
	Env        envInfo                                          `json:"environment"`
	System     systemInfo                                       `json:"system"`
	Categories map[office2pdf.FormatCategory][]office2pdf.Tier `json:"categories"`
	Warnings   []string                                         `json:"warnings,omitempty"`
	Errors     []string                                         `json:"errors,omitempty"`
}

// engineInfo holds the engine probe outcome and every candidate tried.
type engineInfo struct {
	Disabled   bool            `json:"disabled,omitempty"`
	Available  bool            `json:"available"`
	Path       string          `json:"path,omitempty"`
	Version    string          `json:"version,omitempty"`
	Candidates []candidateInfo `json:"candidates,omitempty"`
}

// candidateInfo is one entry of the engine search list.
type candidateInfo struct {
	Name     string `json:"name"`
	Resolved string `json:"resolved,omitempty"`
}

// browserInfo holds the embedded library status.
type browserInfo struct {
	Disabled bool   `json:"disabled,omitempty"`
	Found    bool   `json:"found"`
	Path     string `json:"path,omitempty"`
	Sandbox  bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	EngineEnv     string `json:"office2pdf_engine,omitempty"`
	BrowserBin    string `json:"rod_browser_bin,omitempty"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempDir      string `json:"temp_dir"`
	TempWritable bool   `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	flags, err := parseDoctorFlags(args, env.Stderr)
	if err != nil {
		return reportErr(err, env)
	}

	cfg, err := loadSettings(&flags.common, env)
	if err != nil {
		return reportErr(err, env)
	}

	// Probe diagnostics go to stderr only when asked for.
	logger := newLogger(env.Stderr, cfg.Log, &flags.common, slog.LevelError)
	conv, err := newConverter(cfg, logger, env)
	if err != nil {
		return reportErr(err, env)
	}
	defer conv.Close()

	result := runDoctor(ctx, conv, cfg, exec.LookPath)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// reportErr prints err and maps it to an exit code.
func reportErr(err error, env *Environment) int {
	if isHelp(err) {
		return ExitSuccess
	}
	fmt.Fprintf(env.Stderr, "error: %v\n", err)
	return exitCodeFor(err)
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, conv DocumentConverter, cfg *config.Config, lookPath func(string) (string, error)) *doctorResult {
	report := conv.Capabilities(ctx)

	result := &doctorResult{
		Status:     statusReady,
		Categories: report.Categories,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			EngineEnv:  os.Getenv(office2pdf.EngineEnv),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	checkEngine(result, report, cfg, lookPath)
	checkBrowser(result, report, cfg)
	checkEnvironment(result)
	checkSystem(result)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}

	return result
}

// checkEngine lists the engine candidates and the memoized probe result.
// A missing engine is a warning: the fallback tiers still produce output.
func checkEngine(result *doctorResult, report office2pdf.CapabilityReport, cfg *config.Config, lookPath func(string) (string, error)) {
	if cfg.Engine.Disabled {
		result.Engine.Disabled = true
		return
	}

	explicit := []string{cfg.Engine.Path, strings.TrimSpace(result.Env.EngineEnv)}
	for _, name := range engine.NewPathResolver("", cfg.Engine.Candidates, explicit...).Candidates() {
		c := candidateInfo{Name: name}
		if p, err := lookPath(name); err == nil {
			c.Resolved = p
		}
		result.Engine.Candidates = append(result.Engine.Candidates, c)
	}

	result.Engine.Available = report.Engine.Available
	result.Engine.Path = report.Engine.Path
	result.Engine.Version = report.Engine.Version
	if !report.Engine.Available {
		result.Warnings = append(result.Warnings,
			"No conversion engine found; documents use the fallback tiers"+hints.ForEngineNotFound())
	}
}

// checkBrowser reports the embedded library status.
func checkBrowser(result *doctorResult, report office2pdf.CapabilityReport, cfg *config.Config) {
	if cfg.Embedded.Disabled {
		result.Browser.Disabled = true
		return
	}

	result.Browser.Found = report.Embedded.Available
	result.Browser.Path = report.Embedded.Path
	result.Browser.Sandbox = !cfg.Embedded.NoSandbox && os.Getenv("ROD_NO_SANDBOX") != "1"
	if !result.Browser.Found {
		result.Warnings = append(result.Warnings,
			"Chrome/Chromium not found; the embedded tier is skipped"+hints.ForBrowserConnect())
	}
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	result.Env.CI = slices.ContainsFunc(ciVars, func(v string) bool { return os.Getenv(v) != "" })

	if (result.Env.Container || result.Env.CI) && result.Browser.Found && result.Browser.Sandbox {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but the browser sandbox is enabled. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("OFFICE2PDF_CONTAINER") == "1" {
		return true, "OFFICE2PDF_CONTAINER=1"
	}
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory is writable: the engine's
// per-attempt profiles live there.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	result.System.TempDir = tmpDir
	testFile := filepath.Join(tmpDir, fileutil.TempPrefix+"doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	_ = os.Remove(testFile)
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "office2pdf doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Conversion engine")
	switch {
	case r.Engine.Disabled:
		fmt.Fprintln(w, "  [OK] Disabled by config")
	case r.Engine.Available:
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Engine.Path)
		if r.Engine.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Engine.Version)
		}
	default:
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	for _, c := range r.Engine.Candidates {
		if c.Resolved != "" {
			fmt.Fprintf(w, "         %s -> %s\n", c.Name, c.Resolved)
		} else {
			fmt.Fprintf(w, "         %s (missing)\n", c.Name)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	switch {
	case r.Browser.Disabled:
		fmt.Fprintln(w, "  [OK] Disabled by config")
	case r.Browser.Found:
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Browser.Path)
		if r.Browser.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled")
		}
	default:
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Tiers")
	for _, c := range office2pdf.Categories {
		names := make([]string, 0, len(r.Categories[c]))
		for _, t := range r.Categories[c] {
			names = append(names, t.String())
		}
		fmt.Fprintf(w, "  %-16s %s\n", c.String()+":", strings.Join(names, " -> "))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to convert")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
