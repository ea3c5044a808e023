package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// ErrUsage wraps flag parsing errors.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	envFile string
	quiet   bool
	verbose bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.config, "config", "", "config file name or path")
	fs.StringVar(&c.envFile, "env-file", "", "load environment variables from file")
	fs.BoolVarP(&c.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&c.verbose, "verbose", "v", false, "show tiers, attempts and timing")
}

// convertFlags holds flags for the convert command.
type convertFlags struct {
	common   commonFlags
	output   string
	category string
	timeout  time.Duration
	workers  int
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common  commonFlags
	addr    string
	workers int
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	json   bool
}

// newFlagSet returns a flag set that reports errors instead of exiting.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// parse runs fs over args, wrapping everything but help requests in ErrUsage.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

func parseConvertFlags(args []string, w io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newFlagSet("convert", w, printConvertUsage)
	f.common.register(fs)
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.StringVarP(&f.category, "category", "c", "", "document category (word-processing, presentation, spreadsheet)")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "per-tier timeout (0 = config or 60s)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel conversions (0 = auto)")

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	if f.timeout < 0 {
		return nil, nil, fmt.Errorf("%w: --timeout must not be negative, got %s", ErrUsage, f.timeout)
	}
	return f, fs.Args(), nil
}

func parseServeFlags(args []string, w io.Writer) (*serveFlags, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve", w, printServeUsage)
	f.common.register(fs)
	fs.StringVar(&f.addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent conversions (0 = auto)")

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: serve takes no arguments, got %q", ErrUsage, fs.Args())
	}
	return f, nil
}

func parseDoctorFlags(args []string, w io.Writer) (*doctorFlags, error) {
	f := &doctorFlags{}
	fs := newFlagSet("doctor", w, printDoctorUsage)
	f.common.register(fs)
	fs.BoolVar(&f.json, "json", false, "print the report as JSON")

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return f, nil
}

func parseMCPFlags(args []string, w io.Writer) (*commonFlags, error) {
	f := &commonFlags{}
	fs := newFlagSet("mcp", w, printMCPUsage)
	f.register(fs)

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return f, nil
}
