package main

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"
)

// run dispatches to a subcommand and returns the process exit code.
func run(ctx context.Context, args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]

	var err error
	switch cmd {
	case "convert":
		err = runConvertCmd(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(ctx, rest, env)
	case "serve":
		err = runServeCmd(ctx, rest, env)
	case "mcp":
		err = runMCPCmd(ctx, rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "office2pdf %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if err != nil {
		return reportErr(err, env)
	}
	return ExitSuccess
}

// isHelp reports whether err is a -h/--help request from flag parsing.
func isHelp(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
