package main

import (
	"fmt"
	"io"
	"strings"

	office2pdf "github.com/alnah/go-office2pdf"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: office2pdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert office documents to PDF")
	fmt.Fprintln(w, "  doctor     Check which conversion tiers are available")
	fmt.Fprintln(w, "  serve      Serve conversions over HTTP")
	fmt.Fprintln(w, "  mcp        Serve conversion tools over MCP (stdio)")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'office2pdf help <command>' for details on a specific command.")
}

// printCommonUsage prints the flags every command accepts.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "      --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --env-file <path>     Load environment variables (default: .env if present)")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show tiers, attempts and timing")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: office2pdf convert <file|dir>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert office documents to PDF. Every input yields a PDF: the best")
	fmt.Fprintln(w, "available tier is used, down to a placeholder page naming the file.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  file|dir  Documents, or directories scanned recursively for:")
	fmt.Fprintf(w, "            %s\n", strings.Join(office2pdf.SupportedExtensions(), " "))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (single input) or directory")
	fmt.Fprintln(w, "  -c, --category <name>     word-processing, presentation, spreadsheet")
	fmt.Fprintln(w, "                            (default: from the file extension)")
	fmt.Fprintln(w, "  -t, --timeout <dur>       Per-tier timeout, e.g. 90s (default 60s)")
	fmt.Fprintf(w, "  -w, --workers <n>         Parallel conversions (0 = auto, max %d)\n", office2pdf.MaxWorkers)
	fmt.Fprintln(w)
	printCommonUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  OFFICE2PDF_ENGINE         Path to the soffice binary")
	fmt.Fprintln(w, "  OFFICE2PDF_CONFIG         Config file name or path")
	fmt.Fprintln(w, "  OFFICE2PDF_TIMEOUT        Per-tier timeout")
	fmt.Fprintln(w, "  OFFICE2PDF_WORKERS        Parallel conversions")
	fmt.Fprintln(w, "  OFFICE2PDF_OUTPUT_DIR     Default output directory")
	fmt.Fprintln(w, "  OFFICE2PDF_PAGE_SIZE      A4, Letter, Legal")
	fmt.Fprintln(w, "  OFFICE2PDF_LOG_LEVEL      debug, info, warn, error")
	fmt.Fprintln(w, "  ROD_BROWSER_BIN           Chromium binary for the embedded tier")
	fmt.Fprintln(w, "  ROD_NO_SANDBOX=1          Disable the Chromium sandbox")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: office2pdf doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the conversion engine, the browser, the temp directory,")
	fmt.Fprintln(w, "and which tiers each document category would try.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Print the report as JSON")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: office2pdf serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve conversions over HTTP:")
	fmt.Fprintln(w, "  GET  /healthz             Liveness")
	fmt.Fprintln(w, "  GET  /v1/capabilities     Available tiers")
	fmt.Fprintln(w, "  POST /v1/convert          Multipart field \"file\", optional \"category\";")
	fmt.Fprintln(w, "                            responds with application/pdf")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --addr <host:port>    Listen address (default 127.0.0.1:8080)")
	fmt.Fprintln(w, "  -w, --workers <n>         Concurrent conversions (0 = auto)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printMCPUsage prints usage for the mcp command.
func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: office2pdf mcp [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the convert_document and conversion_capabilities tools")
	fmt.Fprintln(w, "over the Model Context Protocol on stdin/stdout.")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "mcp":
		printMCPUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: office2pdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: office2pdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
