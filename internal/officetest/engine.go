package officetest

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// EngineMode selects how a fake engine behaves on conversion.
type EngineMode int

const (
	// EngineCopies writes the given PDF as its output.
	EngineCopies EngineMode = iota
	// EngineHangs never exits on its own.
	EngineHangs
	// EngineFails exits non-zero with a message on stderr.
	EngineFails
	// EngineSilent exits zero without writing anything.
	EngineSilent
)

// FakeEngine writes an executable shell script that answers --version
// like soffice and converts according to mode. pdfSource is copied to the
// output directory in EngineCopies mode. When pidFile is not empty the
// script records its PID there before converting. Unix only.
func FakeEngine(t testing.TB, dir string, mode EngineMode, pdfSource, pidFile string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake engine scripts need a POSIX shell")
	}

	var action string
	switch mode {
	case EngineCopies:
		action = fmt.Sprintf("cp %q \"$outdir/$name.pdf\"", pdfSource)
	case EngineHangs:
		action = "exec sleep 60"
	case EngineFails:
		action = "echo 'Error: source file could not be loaded' >&2; exit 1"
	case EngineSilent:
		action = "exit 0"
	}

	recordPID := ""
	if pidFile != "" {
		recordPID = fmt.Sprintf("echo $$ > %q", pidFile)
	}

	script := fmt.Sprintf(`#!/bin/sh
outdir=""
input=""
while [ $# -gt 0 ]; do
  case "$1" in
    --version) echo "LibreOffice 7.6.4.1 fake"; exit 0 ;;
    --outdir) outdir="$2"; shift ;;
    --convert-to) shift ;;
    -*) ;;
    *) input="$1" ;;
  esac
  shift
done
base=$(basename "$input")
name="${base%%.*}"
%s
%s
`, recordPID, action)

	path := filepath.Join(dir, "fake-soffice")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil { // #nosec G306 -- test executable
		t.Fatalf("write fake engine: %v", err)
	}
	return path
}
