package engine

import (
	"context"
	"os"
	"path/filepath"
	"sync"
)

// fakeRunner records invocations and delegates to fn.
type fakeRunner struct {
	mu    sync.Mutex
	calls []Command
	fn    func(ctx context.Context, cmd Command) (string, string, error)
}

func (f *fakeRunner) Run(ctx context.Context, cmd Command) (string, string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	f.mu.Unlock()
	if f.fn == nil {
		return "", "", nil
	}
	return f.fn(ctx, cmd)
}

func (f *fakeRunner) Calls() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Command(nil), f.calls...)
}

// argAfter returns the argument following flag, or "".
func argAfter(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

// writeEngineOutput mimics soffice writing <outdir>/<base>.pdf.
func writeEngineOutput(cmd Command) error {
	outDir := argAfter(cmd.Args, "--outdir")
	input := cmd.Args[len(cmd.Args)-1]
	return os.WriteFile(filepath.Join(outDir, ExpectedOutputName(input)), []byte("%PDF-1.7 fake"), 0o644)
}
