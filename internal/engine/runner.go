package engine

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/alnah/go-office2pdf/internal/process"
)

// waitDelay bounds how long Wait keeps draining pipes after the process
// group was killed.
const waitDelay = 2 * time.Second

// Command describes one subprocess invocation.
type Command struct {
	Path string
	Args []string
	Env  []string // nil inherits the parent environment
}

// Runner abstracts command execution to enable testing without real subprocesses.
type Runner interface {
	Run(ctx context.Context, cmd Command) (stdout string, stderr string, err error)
}

// ExecRunner implements Runner using os/exec. The child runs in its own
// process group, which is killed as a whole when ctx is done.
type ExecRunner struct{}

var _ Runner = ExecRunner{}

// Run executes cmd and waits for it. When ctx expires the returned error
// wraps ctx.Err().
func (ExecRunner) Run(ctx context.Context, c Command) (string, string, error) {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...) // #nosec G204 -- path comes from the probed candidate list
	cmd.Env = c.Env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	process.Isolate(cmd)
	cmd.Cancel = func() error {
		process.KillProcessGroup(cmd.Process.Pid)
		return nil
	}
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return stdout.String(), stderr.String(), fmt.Errorf("%s: %w", c.Path, ctxErr)
	}
	return stdout.String(), stderr.String(), err
}
