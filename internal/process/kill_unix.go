//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// Isolate places the command in its own process group so that
// KillProcessGroup reaches every descendant it spawns.
func Isolate(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best-effort; the caller still reaps the direct child with Wait.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
