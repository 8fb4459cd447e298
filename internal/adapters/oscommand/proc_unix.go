//go:build !windows

package oscommand

import (
	"os"
	"os/exec"
	"syscall"
)

// configureProcAttr puts a captured child in its own process group so the
// whole group can be terminated together. Children wired to the terminal
// stay in the foreground group and receive terminal signals directly.
func configureProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminate sends SIGTERM to the child's process group, falling back to the
// child alone.
func terminate(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	if cmd.SysProcAttr != nil && cmd.SysProcAttr.Setpgid {
		if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM); err == nil {
			return nil
		}
	}
	return cmd.Process.Signal(syscall.SIGTERM)
}

// Signal relays sig to p.
func Signal(p *os.Process, sig os.Signal) error {
	return p.Signal(sig)
}
