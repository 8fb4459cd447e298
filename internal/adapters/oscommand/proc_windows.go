//go:build windows

package oscommand

import (
	"os"
	"os/exec"
	"syscall"
)

func configureProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}

// terminate kills the child. Windows has no SIGTERM equivalent that
// os.Process can deliver.
func terminate(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}

// Signal relays sig to p. Only os.Kill can be delivered on Windows, so every
// signal ends the child.
func Signal(p *os.Process, _ os.Signal) error {
	return p.Kill()
}
