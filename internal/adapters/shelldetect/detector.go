// Package shelldetect works out which shell rendered commands are meant for.
package shelldetect

import (
	"os"
	"runtime"
	"sync"

	"github.com/FocusTorn/pae/internal/core/domain/expandable"
	"github.com/FocusTorn/pae/internal/core/ports"
)

// Detector implements ports.ShellDetector. The first detection is cached.
type Detector struct {
	override string
	goos     string
	getenv   func(string) string

	once  sync.Once
	shell expandable.ShellKind
}

// NewDetector creates a Detector for the running process. A non-empty
// override (pwsh, linux or cmd) skips detection.
func NewDetector(override string) ports.ShellDetector {
	return &Detector{override: override, goos: runtime.GOOS, getenv: os.Getenv}
}

// DetectShellType reports the shell of the current invocation.
func (d *Detector) DetectShellType() expandable.ShellKind {
	d.once.Do(func() {
		d.shell = d.detect()
	})
	return d.shell
}

func (d *Detector) detect() expandable.ShellKind {
	switch kind := expandable.ShellKind(d.override); kind {
	case expandable.ShellPwsh, expandable.ShellLinux, expandable.ShellCmd:
		return kind
	}

	// PowerShell exports PSModulePath on every platform. cmd.exe sets PROMPT,
	// which PowerShell does not, so a cmd started from PowerShell still
	// reports cmd.
	inPwsh := d.getenv("PSModulePath") != "" && d.getenv("PROMPT") == ""
	if d.goos == "windows" {
		if inPwsh {
			return expandable.ShellPwsh
		}
		return expandable.ShellCmd
	}
	if inPwsh && d.getenv("SHELL") == "" {
		return expandable.ShellPwsh
	}
	return expandable.ShellLinux
}
