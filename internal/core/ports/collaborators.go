package ports

import (
	"github.com/FocusTorn/pae/internal/core/domain/aliasconfig"
	"github.com/FocusTorn/pae/internal/core/domain/command"
	"github.com/FocusTorn/pae/internal/core/domain/expandable"
)

// ShellDetector reports the shell commands are rendered for.
type ShellDetector interface {
	DetectShellType() expandable.ShellKind
}

// ContextFlagProvider selects the expandable-flag table for a target.
type ContextFlagProvider interface {
	GetContextAwareFlags(cfg *aliasconfig.Config, target, expandedTarget string) expandable.Table
}

// EnvironmentSink applies environment effects to the host process.
type EnvironmentSink interface {
	Apply(effects command.EnvironmentEffects) error
}

// Reporter prints user-facing messages.
type Reporter interface {
	Info(msg string)
	Warn(msg string)
	Error(err error)
	// Print writes a line to standard output without decoration.
	Print(line string)
}
