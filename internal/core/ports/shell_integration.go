package ports

import (
	"github.com/FocusTorn/pae/internal/core/domain/alias"
	"github.com/FocusTorn/pae/internal/core/domain/expandable"
)

/*
ShellIntegration reads and writes the generated alias script that makes every
configured alias token callable straight from the shell. This is a driven
port, implemented by a repository that knows each shell's script syntax.
*/
type ShellIntegration interface {
	/*
	   GetInstalledAliases returns the aliases currently present in the
	   generated script for the shell, keyed by name.
	*/
	GetInstalledAliases(shell expandable.ShellKind) (map[string]string, error)

	/*
	   WriteAliases replaces the generated script for the shell with the given
	   aliases and returns the script path.
	*/
	WriteAliases(shell expandable.ShellKind, aliases []alias.Alias) (string, error)

	// RemoveAliases deletes the generated script. A missing script is not an error.
	RemoveAliases(shell expandable.ShellKind) error

	// RenderScript returns the script text without writing it.
	RenderScript(shell expandable.ShellKind, aliases []alias.Alias) string

	// ScriptPath returns where the script for the shell lives.
	ScriptPath(shell expandable.ShellKind) string
}
