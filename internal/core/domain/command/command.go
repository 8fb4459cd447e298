/*
Package command holds the per-invocation values produced while turning an
alias into a runnable command: environment effects from env-setting flags,
internal flag settings and the final built command.
*/
package command

import (
	"strings"
	"time"

	"github.com/FocusTorn/pae/internal/core/domain/expandable"
	"github.com/FocusTorn/pae/internal/core/domain/process"
)

// Environment variables written by env-setting flags.
const (
	EnvDebug       = "PAE_DEBUG"
	EnvVerbose     = "PAE_VERBOSE"
	EnvEcho        = "PAE_ECHO"
	EnvEchoVariant = "PAE_ECHO_VARIANT"
	EnvEchoX       = "PAE_ECHO_X"
	EnvInstalling  = "PAE_INSTALLING"
)

// EnvVar is a single environment assignment.
type EnvVar struct {
	Name  string
	Value string
}

/*
EnvironmentEffects is the outcome of env-setting flag processing. The core
never touches the process environment itself; the host applies Vars at the
boundary.
*/
type EnvironmentEffects struct {
	Debug       bool
	Verbose     bool
	Echo        bool
	EchoX       bool
	EchoVariant string
	Vars        []EnvVar
}

// Set records an assignment, replacing an earlier one with the same name.
func (e *EnvironmentEffects) Set(name, value string) {
	for i := range e.Vars {
		if e.Vars[i].Name == name {
			e.Vars[i].Value = value
			return
		}
	}
	e.Vars = append(e.Vars, EnvVar{Name: name, Value: value})
}

// Lookup returns the value recorded for name.
func (e EnvironmentEffects) Lookup(name string) (string, bool) {
	for _, v := range e.Vars {
		if v.Name == name {
			return v.Value, true
		}
	}
	return "", false
}

// Empty reports whether no variable was set.
func (e EnvironmentEffects) Empty() bool {
	return len(e.Vars) == 0
}

// InternalFlags are the tool's own per-invocation switches.
type InternalFlags struct {
	Timeout time.Duration // zero means the pool default
	Help    bool
}

// Kind tells the executor how a built command must be run.
type Kind int

const (
	// KindArgv spawns Argv[0] with the remaining tokens as arguments.
	KindArgv Kind = iota
	// KindShell hands the joined command line to the OS shell.
	KindShell
)

/*
Built is a fully expanded command ready for execution. For shell commands the
first Head and last Tail tokens are shell source (wrappers and the literal
command) and are emitted verbatim; every other token is quoted for the shell.
*/
type Built struct {
	Argv    []string
	Kind    Kind
	Timeout time.Duration
	Head    int
	Tail    int
}

// Line renders the command line the shell runs.
func (b Built) Line(shell expandable.ShellKind) string {
	parts := make([]string, len(b.Argv))
	for i, token := range b.Argv {
		if i < b.Head || i >= len(b.Argv)-b.Tail {
			parts[i] = token
			continue
		}
		parts[i] = Quote(shell, token)
	}
	return strings.Join(parts, " ")
}

// Request turns the command into a process request. Shell commands are handed
// to the shell's own command-string flag; argv commands spawn Argv[0].
func (b Built) Request(shell expandable.ShellKind) process.Request {
	req := process.Request{Options: process.Options{Timeout: b.Timeout}}
	if b.Kind == KindShell {
		req.Command, req.Args = ShellArgv(shell, b.Line(shell))
		return req
	}
	if len(b.Argv) > 0 {
		req.Command = b.Argv[0]
		req.Args = append([]string(nil), b.Argv[1:]...)
	}
	return req
}

// Tokens made only of these characters need no quoting in any shell.
const plainChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_./:=,+-"

// Quote makes token a single word for shell. Plain tokens are returned as is.
func Quote(shell expandable.ShellKind, token string) string {
	if token != "" && strings.Trim(token, plainChars) == "" {
		return token
	}
	switch shell {
	case expandable.ShellPwsh:
		return "'" + strings.ReplaceAll(token, "'", "''") + "'"
	case expandable.ShellCmd:
		return `"` + strings.ReplaceAll(token, `"`, `""`) + `"`
	default:
		return "'" + strings.ReplaceAll(token, "'", `'\''`) + "'"
	}
}

// ShellArgv returns the program and arguments that run line in shell.
func ShellArgv(shell expandable.ShellKind, line string) (string, []string) {
	switch shell {
	case expandable.ShellPwsh:
		return "pwsh", []string{"-NoProfile", "-Command", line}
	case expandable.ShellCmd:
		return "cmd", []string{"/C", line}
	default:
		return "sh", []string{"-c", line}
	}
}
