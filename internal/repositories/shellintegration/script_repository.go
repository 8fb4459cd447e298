/*
Package shellintegration reads and writes the generated alias scripts that
make every configured alias callable directly from the shell. Each shell gets
its own script under ~/.pae/: a POSIX alias file, a PowerShell function file
or a doskey macro batch file.
*/
package shellintegration

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strings"

	"github.com/FocusTorn/pae/internal/core/domain/alias"
	"github.com/FocusTorn/pae/internal/core/domain/expandable"
	"github.com/FocusTorn/pae/internal/core/ports"
)

const generatedAliasesDir = ".pae"

// Script file names per shell.
const (
	linuxScriptName = "aliases.sh"
	pwshScriptName  = "aliases.ps1"
	cmdScriptName   = "aliases.cmd"
)

const generatedHeader = "Generated by pae. Do not edit; run \"pae refresh\" instead."

// ScriptRepository implements ports.ShellIntegration on the file system.
type ScriptRepository struct {
	homeDir string
}

// NewScriptRepository creates a ScriptRepository rooted at homeDir.
func NewScriptRepository(homeDir string) ports.ShellIntegration {
	return &ScriptRepository{homeDir: homeDir}
}

// NewDefaultScriptRepository creates a ScriptRepository for the current user.
func NewDefaultScriptRepository() (ports.ShellIntegration, error) {
	usr, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return NewScriptRepository(usr.HomeDir), nil
}

// ScriptPath returns the generated script location for the shell.
func (r *ScriptRepository) ScriptPath(shell expandable.ShellKind) string {
	name := linuxScriptName
	switch shell {
	case expandable.ShellPwsh:
		name = pwshScriptName
	case expandable.ShellCmd:
		name = cmdScriptName
	}
	return filepath.Join(r.homeDir, generatedAliasesDir, name)
}

// GetInstalledAliases parses the generated script. A missing script yields no
// aliases.
func (r *ScriptRepository) GetInstalledAliases(shell expandable.ShellKind) (map[string]string, error) {
	path := r.ScriptPath(shell)
	aliases, err := getAliasesFromFile(path, lineParser(shell))
	if err != nil {
		return nil, fmt.Errorf("failed to read aliases from %s: %w", r.toUserFriendlyPath(path), err)
	}
	return aliases, nil
}

// WriteAliases replaces the generated script with the given aliases.
func (r *ScriptRepository) WriteAliases(shell expandable.ShellKind, aliases []alias.Alias) (string, error) {
	path := r.ScriptPath(shell)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", r.toUserFriendlyPath(filepath.Dir(path)), err)
	}

	// Write next to the target and rename so a reading shell never sees a
	// half-written script.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(r.RenderScript(shell, aliases)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write aliases file %s: %w", r.toUserFriendlyPath(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to replace aliases file %s: %w", r.toUserFriendlyPath(path), err)
	}
	return path, nil
}

// RemoveAliases deletes the generated script.
func (r *ScriptRepository) RemoveAliases(shell expandable.ShellKind) error {
	path := r.ScriptPath(shell)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove aliases file %s: %w", r.toUserFriendlyPath(path), err)
	}
	return nil
}

// RenderScript renders the script text, one alias per line sorted by name.
func (r *ScriptRepository) RenderScript(shell expandable.ShellKind, aliases []alias.Alias) string {
	sorted := append([]alias.Alias(nil), aliases...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var b strings.Builder
	switch shell {
	case expandable.ShellPwsh:
		b.WriteString("# " + generatedHeader + "\n")
		for _, a := range sorted {
			fmt.Fprintf(&b, "function %s { %s @args }\n", a.Name, a.Command)
		}
	case expandable.ShellCmd:
		b.WriteString("@echo off\n")
		b.WriteString("rem " + generatedHeader + "\n")
		for _, a := range sorted {
			fmt.Fprintf(&b, "doskey %s=%s $*\n", a.Name, a.Command)
		}
	default:
		b.WriteString("# " + generatedHeader + "\n")
		for _, a := range sorted {
			fmt.Fprintf(&b, "alias %s=%s\n", a.Name, singleQuote(a.Command))
		}
	}
	return b.String()
}
