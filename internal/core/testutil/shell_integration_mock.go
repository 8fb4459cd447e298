package testutil

import (
	"errors"

	"github.com/FocusTorn/pae/internal/core/domain/alias"
	"github.com/FocusTorn/pae/internal/core/domain/expandable"
)

// MockShellIntegration is a mock implementation of ports.ShellIntegration for testing.
type MockShellIntegration struct {
	GetInstalledAliasesFunc func(shell expandable.ShellKind) (map[string]string, error)
	WriteAliasesFunc        func(shell expandable.ShellKind, aliases []alias.Alias) (string, error)
	RemoveAliasesFunc       func(shell expandable.ShellKind) error
	RenderScriptFunc        func(shell expandable.ShellKind, aliases []alias.Alias) string
	ScriptPathFunc          func(shell expandable.ShellKind) string
}

func (m *MockShellIntegration) GetInstalledAliases(shell expandable.ShellKind) (map[string]string, error) {
	if m.GetInstalledAliasesFunc != nil {
		return m.GetInstalledAliasesFunc(shell)
	}
	return nil, errors.New("MockShellIntegration: GetInstalledAliasesFunc not implemented")
}

func (m *MockShellIntegration) WriteAliases(shell expandable.ShellKind, aliases []alias.Alias) (string, error) {
	if m.WriteAliasesFunc != nil {
		return m.WriteAliasesFunc(shell, aliases)
	}
	return "", errors.New("MockShellIntegration: WriteAliasesFunc not implemented")
}

func (m *MockShellIntegration) RemoveAliases(shell expandable.ShellKind) error {
	if m.RemoveAliasesFunc != nil {
		return m.RemoveAliasesFunc(shell)
	}
	return errors.New("MockShellIntegration: RemoveAliasesFunc not implemented")
}

func (m *MockShellIntegration) RenderScript(shell expandable.ShellKind, aliases []alias.Alias) string {
	if m.RenderScriptFunc != nil {
		return m.RenderScriptFunc(shell, aliases)
	}
	return ""
}

func (m *MockShellIntegration) ScriptPath(shell expandable.ShellKind) string {
	if m.ScriptPathFunc != nil {
		return m.ScriptPathFunc(shell)
	}
	return ""
}
