package testutil

import (
	"context"
	"errors"

	"github.com/FocusTorn/pae/internal/core/domain/alias"
	"github.com/FocusTorn/pae/internal/core/ports"
)

// MockCommandExecutionService is a mock implementation of
// ports.CommandExecutionService. Calls keeps the argv of every invocation.
type MockCommandExecutionService struct {
	ExecuteFunc func(ctx context.Context, argv []string) int
	Calls       [][]string
}

func (m *MockCommandExecutionService) Execute(ctx context.Context, argv []string) int {
	m.Calls = append(m.Calls, append([]string(nil), argv...))
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, argv)
	}
	return 0
}

// MockAliasManagementService is a mock implementation of ports.AliasManagementService.
type MockAliasManagementService struct {
	InstallAliasesFunc func() (ports.InstallResult, error)
	RefreshAliasesFunc func() (ports.InstallResult, error)
	RemoveAliasesFunc  func() error
	LoadScriptFunc     func() (string, error)
	ListAliasesFunc    func() ([]alias.Alias, error)
}

func (m *MockAliasManagementService) InstallAliases() (ports.InstallResult, error) {
	if m.InstallAliasesFunc != nil {
		return m.InstallAliasesFunc()
	}
	return ports.InstallResult{}, errors.New("MockAliasManagementService: InstallAliasesFunc not implemented")
}

func (m *MockAliasManagementService) RefreshAliases() (ports.InstallResult, error) {
	if m.RefreshAliasesFunc != nil {
		return m.RefreshAliasesFunc()
	}
	return ports.InstallResult{}, errors.New("MockAliasManagementService: RefreshAliasesFunc not implemented")
}

func (m *MockAliasManagementService) RemoveAliases() error {
	if m.RemoveAliasesFunc != nil {
		return m.RemoveAliasesFunc()
	}
	return errors.New("MockAliasManagementService: RemoveAliasesFunc not implemented")
}

func (m *MockAliasManagementService) LoadScript() (string, error) {
	if m.LoadScriptFunc != nil {
		return m.LoadScriptFunc()
	}
	return "", errors.New("MockAliasManagementService: LoadScriptFunc not implemented")
}

func (m *MockAliasManagementService) ListAliases() ([]alias.Alias, error) {
	if m.ListAliasesFunc != nil {
		return m.ListAliasesFunc()
	}
	return nil, errors.New("MockAliasManagementService: ListAliasesFunc not implemented")
}
