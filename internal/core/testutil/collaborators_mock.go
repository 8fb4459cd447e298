package testutil

import (
	"errors"

	"github.com/FocusTorn/pae/internal/core/domain/aliasconfig"
	"github.com/FocusTorn/pae/internal/core/domain/command"
	"github.com/FocusTorn/pae/internal/core/domain/expandable"
)

// MockConfigProvider is a mock implementation of ports.ConfigProvider.
type MockConfigProvider struct {
	LoadFunc   func() (*aliasconfig.Config, error)
	SourceFunc func() string
}

func (m *MockConfigProvider) Load() (*aliasconfig.Config, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return nil, errors.New("MockConfigProvider: LoadFunc not implemented")
}

func (m *MockConfigProvider) Source() string {
	if m.SourceFunc != nil {
		return m.SourceFunc()
	}
	return "mock"
}

// StaticShell is a ports.ShellDetector that always reports the same shell.
type StaticShell expandable.ShellKind

func (s StaticShell) DetectShellType() expandable.ShellKind {
	return expandable.ShellKind(s)
}

// MockContextFlagProvider is a mock implementation of ports.ContextFlagProvider.
// Without a func it returns cfg.ExpandableFlags.
type MockContextFlagProvider struct {
	GetContextAwareFlagsFunc func(cfg *aliasconfig.Config, target, expandedTarget string) expandable.Table
}

func (m *MockContextFlagProvider) GetContextAwareFlags(cfg *aliasconfig.Config, target, expandedTarget string) expandable.Table {
	if m.GetContextAwareFlagsFunc != nil {
		return m.GetContextAwareFlagsFunc(cfg, target, expandedTarget)
	}
	return cfg.ExpandableFlags
}

// RecordingEnvironmentSink is a ports.EnvironmentSink that keeps every
// applied set of effects.
type RecordingEnvironmentSink struct {
	Err     error
	Applied []command.EnvironmentEffects
}

func (r *RecordingEnvironmentSink) Apply(effects command.EnvironmentEffects) error {
	r.Applied = append(r.Applied, effects)
	return r.Err
}

// RecordingReporter is a ports.Reporter that keeps every message.
type RecordingReporter struct {
	Infos  []string
	Warns  []string
	Errors []error
	Lines  []string
}

func (r *RecordingReporter) Info(msg string)  { r.Infos = append(r.Infos, msg) }
func (r *RecordingReporter) Warn(msg string)  { r.Warns = append(r.Warns, msg) }
func (r *RecordingReporter) Error(err error)  { r.Errors = append(r.Errors, err) }
func (r *RecordingReporter) Print(line string) { r.Lines = append(r.Lines, line) }
