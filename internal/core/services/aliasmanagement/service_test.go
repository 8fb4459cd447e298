package aliasmanagement

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/FocusTorn/pae/internal/core/domain/alias"
	"github.com/FocusTorn/pae/internal/core/domain/aliasconfig"
	"github.com/FocusTorn/pae/internal/core/domain/command"
	"github.com/FocusTorn/pae/internal/core/domain/expandable"
	"github.com/FocusTorn/pae/internal/core/testutil"
)

func testConfig() *aliasconfig.Config {
	cfg := aliasconfig.New()
	cfg.Packages["dc"] = aliasconfig.PackageEntry{Name: "dynamicons"}
	cfg.Packages["gw"] = aliasconfig.PackageEntry{Name: "ghost-writer", Variants: []string{"core", "ext"}}
	cfg.NotNxTargets["nxr"] = "nx reset"
	cfg.ExpandableCommands["ll"] = []string{"ls -la"}
	cfg.ExpandableCommands["bad name"] = []string{"echo"}
	return cfg
}

func configProvider(cfg *aliasconfig.Config, err error) *testutil.MockConfigProvider {
	return &testutil.MockConfigProvider{
		LoadFunc: func() (*aliasconfig.Config, error) { return cfg, err },
	}
}

func TestNewService(t *testing.T) {
	t.Run("should return a service if collaborators are not nil", func(t *testing.T) {
		svc := NewService(configProvider(testConfig(), nil), &testutil.MockShellIntegration{}, testutil.StaticShell(expandable.ShellLinux), &testutil.RecordingEnvironmentSink{})
		if svc == nil {
			t.Fatal("NewService() returned nil, expected a service instance")
		}
	})

	tests := []struct {
		name string
		call func()
	}{
		{name: "nil config", call: func() {
			NewService(nil, &testutil.MockShellIntegration{}, testutil.StaticShell(expandable.ShellLinux), &testutil.RecordingEnvironmentSink{})
		}},
		{name: "nil shell integration", call: func() {
			NewService(configProvider(nil, nil), nil, testutil.StaticShell(expandable.ShellLinux), &testutil.RecordingEnvironmentSink{})
		}},
		{name: "nil shell detector", call: func() {
			NewService(configProvider(nil, nil), &testutil.MockShellIntegration{}, nil, &testutil.RecordingEnvironmentSink{})
		}},
		{name: "nil environment sink", call: func() {
			NewService(configProvider(nil, nil), &testutil.MockShellIntegration{}, testutil.StaticShell(expandable.ShellLinux), nil)
		}},
	}
	for _, tt := range tests {
		t.Run("should panic on "+tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("NewService did not panic with %s", tt.name)
				}
			}()
			tt.call()
		})
	}
}

func TestService_ListAliases(t *testing.T) {
	svc := NewService(configProvider(testConfig(), nil), &testutil.MockShellIntegration{}, testutil.StaticShell(expandable.ShellLinux), &testutil.RecordingEnvironmentSink{})

	got, err := svc.ListAliases()
	if err != nil {
		t.Fatalf("ListAliases() error = %v", err)
	}
	want := []alias.Alias{
		{Name: "dc", Command: "pae dc"},
		{Name: "gw", Command: "pae gw"},
		{Name: "ll", Command: "pae ll"},
		{Name: "nxr", Command: "pae nxr"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListAliases() = %v, want %v", got, want)
	}
}

func TestService_InstallAndRefresh(t *testing.T) {
	installed := map[string]string{
		"dc":  "pae dc",
		"old": "pae old",
		"ll":  "ls",
	}

	tests := []struct {
		name         string
		refresh      bool
		wantAdded    []string
		wantExisting []string
		wantWritten  []string
	}{
		{
			name:         "install keeps stale aliases",
			wantAdded:    []string{"gw", "ll", "nxr"},
			wantExisting: []string{"dc"},
			wantWritten:  []string{"dc", "gw", "ll", "nxr", "old"},
		},
		{
			name:         "refresh drops stale aliases",
			refresh:      true,
			wantAdded:    []string{"gw", "ll", "nxr"},
			wantExisting: []string{"dc"},
			wantWritten:  []string{"dc", "gw", "ll", "nxr"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var written []string
			var writtenShell expandable.ShellKind
			scripts := &testutil.MockShellIntegration{
				GetInstalledAliasesFunc: func(shell expandable.ShellKind) (map[string]string, error) {
					return installed, nil
				},
				WriteAliasesFunc: func(shell expandable.ShellKind, aliases []alias.Alias) (string, error) {
					writtenShell = shell
					for _, a := range aliases {
						written = append(written, a.Name)
					}
					return "/home/dev/.pae/aliases.ps1", nil
				},
			}
			env := &testutil.RecordingEnvironmentSink{}
			svc := NewService(configProvider(testConfig(), nil), scripts, testutil.StaticShell(expandable.ShellPwsh), env)

			install := svc.InstallAliases
			if tt.refresh {
				install = svc.RefreshAliases
			}
			result, err := install()
			if err != nil {
				t.Fatalf("unexpected error = %v", err)
			}

			if !reflect.DeepEqual(result.Added, tt.wantAdded) {
				t.Errorf("Added = %v, want %v", result.Added, tt.wantAdded)
			}
			if !reflect.DeepEqual(result.Existing, tt.wantExisting) {
				t.Errorf("Existing = %v, want %v", result.Existing, tt.wantExisting)
			}
			if !reflect.DeepEqual(result.Skipped, []string{"bad name"}) {
				t.Errorf("Skipped = %v, want [bad name]", result.Skipped)
			}
			if result.ScriptPath != "/home/dev/.pae/aliases.ps1" {
				t.Errorf("ScriptPath = %q", result.ScriptPath)
			}
			if writtenShell != expandable.ShellPwsh {
				t.Errorf("written for shell %q, want pwsh", writtenShell)
			}
			if !reflect.DeepEqual(written, tt.wantWritten) {
				t.Errorf("written aliases = %v, want %v", written, tt.wantWritten)
			}

			if len(env.Applied) != 2 {
				t.Fatalf("environment applied %d times, want 2", len(env.Applied))
			}
			if v, _ := env.Applied[0].Lookup(command.EnvInstalling); v != "1" {
				t.Errorf("%s during install = %q, want 1", command.EnvInstalling, v)
			}
			if v, _ := env.Applied[1].Lookup(command.EnvInstalling); v != "" {
				t.Errorf("%s after install = %q, want empty", command.EnvInstalling, v)
			}
		})
	}
}

func TestService_InstallAliases_Errors(t *testing.T) {
	loadErr := errors.New("no config")
	readErr := errors.New("read failed")
	writeErr := errors.New("disk full")

	tests := []struct {
		name    string
		cfg     *aliasconfig.Config
		loadErr error
		scripts *testutil.MockShellIntegration
		wantErr error
	}{
		{
			name:    "config cannot be loaded",
			loadErr: loadErr,
			scripts: &testutil.MockShellIntegration{},
			wantErr: loadErr,
		},
		{
			name:    "nothing to install",
			cfg:     aliasconfig.New(),
			scripts: &testutil.MockShellIntegration{},
			wantErr: ErrNoAliases,
		},
		{
			name: "installed aliases cannot be read",
			cfg:  testConfig(),
			scripts: &testutil.MockShellIntegration{
				GetInstalledAliasesFunc: func(expandable.ShellKind) (map[string]string, error) { return nil, readErr },
			},
			wantErr: readErr,
		},
		{
			name: "script cannot be written",
			cfg:  testConfig(),
			scripts: &testutil.MockShellIntegration{
				GetInstalledAliasesFunc: func(expandable.ShellKind) (map[string]string, error) { return nil, nil },
				WriteAliasesFunc: func(expandable.ShellKind, []alias.Alias) (string, error) {
					return "", writeErr
				},
			},
			wantErr: writeErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(configProvider(tt.cfg, tt.loadErr), tt.scripts, testutil.StaticShell(expandable.ShellLinux), &testutil.RecordingEnvironmentSink{})
			if _, err := svc.InstallAliases(); !errors.Is(err, tt.wantErr) {
				t.Errorf("InstallAliases() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestService_RemoveAliases(t *testing.T) {
	var removed expandable.ShellKind
	scripts := &testutil.MockShellIntegration{
		RemoveAliasesFunc: func(shell expandable.ShellKind) error {
			removed = shell
			return nil
		},
	}
	svc := NewService(configProvider(testConfig(), nil), scripts, testutil.StaticShell(expandable.ShellCmd), &testutil.RecordingEnvironmentSink{})

	if err := svc.RemoveAliases(); err != nil {
		t.Fatalf("RemoveAliases() error = %v", err)
	}
	if removed != expandable.ShellCmd {
		t.Errorf("removed script for %q, want cmd", removed)
	}

	scripts.RemoveAliasesFunc = func(expandable.ShellKind) error { return errors.New("permission denied") }
	if err := svc.RemoveAliases(); err == nil || !strings.Contains(err.Error(), "permission denied") {
		t.Errorf("RemoveAliases() error = %v, want permission denied", err)
	}
}

func TestService_LoadScript(t *testing.T) {
	scripts := &testutil.MockShellIntegration{
		RenderScriptFunc: func(shell expandable.ShellKind, aliases []alias.Alias) string {
			var b strings.Builder
			for _, a := range aliases {
				b.WriteString(string(shell) + ":" + a.Name + "\n")
			}
			return b.String()
		},
	}
	svc := NewService(configProvider(testConfig(), nil), scripts, testutil.StaticShell(expandable.ShellLinux), &testutil.RecordingEnvironmentSink{})

	got, err := svc.LoadScript()
	if err != nil {
		t.Fatalf("LoadScript() error = %v", err)
	}
	want := "linux:dc\nlinux:gw\nlinux:ll\nlinux:nxr\n"
	if got != want {
		t.Errorf("LoadScript() = %q, want %q", got, want)
	}
}
