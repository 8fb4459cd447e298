package commandexecution

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FocusTorn/pae/internal/core/domain/aliasconfig"
	"github.com/FocusTorn/pae/internal/core/domain/command"
	"github.com/FocusTorn/pae/internal/core/domain/expandable"
	"github.com/FocusTorn/pae/internal/core/domain/process"
	"github.com/FocusTorn/pae/internal/core/services/aliasresolution"
	"github.com/FocusTorn/pae/internal/core/services/flagexpansion"
	"github.com/FocusTorn/pae/internal/core/services/templating"
	"github.com/FocusTorn/pae/internal/core/testutil"
)

type fixture struct {
	cfg      *aliasconfig.Config
	runner   *testutil.MockCommandRunner
	pool     *testutil.MockProcessPool
	sink     *testutil.RecordingEnvironmentSink
	reporter *testutil.RecordingReporter
	flags    *testutil.MockContextFlagProvider
	level    *slog.LevelVar
	helped   []string
	unknown  []string
	loadErr  error
}

func newFixture() *fixture {
	cfg := aliasconfig.New()
	cfg.Packages["dc"] = aliasconfig.PackageEntry{Name: "dynamicons"}
	cfg.Packages["gw"] = aliasconfig.PackageEntry{Name: "ghost-writer", Variants: []string{"core", "ext"}}
	cfg.Targets["b"] = "build"
	cfg.Targets["t"] = "test"
	cfg.FeatureTargets["pkg"] = aliasconfig.FeatureEntry{RunTarget: "package", RunFrom: "ext"}
	cfg.NotNxTargets["nxr"] = "nx reset"
	cfg.ExpandableCommands["ll"] = []string{"ls -la"}
	cfg.ExpandableCommands["both"] = []string{"echo a", "echo b"}
	cfg.ExpandableFlags = expandable.Table{
		"s": expandable.Literal("--skip-nx-cache"),
		"c": expandable.Single{Position: expandable.PositionPreArgs, Template: "--configuration=ci"},
		"x": expandable.Single{Position: expandable.PositionPrefix, Template: "npx"},
		"sto": expandable.PerShell{
			"linux-template": expandable.Single{Position: expandable.PositionStart, Template: "NX_SKIP={v}", Defaults: map[string]string{"v": "1"}},
		},
	}
	cfg.EnvSettingFlags = expandable.Table{"d": expandable.Literal("--pae-debug")}
	cfg.InternalFlags = expandable.Table{"to": expandable.Literal("--pae-execa-timeout=2000")}

	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)

	return &fixture{
		cfg:      cfg,
		runner:   &testutil.MockCommandRunner{},
		pool:     &testutil.MockProcessPool{},
		sink:     &testutil.RecordingEnvironmentSink{},
		reporter: &testutil.RecordingReporter{},
		flags:    &testutil.MockContextFlagProvider{},
		level:    level,
	}
}

func (f *fixture) service() *service {
	engine := templating.NewEngine()
	provider := &testutil.MockConfigProvider{LoadFunc: func() (*aliasconfig.Config, error) {
		if f.loadErr != nil {
			return nil, f.loadErr
		}
		return f.cfg, nil
	}}
	deps := Dependencies{
		Config:      provider,
		Resolver:    aliasresolution.NewResolver(),
		Expander:    flagexpansion.NewExpander(engine),
		Engine:      engine,
		Shell:       testutil.StaticShell(expandable.ShellLinux),
		ContextFlag: f.flags,
		Env:         f.sink,
		Runner:      f.runner,
		Pool:        f.pool,
		Reporter:    f.reporter,
		LogLevel:    f.level,
		Help:        func(token string) { f.helped = append(f.helped, token) },
		OnUnknown:   func(_ *aliasconfig.Config, token string) { f.unknown = append(f.unknown, token) },
	}
	return NewService(deps).(*service)
}

func completed(context.Context, process.Request) process.Result {
	return process.Result{Reason: process.ReasonCompleted}
}

func TestNewService(t *testing.T) {
	t.Run("should return a service if collaborators are set", func(t *testing.T) {
		assert.NotNil(t, newFixture().service())
	})

	t.Run("should panic if a collaborator is nil", func(t *testing.T) {
		assert.PanicsWithValue(t, "config provider cannot be nil", func() {
			NewService(Dependencies{})
		})
	})
}

func TestService_Execute_PackageAlias(t *testing.T) {
	tests := []struct {
		name        string
		argv        []string
		wantCommand string
		wantArgs    []string
	}{
		{
			name:        "target shortcut resolves into nx run",
			argv:        []string{"dc", "b"},
			wantCommand: "nx",
			wantArgs:    []string{"run", "dynamicons:build"},
		},
		{
			name:        "fragments are assembled around the base command",
			argv:        []string{"dc", "b", "extra", "-c", "-s", "-x"},
			wantCommand: "npx",
			wantArgs:    []string{"nx", "run", "dynamicons:build", "--configuration=ci", "--skip-nx-cache", "extra"},
		},
		{
			name:        "flags before the target do not hide it",
			argv:        []string{"dc", "-s", "b"},
			wantCommand: "nx",
			wantArgs:    []string{"run", "dynamicons:build", "--skip-nx-cache"},
		},
		{
			name:        "passthrough tokens are kept",
			argv:        []string{"dc", "b", "--", "-s"},
			wantCommand: "nx",
			wantArgs:    []string{"run", "dynamicons:build", "--", "-s"},
		},
		{
			name:        "feature alias runs from the run-from variant",
			argv:        []string{"gw", "pkg"},
			wantCommand: "nx",
			wantArgs:    []string{"run", "ghost-writer-ext:package"},
		},
		{
			name:        "start wrappers run the command through the shell",
			argv:        []string{"dc", "b", "-sto"},
			wantCommand: "sh",
			wantArgs:    []string{"-c", "NX_SKIP=1 nx run dynamicons:build"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.runner.RunFunc = completed

			code := f.service().Execute(context.Background(), tt.argv)

			require.Equal(t, 0, code, "errors: %v", f.reporter.Errors)
			require.Len(t, f.runner.Calls, 1)
			assert.Equal(t, tt.wantCommand, f.runner.Calls[0].Command)
			assert.Equal(t, tt.wantArgs, f.runner.Calls[0].Args)
			assert.Empty(t, f.pool.Pooled)
		})
	}
}

func TestService_Execute_ContextFlagsGetTarget(t *testing.T) {
	f := newFixture()
	f.runner.RunFunc = completed
	var gotTarget, gotExpanded string
	f.flags.GetContextAwareFlagsFunc = func(cfg *aliasconfig.Config, target, expandedTarget string) expandable.Table {
		gotTarget, gotExpanded = target, expandedTarget
		return expandable.Table{"s": expandable.Literal("--test-only")}
	}

	code := f.service().Execute(context.Background(), []string{"dc", "t", "-s"})

	require.Equal(t, 0, code)
	assert.Equal(t, "t", gotTarget)
	assert.Equal(t, "test", gotExpanded)
	assert.Equal(t, []string{"run", "dynamicons:test", "--test-only"}, f.runner.Calls[0].Args)
}

func TestService_Execute_LiteralCommands(t *testing.T) {
	t.Run("not-nx command runs directly through the shell", func(t *testing.T) {
		f := newFixture()
		f.runner.RunFunc = completed

		code := f.service().Execute(context.Background(), []string{"nxr", "-s"})

		require.Equal(t, 0, code)
		require.Len(t, f.runner.Calls, 1)
		assert.Equal(t, "sh", f.runner.Calls[0].Command)
		assert.Equal(t, []string{"-c", "nx reset --skip-nx-cache"}, f.runner.Calls[0].Args)
	})

	t.Run("user arguments keep their boundaries in the shell line", func(t *testing.T) {
		f := newFixture()
		f.runner.RunFunc = completed

		code := f.service().Execute(context.Background(), []string{"nxr", "fix bug", `it's|"x"`, "-s"})

		require.Equal(t, 0, code)
		require.Len(t, f.runner.Calls, 1)
		assert.Equal(t, []string{"-c", `nx reset 'fix bug' 'it'\''s|"x"' --skip-nx-cache`}, f.runner.Calls[0].Args)
	})

	t.Run("wrappers stay verbatim while package arguments are quoted", func(t *testing.T) {
		f := newFixture()
		f.runner.RunFunc = completed

		code := f.service().Execute(context.Background(), []string{"dc", "b", "-sto", "--name=x y"})

		require.Equal(t, 0, code)
		require.Len(t, f.runner.Calls, 1)
		assert.Equal(t, []string{"-c", "NX_SKIP=1 nx run dynamicons:build '--name=x y'"}, f.runner.Calls[0].Args)
	})

	t.Run("expandable command goes through the pool", func(t *testing.T) {
		f := newFixture()
		f.pool.ExecuteWithPoolFunc = func(context.Context, string, []string, process.Options) process.Result {
			return process.Result{Reason: process.ReasonCompleted}
		}

		code := f.service().Execute(context.Background(), []string{"ll", "/tmp", "-s", "-c"})

		require.Equal(t, 0, code)
		assert.Empty(t, f.runner.Calls)
		require.Len(t, f.pool.Pooled, 1)
		assert.Equal(t, "sh", f.pool.Pooled[0].Command)
		assert.Equal(t, []string{"-c", "ls -la --configuration=ci /tmp --skip-nx-cache"}, f.pool.Pooled[0].Args)
	})

	t.Run("expandable command list runs as a batch", func(t *testing.T) {
		f := newFixture()
		f.pool.RunBatchFunc = func(_ context.Context, reqs []process.Request) []process.Result {
			return []process.Result{
				{Reason: process.ReasonCompleted},
				{Reason: process.ReasonNonZeroExit, ExitCode: 4},
			}
		}

		code := f.service().Execute(context.Background(), []string{"both"})

		assert.Equal(t, 4, code)
		require.Len(t, f.pool.Batches, 1)
		require.Len(t, f.pool.Batches[0], 2)
		assert.Equal(t, []string{"-c", "echo a"}, f.pool.Batches[0][0].Args)
		assert.Equal(t, []string{"-c", "echo b"}, f.pool.Batches[0][1].Args)
	})
}

func TestService_Execute_Results(t *testing.T) {
	tests := []struct {
		name       string
		result     process.Result
		wantCode   int
		wantErrors int
	}{
		{
			name:     "child exit code propagates verbatim",
			result:   process.Result{Reason: process.ReasonNonZeroExit, ExitCode: 3, Err: &process.NonZeroExitError{Code: 3}},
			wantCode: 3,
		},
		{
			name:       "timeout",
			result:     process.Result{Reason: process.ReasonTimeout, ExitCode: process.TimeoutExitCode, Err: process.ErrTimeout},
			wantCode:   process.TimeoutExitCode,
			wantErrors: 1,
		},
		{
			name:       "spawn failure",
			result:     process.Result{Reason: process.ReasonSpawnError, ExitCode: 1, Err: process.ErrSpawn},
			wantCode:   1,
			wantErrors: 1,
		},
		{
			name:       "rejected without an exit code still fails",
			result:     process.Result{Reason: process.ReasonRejected, Err: process.ErrRejected},
			wantCode:   1,
			wantErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.runner.RunFunc = func(context.Context, process.Request) process.Result { return tt.result }

			code := f.service().Execute(context.Background(), []string{"dc", "b"})

			assert.Equal(t, tt.wantCode, code)
			assert.Len(t, f.reporter.Errors, tt.wantErrors)
		})
	}
}

func TestService_Execute_Flags(t *testing.T) {
	t.Run("timeout from a raw internal flag", func(t *testing.T) {
		f := newFixture()
		f.runner.RunFunc = completed

		code := f.service().Execute(context.Background(), []string{"dc", "b", "--pae-execa-timeout=500"})

		require.Equal(t, 0, code)
		assert.Equal(t, 500*time.Millisecond, f.runner.Calls[0].Options.Timeout)
		assert.Equal(t, []string{"run", "dynamicons:build"}, f.runner.Calls[0].Args)
	})

	t.Run("timeout from an internal flag shortcut", func(t *testing.T) {
		f := newFixture()
		f.runner.RunFunc = completed

		f.service().Execute(context.Background(), []string{"dc", "b", "-to"})

		require.Len(t, f.runner.Calls, 1)
		assert.Equal(t, 2*time.Second, f.runner.Calls[0].Options.Timeout)
	})

	t.Run("help short-circuits", func(t *testing.T) {
		f := newFixture()

		code := f.service().Execute(context.Background(), []string{"dc", "b", "--help"})

		assert.Equal(t, 0, code)
		assert.Equal(t, []string{"dc"}, f.helped)
		assert.Empty(t, f.runner.Calls)
	})

	t.Run("debug flag is applied and raises the log level", func(t *testing.T) {
		f := newFixture()
		f.runner.RunFunc = completed

		code := f.service().Execute(context.Background(), []string{"dc", "-d", "b"})

		require.Equal(t, 0, code)
		require.Len(t, f.sink.Applied, 1)
		assert.True(t, f.sink.Applied[0].Debug)
		assert.Equal(t, slog.LevelDebug, f.level.Level())
		assert.Equal(t, []string{"run", "dynamicons:build"}, f.runner.Calls[0].Args)
	})

	t.Run("environment sink failure", func(t *testing.T) {
		f := newFixture()
		f.sink.Err = errors.New("read-only environment")

		code := f.service().Execute(context.Background(), []string{"dc", "b"})

		assert.Equal(t, 1, code)
		assert.Empty(t, f.runner.Calls)
	})
}

func TestService_Execute_Echo(t *testing.T) {
	t.Run("echo prints and does not run", func(t *testing.T) {
		f := newFixture()

		code := f.service().Execute(context.Background(), []string{"dc", "b", "-s", "--pae-echo"})

		assert.Equal(t, 0, code)
		assert.Equal(t, []string{"nx run dynamicons:build --skip-nx-cache"}, f.reporter.Lines)
		assert.Empty(t, f.runner.Calls)
	})

	t.Run("argv variant prints one token per line", func(t *testing.T) {
		f := newFixture()

		f.service().Execute(context.Background(), []string{"dc", "b", "--pae-echo=argv"})

		assert.Equal(t, []string{"nx", "run", "dynamicons:build"}, f.reporter.Lines)
	})

	t.Run("echoX prints and runs", func(t *testing.T) {
		f := newFixture()
		f.runner.RunFunc = completed

		code := f.service().Execute(context.Background(), []string{"dc", "b", "--pae-echoX"})

		assert.Equal(t, 0, code)
		assert.Equal(t, []string{"nx run dynamicons:build"}, f.reporter.Lines)
		assert.Len(t, f.runner.Calls, 1)
	})
}

func TestService_Execute_Failures(t *testing.T) {
	t.Run("no alias", func(t *testing.T) {
		f := newFixture()

		assert.Equal(t, 1, f.service().Execute(context.Background(), nil))
		require.Len(t, f.reporter.Errors, 1)
		assert.ErrorIs(t, f.reporter.Errors[0], ErrNoAlias)
	})

	t.Run("unknown alias lists the categories", func(t *testing.T) {
		f := newFixture()

		code := f.service().Execute(context.Background(), []string{"zz"})

		assert.Equal(t, 1, code)
		assert.Equal(t, []string{"zz"}, f.unknown)
		require.Len(t, f.reporter.Errors, 1)
		assert.ErrorIs(t, f.reporter.Errors[0], aliasresolution.ErrUnknownAlias)
	})

	t.Run("reserved help verb shows help", func(t *testing.T) {
		f := newFixture()

		assert.Equal(t, 0, f.service().Execute(context.Background(), []string{"help"}))
		assert.Equal(t, []string{"help"}, f.helped)
	})

	t.Run("other reserved verbs are refused", func(t *testing.T) {
		f := newFixture()

		assert.Equal(t, 1, f.service().Execute(context.Background(), []string{"install"}))
		assert.Len(t, f.reporter.Errors, 1)
	})

	t.Run("config load failure", func(t *testing.T) {
		f := newFixture()
		f.loadErr = errors.New("no config")

		assert.Equal(t, 1, f.service().Execute(context.Background(), []string{"dc", "b"}))
		assert.Len(t, f.reporter.Errors, 1)
	})

	t.Run("invalid config only warns", func(t *testing.T) {
		f := newFixture()
		f.cfg.NotNxTargets["dc"] = "echo shadowed"
		f.runner.RunFunc = completed

		assert.Equal(t, 0, f.service().Execute(context.Background(), []string{"dc", "b"}))
		assert.Len(t, f.reporter.Warns, 1)
	})

	t.Run("dropped config entries warn and the rest still runs", func(t *testing.T) {
		f := newFixture()
		f.cfg.Issues = []error{errors.New("pae.config.yaml: malformed alias config: expandable-flags.x.position: unknown position middle")}
		f.runner.RunFunc = completed

		assert.Equal(t, 0, f.service().Execute(context.Background(), []string{"dc", "b"}))
		require.Len(t, f.reporter.Warns, 1)
		assert.Contains(t, f.reporter.Warns[0], "expandable-flags.x")
		require.Len(t, f.runner.Calls, 1)
		assert.Equal(t, []string{"run", "dynamicons:build"}, f.runner.Calls[0].Args)
	})

	t.Run("package alias without target", func(t *testing.T) {
		f := newFixture()

		code := f.service().Execute(context.Background(), []string{"dc", "-s"})

		assert.Equal(t, 1, code)
		require.Len(t, f.reporter.Errors, 1)
		assert.ErrorIs(t, f.reporter.Errors[0], aliasresolution.ErrMissingTarget)
	})

	t.Run("panic becomes exit code 1", func(t *testing.T) {
		f := newFixture()
		f.runner.RunFunc = func(context.Context, process.Request) process.Result { panic("boom") }

		assert.Equal(t, 1, f.service().Execute(context.Background(), []string{"dc", "b"}))
		require.Len(t, f.reporter.Errors, 1)
		var perr *command.PanicError
		require.ErrorAs(t, f.reporter.Errors[0], &perr)
		assert.Equal(t, "boom", perr.Value)
		assert.Equal(t, "internal error: boom", perr.Error())
		assert.Contains(t, string(perr.StackTrace()), "panic")
	})

	t.Run("interrupted invocation", func(t *testing.T) {
		f := newFixture()
		ctx, cancel := context.WithCancel(context.Background())
		f.runner.RunFunc = func(context.Context, process.Request) process.Result {
			cancel()
			return process.Result{Reason: process.ReasonNonZeroExit, ExitCode: -1}
		}

		assert.Equal(t, process.InterruptExitCode, f.service().Execute(ctx, []string{"dc", "b"}))
	})
}
