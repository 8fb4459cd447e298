package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/FocusTorn/pae/internal/adapters/contextflags"
	"github.com/FocusTorn/pae/internal/adapters/oscommand"
	"github.com/FocusTorn/pae/internal/adapters/processpool"
	"github.com/FocusTorn/pae/internal/adapters/shelldetect"
	"github.com/FocusTorn/pae/internal/config"
	"github.com/FocusTorn/pae/internal/core/services/aliasmanagement"
	"github.com/FocusTorn/pae/internal/core/services/aliasresolution"
	"github.com/FocusTorn/pae/internal/core/services/commandexecution"
	"github.com/FocusTorn/pae/internal/core/services/flagexpansion"
	"github.com/FocusTorn/pae/internal/core/services/templating"
	"github.com/FocusTorn/pae/internal/handlers/cli"
	"github.com/FocusTorn/pae/internal/handlers/ui"
	"github.com/FocusTorn/pae/internal/logging"
	"github.com/FocusTorn/pae/internal/repositories/aliasconfig"
	"github.com/FocusTorn/pae/internal/repositories/shellintegration"
)

// Version is set at build time
var Version = "dev"

// shutdownGrace bounds how long children may outlive the command on exit.
const shutdownGrace = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	reporter := ui.NewStdReporter()

	settings, err := config.Load()
	if err != nil {
		reporter.Error(fmt.Errorf("invalid settings: %w", err))
		return 1
	}

	level := new(slog.LevelVar)
	level.Set(logging.ParseLevel(settings.LogLevel))
	logger := logging.New(level, settings.LogFormat, os.Stderr)

	configProvider, err := aliasconfig.NewDefaultProvider(settings.ConfigPath)
	if err != nil {
		reporter.Error(err)
		return 1
	}
	scripts, err := shellintegration.NewDefaultScriptRepository()
	if err != nil {
		reporter.Error(fmt.Errorf("initializing shell integration: %w", err))
		return 1
	}

	detector := shelldetect.NewDetector(settings.Shell)
	env := oscommand.NewProcessEnvironment()
	engine := templating.NewEngine()

	tracker := processpool.NewTracker()
	executor := oscommand.NewExecutor(tracker, oscommand.DefaultGrace)
	pool := processpool.NewPool(executor, tracker, settings.PoolSize, settings.DefaultTimeout)

	ctx, cancel := context.WithCancel(logging.WithLogger(context.Background(), logger))
	defer cancel()
	processpool.ForwardSignals(ctx, tracker, func(sig os.Signal) {
		logger.Info("interrupted", "signal", sig)
		cancel()
	})

	execution := commandexecution.NewService(commandexecution.Dependencies{
		Config:      configProvider,
		Resolver:    aliasresolution.NewResolver(),
		Expander:    flagexpansion.NewExpander(engine),
		Engine:      engine,
		Shell:       detector,
		ContextFlag: contextflags.NewProvider(),
		Env:         env,
		Runner:      executor,
		Pool:        pool,
		Reporter:    reporter,
		Logger:      logger,
		LogLevel:    level,
		Help:        cli.UsageHelp(os.Stdout),
		OnUnknown:   cli.UnknownAliasHelp(os.Stderr),
	})
	management := aliasmanagement.NewService(configProvider, scripts, detector, env)

	rootCmd := cli.NewRootCommand(Version, cli.Services{
		Execution:  execution,
		Management: management,
		Config:     configProvider,
		Reporter:   reporter,
	})
	code := cli.ExitCode(rootCmd.ExecuteContext(ctx), reporter)

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownGrace)
	defer stop()
	if err := pool.Shutdown(shutdownCtx); err != nil {
		logger.Warn("process pool shutdown", "error", err)
	}
	logger.Debug("pool metrics", "metrics", pool.Metrics())
	return code
}
