/*
Package commandexecution turns the argv of one pae invocation into a finished
child process. It drives the pipeline alias resolution, env-setting flags,
internal flags, expandable flags, command assembly and execution, and reports
the exit code the host should exit with.
*/
package commandexecution

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/FocusTorn/pae/internal/core/domain/aliasconfig"
	"github.com/FocusTorn/pae/internal/core/domain/command"
	"github.com/FocusTorn/pae/internal/core/domain/expandable"
	"github.com/FocusTorn/pae/internal/core/domain/process"
	"github.com/FocusTorn/pae/internal/core/domain/resolution"
	"github.com/FocusTorn/pae/internal/core/ports"
	"github.com/FocusTorn/pae/internal/core/services/aliasresolution"
	"github.com/FocusTorn/pae/internal/core/services/flagexpansion"
	"github.com/FocusTorn/pae/internal/logging"
)

// State names a step of one invocation. States are only recorded in debug logs.
type State string

const (
	StateIdle                     State = "Idle"
	StateEnvFlagsProcessed        State = "EnvFlagsProcessed"
	StateInternalFlagsProcessed   State = "InternalFlagsProcessed"
	StateExpandableFlagsProcessed State = "ExpandableFlagsProcessed"
	StateCommandBuilt             State = "CommandBuilt"
	StateExecuting                State = "Executing"
	StateCompleted                State = "Completed"
	StateFailed                   State = "Failed"
)

// EchoVariantArgv prints one token per line instead of the joined command.
const EchoVariantArgv = "argv"

// ErrNoAlias is reported when the invocation names no alias at all.
var ErrNoAlias = errors.New("no alias given")

// Dependencies are the collaborators of the service. Logger, LogLevel, Help
// and OnUnknown are optional.
type Dependencies struct {
	Config      ports.ConfigProvider
	Resolver    ports.AliasResolver
	Expander    ports.FlagExpander
	Engine      ports.TemplateEngine
	Shell       ports.ShellDetector
	ContextFlag ports.ContextFlagProvider
	Env         ports.EnvironmentSink
	Runner      ports.CommandRunner
	Pool        ports.ProcessPool
	Reporter    ports.Reporter

	Logger   *slog.Logger
	LogLevel *slog.LevelVar // raised by --pae-debug and --pae-verbose

	// Help is called for -h/--help and the reserved help verb.
	Help func(token string)

	// OnUnknown is called with the config when the alias is not found, so the
	// host can list what is available.
	OnUnknown func(cfg *aliasconfig.Config, token string)
}

type service struct {
	deps   Dependencies
	logger *slog.Logger
}

// NewService creates a new command execution service.
// It panics if any required collaborator is nil.
func NewService(deps Dependencies) ports.CommandExecutionService {
	required := []struct {
		name  string
		value any
	}{
		{"config provider", deps.Config},
		{"alias resolver", deps.Resolver},
		{"flag expander", deps.Expander},
		{"template engine", deps.Engine},
		{"shell detector", deps.Shell},
		{"context flag provider", deps.ContextFlag},
		{"environment sink", deps.Env},
		{"command runner", deps.Runner},
		{"process pool", deps.Pool},
		{"reporter", deps.Reporter},
	}
	for _, r := range required {
		if r.value == nil {
			panic(r.name + " cannot be nil")
		}
	}

	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &service{deps: deps, logger: logger}
}

// invocation carries the values accumulated while one argv is processed.
type invocation struct {
	cfg       *aliasconfig.Config
	shell     expandable.ShellKind
	res       resolution.Resolution
	effects   command.EnvironmentEffects
	internal  command.InternalFlags
	expansion expandable.ExpansionResult
	target    *resolution.Target
	commands  []command.Built
	state     State
	logger    *slog.Logger
}

/*
Execute runs argv, whose first token is the alias. It never panics and never
returns an error: failures are reported through the Reporter and become exit
code 1, while a child's own non-zero exit code is returned verbatim.
*/
func (s *service) Execute(ctx context.Context, argv []string) (code int) {
	inv := &invocation{state: StateIdle, logger: s.logger}
	defer func() {
		if r := recover(); r != nil {
			perr := &command.PanicError{Value: r, Stack: debug.Stack()}
			s.deps.Reporter.Error(perr)
			inv.logger.Debug("recovered panic", "panic", r)
			s.transition(inv, StateFailed)
			code = 1
		}
	}()

	if len(argv) == 0 || argv[0] == "" {
		s.deps.Reporter.Error(ErrNoAlias)
		return 1
	}
	token, args := argv[0], argv[1:]

	cfg, err := s.deps.Config.Load()
	if err != nil {
		s.deps.Reporter.Error(fmt.Errorf("loading alias config: %w", err))
		return 1
	}
	if verr := cfg.Validate(); verr != nil {
		s.deps.Reporter.Warn(verr.Error())
	}
	inv.cfg = cfg
	inv.shell = s.deps.Shell.DetectShellType()
	inv.logger = s.logger.With("alias", token, "shell", inv.shell)
	ctx = logging.WithLogger(ctx, inv.logger)

	inv.res = s.deps.Resolver.Resolve(token, cfg)
	inv.logger.Debug("alias resolved", "type", inv.res.Type)

	switch inv.res.Type {
	case resolution.TypeUnknown:
		s.deps.Reporter.Error(fmt.Errorf("%w: %q", aliasresolution.ErrUnknownAlias, token))
		if s.deps.OnUnknown != nil {
			s.deps.OnUnknown(cfg, token)
		}
		return 1
	case resolution.TypeReserved:
		if token == "help" {
			s.help(token)
			return 0
		}
		s.deps.Reporter.Error(fmt.Errorf("%q is a reserved command and cannot be run as an alias", token))
		return 1
	}

	return s.run(ctx, inv, args)
}

// run drives the state machine once the alias is known.
func (s *service) run(ctx context.Context, inv *invocation, args []string) int {
	rest := s.processEnvFlags(inv, args)
	if err := s.deps.Env.Apply(inv.effects); err != nil {
		return s.fail(inv, fmt.Errorf("applying environment: %w", err))
	}
	s.transition(inv, StateEnvFlagsProcessed)

	rest = s.processInternalFlags(inv, rest)
	s.transition(inv, StateInternalFlagsProcessed)
	if inv.internal.Help {
		s.help(inv.res.Token)
		return 0
	}

	if err := s.processExpandableFlags(inv, rest); err != nil {
		return s.fail(inv, err)
	}
	s.transition(inv, StateExpandableFlagsProcessed)

	s.build(inv)
	s.transition(inv, StateCommandBuilt)

	if inv.effects.Echo || inv.effects.EchoX {
		s.echo(inv)
		if !inv.effects.EchoX {
			s.transition(inv, StateCompleted)
			return 0
		}
	}

	s.transition(inv, StateExecuting)
	return s.execute(ctx, inv)
}

func (s *service) processEnvFlags(inv *invocation, args []string) []string {
	effects, rest := flagexpansion.ProcessEnvironmentFlags(s.deps.Expander, args, inv.cfg.EnvSettingFlags, inv.shell)
	inv.effects = effects

	if s.deps.LogLevel != nil {
		switch {
		case effects.Debug:
			s.deps.LogLevel.Set(slog.LevelDebug)
		case effects.Verbose && s.deps.LogLevel.Level() > slog.LevelInfo:
			s.deps.LogLevel.Set(slog.LevelInfo)
		}
	}
	inv.logger.Debug("env-setting flags processed", "vars", len(effects.Vars), "rest", rest)
	return rest
}

func (s *service) processInternalFlags(inv *invocation, args []string) []string {
	table := inv.cfg.InternalFlags.Merge(inv.cfg.ExpandableTemplates)
	flags, expansion, err := flagexpansion.ProcessInternalFlags(s.deps.Expander, args, table, inv.shell)
	if err != nil {
		inv.logger.Warn("ignoring malformed internal flag", "error", err)
	}
	inv.internal = flags

	rest := expansion.RemainingArgs
	expansion.RemainingArgs = nil
	inv.expansion = expansion
	inv.logger.Debug("internal flags processed", "timeout", flags.Timeout, "help", flags.Help, "rest", rest)
	return rest
}

func (s *service) processExpandableFlags(inv *invocation, args []string) error {
	targetName, expandedTarget := "", ""

	if inv.res.Type == resolution.TypePackage || inv.res.Type == resolution.TypeFeature {
		idx := targetIndex(args)
		token := ""
		if idx >= 0 {
			token = args[idx]
			args = append(append([]string(nil), args[:idx]...), args[idx+1:]...)
		}
		target, err := s.deps.Resolver.ResolveTarget(*inv.res.Package, token, inv.cfg)
		if err != nil {
			return fmt.Errorf("resolving target for %q: %w", inv.res.Token, err)
		}
		inv.target = &target
		targetName, expandedTarget = target.Token, target.Expanded
	}

	table := s.deps.ContextFlag.GetContextAwareFlags(inv.cfg, targetName, expandedTarget)
	expansion := s.deps.Expander.ExpandFlags(args, table, inv.shell)

	inv.expansion.Start = append(inv.expansion.Start, expansion.Start...)
	inv.expansion.Prefix = append(inv.expansion.Prefix, expansion.Prefix...)
	inv.expansion.PreArgs = append(inv.expansion.PreArgs, expansion.PreArgs...)
	inv.expansion.Suffix = append(inv.expansion.Suffix, expansion.Suffix...)
	inv.expansion.End = append(inv.expansion.End, expansion.End...)
	inv.expansion.RemainingArgs = expansion.RemainingArgs

	inv.logger.Debug("expandable flags processed", "target", expandedTarget, "remaining", expansion.RemainingArgs)
	return nil
}

// targetIndex returns the index of the first token that is not a flag, or -1.
func targetIndex(args []string) int {
	for i, a := range args {
		if a == "--" {
			return -1
		}
		if !strings.HasPrefix(a, "-") {
			return i
		}
	}
	return -1
}

func (s *service) build(inv *invocation) {
	x := inv.expansion
	head, tail := nonEmpty(x.Start), nonEmpty(x.End)

	if inv.target != nil {
		base := concat(x.Prefix, []string{"nx", "run", inv.target.ProjectTarget()}, x.PreArgs, x.Suffix, x.RemainingArgs)
		kind := command.KindArgv
		if head > 0 || tail > 0 {
			kind = command.KindShell
		}
		inv.commands = []command.Built{{
			Argv:    s.deps.Engine.ConstructWrappedCommand(base, x.Start, x.End),
			Kind:    kind,
			Timeout: inv.internal.Timeout,
			Head:    head,
			Tail:    tail,
		}}
		return
	}

	// The literal command is shell source; only what follows it is quoted.
	for _, literal := range inv.res.Commands {
		base := concat([]string{literal}, x.Prefix, x.PreArgs, x.RemainingArgs, x.Suffix)
		inv.commands = append(inv.commands, command.Built{
			Argv:    s.deps.Engine.ConstructWrappedCommand(base, x.Start, x.End),
			Kind:    command.KindShell,
			Timeout: inv.internal.Timeout,
			Head:    head + 1,
			Tail:    tail,
		})
	}
}

func nonEmpty(fragments []string) int {
	n := 0
	for _, f := range fragments {
		if f != "" {
			n++
		}
	}
	return n
}

func concat(parts ...[]string) []string {
	var n int
	for _, p := range parts {
		n += len(p)
	}
	out := make([]string, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func (s *service) echo(inv *invocation) {
	for _, c := range inv.commands {
		if inv.effects.EchoVariant == EchoVariantArgv {
			for _, token := range c.Argv {
				s.deps.Reporter.Print(token)
			}
			continue
		}
		s.deps.Reporter.Print(c.Line(inv.shell))
	}
}

func (s *service) execute(ctx context.Context, inv *invocation) int {
	var result process.Result

	switch {
	case inv.res.Type != resolution.TypeExpandable:
		req := inv.commands[0].Request(inv.shell)
		inv.logger.Info("running command", "command", req.Command, "args", req.Args)
		result = s.deps.Runner.Run(ctx, req)
	case len(inv.commands) == 1:
		req := inv.commands[0].Request(inv.shell)
		inv.logger.Info("running pooled command", "command", req.Command, "args", req.Args)
		result = s.deps.Pool.ExecuteWithPool(ctx, req.Command, req.Args, req.Options)
	default:
		reqs := make([]process.Request, len(inv.commands))
		for i, c := range inv.commands {
			reqs[i] = c.Request(inv.shell)
		}
		inv.logger.Info("running pooled batch", "tasks", len(reqs))
		result = firstFailure(s.deps.Pool.RunBatch(ctx, reqs))
	}

	return s.finish(ctx, inv, result)
}

// firstFailure returns the first failed result in request order, or the last
// result when all succeeded.
func firstFailure(results []process.Result) process.Result {
	for _, r := range results {
		if r.Failed() {
			return r
		}
	}
	if len(results) == 0 {
		return process.Result{Reason: process.ReasonCompleted}
	}
	return results[len(results)-1]
}

func (s *service) finish(ctx context.Context, inv *invocation, result process.Result) int {
	inv.logger.Debug("command finished",
		"task", result.TaskID, "reason", result.Reason, "exitCode", result.ExitCode, "duration", result.Duration)

	if !result.Failed() {
		s.transition(inv, StateCompleted)
		return 0
	}
	s.transition(inv, StateFailed)

	if errors.Is(ctx.Err(), context.Canceled) {
		return process.InterruptExitCode
	}

	switch result.Reason {
	case process.ReasonNonZeroExit:
		// The child already told the user what went wrong.
		return result.ExitCode
	case process.ReasonTimeout:
		s.deps.Reporter.Error(fmt.Errorf("command timed out: %w", result.Err))
		return process.TimeoutExitCode
	default:
		if result.Err != nil {
			s.deps.Reporter.Error(result.Err)
		}
		if result.ExitCode == 0 {
			return 1
		}
		return result.ExitCode
	}
}

func (s *service) fail(inv *invocation, err error) int {
	s.deps.Reporter.Error(err)
	s.transition(inv, StateFailed)
	return 1
}

func (s *service) transition(inv *invocation, next State) {
	inv.logger.Debug("state transition", "from", inv.state, "to", next)
	inv.state = next
}

func (s *service) help(token string) {
	if s.deps.Help != nil {
		s.deps.Help(token)
		return
	}
	s.deps.Reporter.Print("usage: pae <alias> [target] [flags...] [-- passthrough...]")
}
