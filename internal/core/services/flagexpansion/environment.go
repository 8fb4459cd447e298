package flagexpansion

import (
	"github.com/FocusTorn/pae/internal/core/domain/command"
	"github.com/FocusTorn/pae/internal/core/domain/expandable"
	"github.com/FocusTorn/pae/internal/core/ports"
)

// Keys of the env-setting flags as returned by ParseExpandableFlag.
const (
	keyDebug   = "-pae-debug"
	keyVerbose = "-pae-verbose"
	keyEcho    = "-pae-echo"
	keyEchoX   = "-pae-echoX"
)

// ScanEnvironmentFlags pulls --pae-debug, --pae-verbose, --pae-echo[=variant]
// and --pae-echoX[=variant] out of tokens into effects. The other tokens are
// returned in order.
func ScanEnvironmentFlags(tokens []string) (command.EnvironmentEffects, []string) {
	var effects command.EnvironmentEffects
	rest := scanEnvironmentInto(&effects, tokens)
	return effects, rest
}

func scanEnvironmentInto(effects *command.EnvironmentEffects, tokens []string) []string {
	var rest []string
	for i, token := range tokens {
		if token == "--" {
			return append(rest, tokens[i:]...)
		}
		flag, ok := ParseExpandableFlag(token)
		if !ok {
			rest = append(rest, token)
			continue
		}
		switch flag.Key {
		case keyDebug:
			effects.Debug = true
			effects.Set(command.EnvDebug, "1")
		case keyVerbose:
			effects.Verbose = true
			effects.Set(command.EnvVerbose, "1")
		case keyEcho:
			effects.Echo = true
			effects.Set(command.EnvEcho, "1")
			setEchoVariant(effects, flag)
		case keyEchoX:
			effects.EchoX = true
			effects.Set(command.EnvEchoX, "1")
			setEchoVariant(effects, flag)
		default:
			rest = append(rest, token)
		}
	}
	return rest
}

func setEchoVariant(effects *command.EnvironmentEffects, flag ParsedFlag) {
	if flag.HasValue && flag.Value != "" {
		effects.EchoVariant = flag.Value
		effects.Set(command.EnvEchoVariant, flag.Value)
	}
}

/*
ProcessEnvironmentFlags expands args through the env-setting-flags table and
scans both the expansion and the unmatched tokens for env-setting flags.
It returns the effects and the tokens left for the next stage. Expansion
fragments that are not env-setting flags are dropped.
*/
func ProcessEnvironmentFlags(expander ports.FlagExpander, args []string, table expandable.Table, shell expandable.ShellKind) (command.EnvironmentEffects, []string) {
	var effects command.EnvironmentEffects

	expanded := expander.ExpandFlags(args, table, shell)
	scanEnvironmentInto(&effects, expanded.Fragments())
	rest := scanEnvironmentInto(&effects, expanded.RemainingArgs)
	return effects, rest
}
