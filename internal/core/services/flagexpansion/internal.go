package flagexpansion

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/FocusTorn/pae/internal/core/domain/command"
	"github.com/FocusTorn/pae/internal/core/domain/expandable"
	"github.com/FocusTorn/pae/internal/core/ports"
)

// ErrFlagParse marks a recognised flag with a malformed value. It is never
// fatal: the offending token is passed through unchanged.
var ErrFlagParse = errors.New("malformed flag")

const (
	keyTimeout   = "-pae-execa-timeout"
	keyHelpShort = "h"
	keyHelpLong  = "-help"
)

/*
ScanInternalFlags pulls --pae-execa-timeout=<ms> and -h/--help out of tokens.
A timeout that is not a positive integer stays in the returned tokens and is
reported through the error, which wraps ErrFlagParse.
*/
func ScanInternalFlags(tokens []string) (command.InternalFlags, []string, error) {
	var flags command.InternalFlags
	rest, err := scanInternalInto(&flags, tokens)
	return flags, rest, err
}

func scanInternalInto(flags *command.InternalFlags, tokens []string) ([]string, error) {
	var rest []string
	var errs []error
	for i, token := range tokens {
		if token == "--" {
			rest = append(rest, tokens[i:]...)
			break
		}
		flag, ok := ParseExpandableFlag(token)
		if !ok {
			rest = append(rest, token)
			continue
		}
		switch flag.Key {
		case keyTimeout:
			ms, err := strconv.Atoi(flag.Value)
			if !flag.HasValue || err != nil || ms <= 0 {
				errs = append(errs, fmt.Errorf("%w: %q expects a positive number of milliseconds", ErrFlagParse, token))
				rest = append(rest, token)
				continue
			}
			flags.Timeout = time.Duration(ms) * time.Millisecond
		case keyHelpShort, keyHelpLong:
			flags.Help = true
		default:
			rest = append(rest, token)
		}
	}
	return rest, errors.Join(errs...)
}

/*
ProcessInternalFlags expands args through the internal-flags table and pulls
the internal switches out of every bucket of the result. The returned
expansion keeps the remaining fragments, whose start and end wrappers apply to
the final command.
*/
func ProcessInternalFlags(expander ports.FlagExpander, args []string, table expandable.Table, shell expandable.ShellKind) (command.InternalFlags, expandable.ExpansionResult, error) {
	var flags command.InternalFlags
	var errs []error

	expanded := expander.ExpandFlags(args, table, shell)
	scan := func(tokens []string) []string {
		rest, err := scanInternalInto(&flags, tokens)
		if err != nil {
			errs = append(errs, err)
		}
		return rest
	}
	expanded.Start = scan(expanded.Start)
	expanded.Prefix = scan(expanded.Prefix)
	expanded.PreArgs = scan(expanded.PreArgs)
	expanded.Suffix = scan(expanded.Suffix)
	expanded.End = scan(expanded.End)
	expanded.RemainingArgs = scan(expanded.RemainingArgs)

	return flags, expanded, errors.Join(errs...)
}
