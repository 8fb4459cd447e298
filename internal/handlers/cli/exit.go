package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/FocusTorn/pae/internal/core/domain/aliasconfig"
	"github.com/FocusTorn/pae/internal/handlers/ui"
)

// ExitError carries the exit code of an invocation that already reported its
// own failure.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode maps the error returned by the root command to a process exit
// code. Errors that did not report themselves are reported on reporter.
func ExitCode(err error, reporter *ui.Reporter) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	reporter.Error(err)
	return 1
}

// UsageHelp prints the usage line. It serves -h/--help on the alias path.
func UsageHelp(out io.Writer) func(token string) {
	return func(token string) {
		fmt.Fprintln(out, ui.HeaderColor("Usage:"), usageLine)
		if token != "" && !aliasconfig.IsReserved(token) {
			fmt.Fprintln(out, ui.InfoColor("Alias:"), token)
		}
		fmt.Fprintln(out, "Run \"pae list\" to see every configured alias.")
	}
}

// UnknownAliasHelp lists the configured aliases after an unknown token.
func UnknownAliasHelp(out io.Writer) func(cfg *aliasconfig.Config, token string) {
	return func(cfg *aliasconfig.Config, token string) {
		categories := cfg.Categories()
		if len(categories) == 0 {
			fmt.Fprintln(out, ui.WarningColor("The alias config defines no aliases."))
			return
		}
		fmt.Fprintln(out, ui.HeaderColor("Available aliases:"))
		ui.RenderCategories(out, categories)
	}
}
