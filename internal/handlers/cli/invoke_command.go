package cli

import (
	"github.com/spf13/cobra"

	"github.com/FocusTorn/pae/internal/core/ports"
)

// NewInvokeCommand creates the 'invoke' subcommand. It runs an alias even
// when its token is also a pae verb such as "list".
func NewInvokeCommand(execution ports.CommandExecutionService) *cobra.Command {
	return &cobra.Command{
		Use:                "invoke <alias> [target] [flags...]",
		Short:              "Run an alias explicitly.",
		Args:               cobra.MinimumNArgs(1),
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlias(cmd, args, execution)
		},
	}
}
