package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FocusTorn/pae/internal/handlers/ui"
)

// NewListCommand creates the 'list' subcommand.
func NewListCommand(services Services) *cobra.Command {
	var shellAliases bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the aliases defined in the alias config.",
		Long: `Displays every alias from the alias config grouped by category. With
--shell, shows the shell aliases "pae install" would write instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if shellAliases {
				return runListShellAliases(cmd, services)
			}
			return runListCmd(cmd, services)
		},
	}
	cmd.Flags().BoolVar(&shellAliases, "shell", false, "list the generated shell aliases")
	return cmd
}

// runListCmd contains the core logic for the 'list' command.
func runListCmd(cmd *cobra.Command, services Services) error {
	cfg, err := services.Config.Load()
	if err != nil {
		return fmt.Errorf("could not load alias config: %w", err)
	}
	out := cmd.OutOrStdout()

	categories := cfg.Categories()
	if len(categories) == 0 {
		fmt.Fprintln(out, ui.InfoColor("No aliases defined in "+services.Config.Source()+"."))
		return nil
	}
	fmt.Fprintln(out, ui.HeaderColor("Aliases from "+services.Config.Source()+":"))
	ui.RenderCategories(out, categories)
	return nil
}

func runListShellAliases(cmd *cobra.Command, services Services) error {
	aliases, err := services.Management.ListAliases()
	if err != nil {
		return fmt.Errorf("could not list aliases: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(aliases) == 0 {
		fmt.Fprintln(out, ui.InfoColor("No aliases can be installed from the alias config."))
		return nil
	}
	ui.RenderAliases(out, aliases)
	return nil
}
