package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/FocusTorn/pae/internal/core/ports"
	"github.com/FocusTorn/pae/internal/handlers/ui"
)

// NewInstallCommand creates the 'install' subcommand.
func NewInstallCommand(services Services) *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Add a shell alias for every configured alias.",
		Long: `Writes a shell alias running "pae <alias>" for every configured alias into
the generated script under ~/.pae/. Aliases already in the script are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.Management.InstallAliases()
			if err != nil {
				return fmt.Errorf("could not install aliases: %w", err)
			}
			printInstallResult(cmd, result)
			return nil
		},
	}
}

// NewRefreshCommand creates the 'refresh' subcommand.
func NewRefreshCommand(services Services) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Regenerate the shell alias script from the config.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.Management.RefreshAliases()
			if err != nil {
				return fmt.Errorf("could not refresh aliases: %w", err)
			}
			printInstallResult(cmd, result)
			return nil
		},
	}
}

// NewRemoveCommand creates the 'remove' subcommand.
func NewRemoveCommand(services Services) *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Delete the generated shell alias script.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.Management.RemoveAliases(); err != nil {
				return fmt.Errorf("could not remove aliases: %w", err)
			}
			services.Reporter.Info("Generated aliases removed. Open a new shell to drop them.")
			return nil
		},
	}
}

// NewLoadCommand creates the 'load' subcommand.
func NewLoadCommand(services Services) *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Print the alias script for eval in the current shell.",
		Long:  `Prints the alias script without writing it, e.g. eval "$(pae load)".`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := services.Management.LoadScript()
			if err != nil {
				return fmt.Errorf("could not render alias script: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), script)
			return nil
		},
	}
}

// NewHelpCommand replaces cobra's help command so "pae help" also lists the
// configured aliases when a config is available.
func NewHelpCommand(services Services) *cobra.Command {
	return &cobra.Command{
		Use:   "help",
		Short: "Show usage and the configured aliases.",
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			if len(args) > 0 {
				if target, _, err := root.Find(args); err == nil && target != root {
					return target.Help()
				}
			}
			if err := root.Help(); err != nil {
				return err
			}
			cfg, err := services.Config.Load()
			if err != nil {
				services.Reporter.Warn(fmt.Sprintf("no alias config loaded: %v", err))
				return nil
			}
			UnknownAliasHelp(cmd.OutOrStdout())(cfg, "")
			return nil
		},
	}
}

func printInstallResult(cmd *cobra.Command, result ports.InstallResult) {
	out := cmd.OutOrStdout()
	if len(result.Added) > 0 {
		fmt.Fprintln(out, ui.SuccessColor("Added:"), strings.Join(result.Added, ", "))
	}
	if len(result.Existing) > 0 {
		fmt.Fprintln(out, ui.InfoColor("Already installed:"), strings.Join(result.Existing, ", "))
	}
	if len(result.Skipped) > 0 {
		fmt.Fprintln(out, ui.WarningColor("Skipped (not a valid shell alias name):"), strings.Join(result.Skipped, ", "))
	}
	fmt.Fprintln(out, ui.HeaderColor("Script:"), ui.DetailColor(result.ScriptPath))
	fmt.Fprintln(out, "Source it from your shell profile to use the aliases.")
}
