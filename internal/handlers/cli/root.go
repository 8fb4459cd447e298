/*
Package cli wires the pae command line onto the core services with cobra.
Anything that is not a reserved verb is an alias invocation: flag parsing is
disabled there so every user flag reaches the flag expander untouched.
*/
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FocusTorn/pae/internal/core/ports"
	"github.com/FocusTorn/pae/internal/handlers/ui"
)

// Services are the core services and output the commands run against.
type Services struct {
	Execution  ports.CommandExecutionService
	Management ports.AliasManagementService
	Config     ports.ConfigProvider
	Reporter   *ui.Reporter
}

const usageLine = "pae <alias> [target] [flags...] [-- passthrough...]"

func NewRootCommand(version string, services Services) *cobra.Command {
	if services.Execution == nil {
		panic("command execution service cannot be nil")
	}
	if services.Management == nil {
		panic("alias management service cannot be nil")
	}
	if services.Config == nil {
		panic("config provider cannot be nil")
	}
	if services.Reporter == nil {
		panic("reporter cannot be nil")
	}

	rootCmd := &cobra.Command{
		Use:   usageLine,
		Short: "pae expands short project aliases into full commands and runs them.",
		Long: `pae resolves a short alias typed on the command line against the alias
config, expands its flags into full command fragments and runs the result.

  pae dc b -s        runs "nx run dynamicons:build --skip-nx-cache"
  pae invoke dc b    same, for aliases that clash with a pae verb`,
		Version:            version,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && (args[0] == "--version" || args[0] == "-v") {
				fmt.Fprintln(cmd.OutOrStdout(), version)
				return nil
			}
			if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
				return cmd.Help()
			}
			return runAlias(cmd, args, services.Execution)
		},
	}
	// Every non-verb token must reach the alias path.
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetHelpCommand(NewHelpCommand(services))

	rootCmd.AddCommand(NewInvokeCommand(services.Execution))
	rootCmd.AddCommand(NewInstallCommand(services))
	rootCmd.AddCommand(NewRefreshCommand(services))
	rootCmd.AddCommand(NewRemoveCommand(services))
	rootCmd.AddCommand(NewLoadCommand(services))
	rootCmd.AddCommand(NewListCommand(services))

	return rootCmd
}

// runAlias hands args to the execution service and turns a non-zero exit
// code into an *ExitError.
func runAlias(cmd *cobra.Command, args []string, execution ports.CommandExecutionService) error {
	if code := execution.Execute(cmd.Context(), args); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}
