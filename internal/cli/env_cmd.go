package cli

// ABOUTME: `build-tools env` parent command grouping environment subcommands:
// ABOUTME: list, delete-ci, delete-pr, and the retired delete.

import "github.com/spf13/cobra"

func newEnvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Inspect and delete build environments",
	}

	cmd.AddCommand(
		newEnvListCmd(),
		newEnvDeleteCICmd(),
		newEnvDeletePRCmd(),
		newEnvDeleteCmd(),
	)

	return cmd
}
