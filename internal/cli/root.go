// Package cli defines the Cobra command tree for the build-tools CLI.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/drodnitchi/terminus-build-tools-plugin/internal/multidev"
	"github.com/spf13/cobra"
)

// Execute runs the root command and returns the exit code.
func Execute(ctx context.Context, version, commit, date string) int {
	rootCmd := newRootCmd(version, commit, date)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	fmt.Fprintf(os.Stderr, "build-tools: %s\n", err) //nolint:errcheck // best-effort stderr write

	var usageErr *multidev.UsageError
	if errors.As(err, &usageErr) {
		return 2
	}

	var configErr *multidev.ConfigError
	if errors.As(err, &configErr) {
		return 3
	}

	var authErr *multidev.AuthError
	if errors.As(err, &authErr) {
		return 3
	}

	return 1
}

// newRootCmd creates the root Cobra command with all subcommands registered.
func newRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "build-tools",
		Short: "Manage ephemeral build environments",
		Long: `Manage the ephemeral build environments a CI pipeline creates on the
site platform. Transient ci- environments are pruned down to the newest
few, and pr- environments go away once their pull request closes. Every
deletion shows its plan and asks for confirmation before anything is
removed.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogging(cmd)
		},
	}

	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (-v for debug)")
	rootCmd.PersistentFlags().CountP("quiet", "q", "Suppress non-essential output (-q for warn, -qq for error only)")

	registerCommands(rootCmd, version, commit, date)

	return rootCmd
}
