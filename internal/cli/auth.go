package cli

// ABOUTME: `build-tools auth` commands for the platform machine token:
// ABOUTME: login validates and stores it, whoami shows who it belongs to.

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/drodnitchi/terminus-build-tools-plugin/internal/multidev"
	"github.com/drodnitchi/terminus-build-tools-plugin/internal/pantheon"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage platform credentials",
	}

	cmd.AddCommand(
		newAuthLoginCmd(),
		newAuthWhoamiCmd(),
	)

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Validate and store a platform machine token",
		Long: `Exchange a machine token for a session to prove it works, then store
it in ~/.build-tools/config.yaml for later commands. The token comes from
--machine-token or, failing that, TERMINUS_TOKEN.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, _ := cmd.Flags().GetString("machine-token")
			if token == "" {
				token = os.Getenv("TERMINUS_TOKEN")
			}
			if token == "" {
				return multidev.NewUsageError("machine token required (pass --machine-token or set TERMINUS_TOKEN)")
			}

			cfg, err := pantheon.LoadConfig()
			if err != nil {
				return multidev.NewConfigError("load config: %v", err)
			}

			client := pantheon.NewClient(cfg.Host, token, slog.Default())
			if _, err := client.Authorize(cmd.Context()); err != nil {
				return &multidev.AuthError{Provider: "platform", Err: err}
			}

			cfg.MachineToken = token
			if err := pantheon.SaveConfig(cfg); err != nil {
				return multidev.NewConfigError("save config: %v", err)
			}

			user, err := client.Whoami(cmd.Context())
			if err != nil {
				// Token is stored and valid; the greeting is optional.
				fmt.Fprintln(cmd.OutOrStdout(), "Logged in") //nolint:errcheck // best-effort output
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", user.Email) //nolint:errcheck // best-effort output
			return nil
		},
	}
	cmd.Flags().String("machine-token", "", "Machine token to store (defaults to TERMINUS_TOKEN)")
	return cmd
}

func newAuthWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user the configured token belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newPlatformClient()
			if err != nil {
				return err
			}

			user, err := client.Whoami(cmd.Context())
			if err != nil {
				return &multidev.AuthError{Provider: "platform", Err: err}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s <%s>\n", //nolint:errcheck // best-effort output
				user.Profile.FirstName, user.Profile.LastName, user.Email)
			return nil
		},
	}
}
