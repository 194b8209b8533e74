package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/drodnitchi/terminus-build-tools-plugin/internal/multidev"
)

// isTerminal is a var so tests can override it.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// requireTTYOrYes rejects interactive confirmation when stdin is not a
// terminal. Dry runs never prompt, so they always pass.
func requireTTYOrYes(dryRun, yes bool) error {
	if dryRun || yes || isTerminal() {
		return nil
	}
	return multidev.NewUsageError("stdin is not a terminal; pass --yes to delete without confirmation")
}

// finishDelete folds the no-candidate case into a normal completion; every
// other error propagates to the exit code mapping.
func finishDelete(cmd *cobra.Command, err error) error {
	var noCandidates *multidev.NoCandidatesError
	if errors.As(err, &noCandidates) {
		fmt.Fprintf(cmd.ErrOrStderr(), "No environments matching %q on %s; nothing to do\n", //nolint:errcheck // best-effort output
			noCandidates.Pattern, noCandidates.Site)
		return nil
	}
	return err
}

func newEnvDeleteCICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete-ci [site]",
		Short: "Delete transient ci- environments, keeping the newest N",
		Long: `Delete the site's transient ci- build environments, oldest first,
keeping only the newest --keep of them. The environment's git branch is
deleted along with it. Fixed environments and pr- environments are never
touched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := resolveSite(cmd, args)
			if err != nil {
				return err
			}

			keep, _ := cmd.Flags().GetInt("keep")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			yes, _ := cmd.Flags().GetBool("yes")

			if err := requireTTYOrYes(dryRun, yes); err != nil {
				return err
			}

			return withReaper(cmd, func(ctx context.Context, r *multidev.Reaper) error {
				_, err := r.DeleteTransientBuilds(ctx, multidev.TransientDeleteOptions{
					Site:      site,
					Keep:      keep,
					DryRun:    dryRun,
					AssumeYes: yes,
				})
				return finishDelete(cmd, err)
			})
		},
	}
	cmd.Flags().Int("keep", 0, "Number of newest matching environments to keep")
	cmd.Flags().Bool("dry-run", false, "Show what would be deleted without deleting anything")
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newEnvDeletePRCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete-pr [site]",
		Short: "Delete pr- environments whose pull request has closed",
		Long: `Delete the site's pr- build environments whose pull or merge request
has been closed or merged on the git provider. Environments whose pull
request is still open, cannot be parsed, or cannot be looked up are kept.
The environment's git branch is deleted along with it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := resolveSite(cmd, args)
			if err != nil {
				return err
			}

			dryRun, _ := cmd.Flags().GetBool("dry-run")
			yes, _ := cmd.Flags().GetBool("yes")

			if err := requireTTYOrYes(dryRun, yes); err != nil {
				return err
			}

			return withReaper(cmd, func(ctx context.Context, r *multidev.Reaper) error {
				_, err := r.DeletePullRequestBuilds(ctx, multidev.PullRequestDeleteOptions{
					Site:      site,
					DryRun:    dryRun,
					AssumeYes: yes,
				})
				return finishDelete(cmd, err)
			})
		},
	}
	cmd.Flags().Bool("dry-run", false, "Show what would be deleted without deleting anything")
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// newEnvDeleteCmd is the retired free-pattern deletion command. It exists
// only to tell callers of old pipelines what to run instead.
func newEnvDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:        "delete [site]",
		Short:      "Retired; use delete-ci or delete-pr",
		Deprecated: "use 'env delete-ci' or 'env delete-pr' instead",
		Args:       cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pattern, _ := cmd.Flags().GetString("pattern")
			// The retired command never touches the platform.
			r := multidev.NewReaper(nil, slog.Default(), cmd.InOrStdin(), cmd.ErrOrStderr())
			return r.DeleteByPattern(cmd.Context(), multidev.PatternDeleteOptions{Pattern: pattern})
		},
	}
	cmd.Flags().String("pattern", "", "(retired) environment name pattern")
	return cmd
}
