package cli

// ABOUTME: `build-tools version` with an optional --check against the
// ABOUTME: latest GitHub release.

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v66/github"
	goversion "github.com/hashicorp/go-version"
	"github.com/spf13/cobra"
)

// repoOwner and repoName locate this tool's releases for `version --check`.
const (
	repoOwner = "drodnitchi"
	repoName  = "terminus-build-tools-plugin"
)

// latestReleaseTag is a var so tests can override it.
var latestReleaseTag = func(ctx context.Context) (string, error) {
	gh := github.NewClient(nil)
	release, _, err := gh.Repositories.GetLatestRelease(ctx, repoOwner, repoName)
	if err != nil {
		return "", fmt.Errorf("fetch latest release: %w", err)
	}
	return release.GetTagName(), nil
}

func newVersionCmd(version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "build-tools version %s (commit: %s, built: %s)\n", //nolint:errcheck // best-effort output
				version, commit, date)

			check, _ := cmd.Flags().GetBool("check")
			if !check {
				return nil
			}
			return checkLatest(cmd, version)
		},
	}
	cmd.Flags().Bool("check", false, "Compare against the latest released version")
	return cmd
}

// checkLatest fetches the newest release tag and reports whether the
// running build is behind it.
func checkLatest(cmd *cobra.Command, current string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	tag, err := latestReleaseTag(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	latest, err := goversion.NewVersion(tag)
	if err != nil {
		return fmt.Errorf("parse release tag %q: %w", tag, err)
	}

	cur, err := goversion.NewVersion(current)
	if err != nil {
		// Dev builds carry no comparable version.
		fmt.Fprintf(out, "Latest release is %s (current build is not a release)\n", tag) //nolint:errcheck // best-effort output
		return nil
	}

	if cur.LessThan(latest) {
		fmt.Fprintf(out, "Update available: %s -> %s\n", current, tag) //nolint:errcheck // best-effort output
	} else {
		fmt.Fprintln(out, "Up to date") //nolint:errcheck // best-effort output
	}
	return nil
}
