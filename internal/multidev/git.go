package multidev

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// newGitCmd builds an exec.Cmd for git in the given directory with hooks
// disabled, so reading config never triggers repository hooks.
func newGitCmd(ctx context.Context, dir string, args ...string) *exec.Cmd {
	fullArgs := append([]string{"-c", "core.hooksPath=/dev/null", "-C", dir}, args...)
	return exec.CommandContext(ctx, "git", fullArgs...) //nolint:gosec // G204: dir comes from the CLI working directory
}

// LocalRemoteURL returns the origin remote URL of the repository at dir.
// The deletion flow compares this against the remote recorded in build
// metadata before anything is deleted.
func LocalRemoteURL(ctx context.Context, dir string) (string, error) {
	cmd := newGitCmd(ctx, dir, "config", "--get", "remote.origin.url")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git config --get remote.origin.url: %w", err)
	}
	url := strings.TrimSpace(string(output))
	if url == "" {
		return "", fmt.Errorf("remote.origin.url is empty in %s", dir)
	}
	return url, nil
}
