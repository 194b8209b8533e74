package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/drodnitchi/terminus-build-tools-plugin/internal/multidev"
	"github.com/drodnitchi/terminus-build-tools-plugin/internal/pantheon"
)

// newPlatformClient builds the platform API client from the stored config
// and environment. The machine token may still be empty here; commands that
// need a session fail with the platform's authorization error on first use.
func newPlatformClient() (*pantheon.Client, error) {
	cfg, err := pantheon.LoadConfig()
	if err != nil {
		return nil, multidev.NewConfigError("load config: %v", err)
	}
	token, err := pantheon.ResolveToken()
	if err != nil {
		return nil, multidev.NewConfigError("resolve machine token: %v", err)
	}
	return pantheon.NewClient(cfg.Host, token, slog.Default()), nil
}

// withReaper creates a platform client and deletion orchestrator, then
// calls fn. Progress and prompts go to stderr so stdout stays scriptable.
func withReaper(cmd *cobra.Command, fn func(ctx context.Context, r *multidev.Reaper) error) error {
	client, err := newPlatformClient()
	if err != nil {
		return err
	}
	r := multidev.NewReaper(client, slog.Default(), cmd.InOrStdin(), cmd.ErrOrStderr())
	return fn(cmd.Context(), r)
}
