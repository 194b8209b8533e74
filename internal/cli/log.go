package cli

// ABOUTME: Maps the persistent -v/-q flag counts onto the process-wide slog
// ABOUTME: level. User-facing output never goes through the logger.

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// setupLogging configures the default logger from the verbosity flags.
// The default level is info; -v lowers it to debug, -q raises it to warn
// and -qq to error.
func setupLogging(cmd *cobra.Command) {
	verbose, _ := cmd.Flags().GetCount("verbose")
	quiet, _ := cmd.Flags().GetCount("quiet")

	level := slog.LevelInfo
	switch {
	case verbose > 0:
		level = slog.LevelDebug
	case quiet >= 2:
		level = slog.LevelError
	case quiet == 1:
		level = slog.LevelWarn
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
