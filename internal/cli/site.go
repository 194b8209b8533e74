package cli

import (
	"os"

	"github.com/drodnitchi/terminus-build-tools-plugin/internal/multidev"
	"github.com/spf13/cobra"
)

// EnvSiteID is the environment variable used as the default site id.
const EnvSiteID = "TERMINUS_SITE"

// resolveSite extracts the site id from positional args, falling back to
// TERMINUS_SITE if no site argument was provided.
// Returns a UsageError if no site is available from either source.
func resolveSite(_ *cobra.Command, args []string) (string, error) {
	if len(args) >= 1 {
		return args[0], nil
	}

	if envSite := os.Getenv(EnvSiteID); envSite != "" {
		return envSite, nil
	}

	return "", multidev.NewUsageError("site id required (or set TERMINUS_SITE)")
}
