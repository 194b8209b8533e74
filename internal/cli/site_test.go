package cli

import (
	"errors"
	"testing"

	"github.com/drodnitchi/terminus-build-tools-plugin/internal/multidev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSite_ExplicitArg(t *testing.T) {
	site, err := resolveSite(nil, []string{"my-site"})
	require.NoError(t, err)
	assert.Equal(t, "my-site", site)
}

func TestResolveSite_EnvFallback(t *testing.T) {
	t.Setenv(EnvSiteID, "env-site")

	site, err := resolveSite(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "env-site", site)
}

func TestResolveSite_ExplicitOverridesEnv(t *testing.T) {
	t.Setenv(EnvSiteID, "env-site")

	site, err := resolveSite(nil, []string{"explicit"})
	require.NoError(t, err)
	assert.Equal(t, "explicit", site)
}

func TestResolveSite_NeitherSet(t *testing.T) {
	t.Setenv(EnvSiteID, "")

	_, err := resolveSite(nil, nil)
	require.Error(t, err)

	var usageErr *multidev.UsageError
	assert.True(t, errors.As(err, &usageErr))
	assert.Contains(t, err.Error(), "TERMINUS_SITE")
}
