package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubLatestRelease(t *testing.T, tag string, err error) {
	t.Helper()
	orig := latestReleaseTag
	latestReleaseTag = func(_ context.Context) (string, error) { return tag, err }
	t.Cleanup(func() { latestReleaseTag = orig })
}

func runVersionCmd(t *testing.T, version string, args ...string) (string, error) {
	t.Helper()
	cmd := newVersionCmd(version, "abc1234", "2026-01-02")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion_Plain(t *testing.T) {
	out, err := runVersionCmd(t, "1.2.3")
	require.NoError(t, err)
	assert.Contains(t, out, "build-tools version 1.2.3")
	assert.Contains(t, out, "abc1234")
}

func TestVersion_CheckUpdateAvailable(t *testing.T) {
	stubLatestRelease(t, "v1.3.0", nil)

	out, err := runVersionCmd(t, "1.2.3", "--check")
	require.NoError(t, err)
	assert.Contains(t, out, "Update available: 1.2.3 -> v1.3.0")
}

func TestVersion_CheckUpToDate(t *testing.T) {
	stubLatestRelease(t, "v1.2.3", nil)

	out, err := runVersionCmd(t, "1.2.3", "--check")
	require.NoError(t, err)
	assert.Contains(t, out, "Up to date")
}

func TestVersion_CheckDevBuild(t *testing.T) {
	stubLatestRelease(t, "v1.2.3", nil)

	out, err := runVersionCmd(t, "dev", "--check")
	require.NoError(t, err)
	assert.Contains(t, out, "not a release")
}

func TestVersion_CheckFetchFails(t *testing.T) {
	stubLatestRelease(t, "", errors.New("rate limited"))

	_, err := runVersionCmd(t, "1.2.3", "--check")
	assert.Error(t, err)
}
