// Package provider defines the pluggable Client interface for code hosting
// backends.
// ABOUTME: Provider-agnostic pull request lookups decouple retention rules from the git host SDKs.
package provider

import (
	"context"
	"strings"
)

// Client is a code hosting provider scoped to one repository.
type Client interface {
	// Name identifies the implementation ("github", "gitlab", "bitbucket").
	Name() string

	// ValidateCredentials verifies the configured credentials with a cheap
	// authenticated call. Fails when credentials are missing or rejected.
	ValidateCredentials(ctx context.Context) error

	// IsPullRequestClosed reports whether the numbered pull request exists
	// and is closed (merged counts as closed). A pull request that does not
	// exist reports false with no error; transport and API failures report
	// an error.
	IsPullRequestClosed(ctx context.Context, number int) (bool, error)
}

// HostOf extracts the lowercased host from a git remote URL. Handles https,
// ssh, and scp-style remotes, with or without credentials and ports.
func HostOf(remote string) string {
	s := strings.TrimSpace(remote)
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndexByte(s, '@'); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(s)
}
