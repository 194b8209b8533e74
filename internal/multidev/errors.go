package multidev

import (
	"errors"
	"fmt"
)

// Sentinel errors for environment reclamation.
var (
	// ErrPatternDeleteDisabled is returned unconditionally by the raw
	// pattern-delete operation, which remains registered only to explain
	// its own retirement.
	ErrPatternDeleteDisabled = errors.New("deleting environments by name pattern is no longer supported; use 'env delete-ci' or 'env delete-pr', which only remove build environments whose metadata matches this repository")
)

// NoCandidatesError indicates that no environment on the site matched the
// transient naming pattern, so there is nothing to evaluate.
type NoCandidatesError struct {
	Site    string
	Pattern string
}

func (e *NoCandidatesError) Error() string {
	return fmt.Sprintf("no multidev environments matching %q found on site %q", e.Pattern, e.Site)
}

// NoBuildMetadataError indicates that none of the candidate environments
// carry build metadata, so the repository they were built from cannot be
// established.
type NoBuildMetadataError struct {
	Site string
}

func (e *NoBuildMetadataError) Error() string {
	return fmt.Sprintf("no build metadata recorded on site %q; its environments were not created by the build workflow", e.Site)
}

// RepositoryMismatchError indicates that the local checkout and the site's
// build metadata name different repositories. Both URLs are reported in
// normalized form.
type RepositoryMismatchError struct {
	Site     string
	Local    string
	Recorded string
}

func (e *RepositoryMismatchError) Error() string {
	return fmt.Sprintf("local repository %q does not match repository %q recorded for site %q", e.Local, e.Recorded, e.Site)
}

// AuthError indicates that code hosting provider credentials are missing or
// were rejected.
type AuthError struct {
	Provider string
	Err      error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("cannot authenticate with %s: %v", e.Provider, e.Err)
}
func (e *AuthError) Unwrap() error { return e.Err }

// ProviderQueryError records a failed pull request lookup for one
// environment. It is collected as a warning, not raised: an environment
// whose pull request state is unknown is always retained.
type ProviderQueryError struct {
	Env string
	Err error
}

func (e *ProviderQueryError) Error() string {
	return fmt.Sprintf("could not determine pull request state for environment %q: %v", e.Env, e.Err)
}
func (e *ProviderQueryError) Unwrap() error { return e.Err }

// DeletionError records a failed deletion of one environment.
type DeletionError struct {
	Env string
	Err error
}

func (e *DeletionError) Error() string {
	return fmt.Sprintf("failed to delete environment %q: %v", e.Env, e.Err)
}
func (e *DeletionError) Unwrap() error { return e.Err }

// InvalidStateError indicates a Controller accessor was called before an
// eligibility rule had run.
type InvalidStateError struct {
	Op string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s called before an eligibility rule was applied", e.Op)
}

// UsageError indicates bad arguments or missing required args (exit code 2).
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

// NewUsageError wraps a message as a UsageError.
func NewUsageError(format string, args ...any) *UsageError {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// ConfigError indicates a configuration problem (exit code 3).
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError wraps a message as a ConfigError.
func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Err: fmt.Errorf(format, args...)}
}
