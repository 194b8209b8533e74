// Package multidev implements the retention policy for ephemeral build
// environments.
package multidev

// ABOUTME: Retention controller: one selection rule partitions a fixed
// ABOUTME: candidate snapshot into retained and eligible sets.

import (
	"context"

	"github.com/drodnitchi/terminus-build-tools-plugin/internal/provider"
)

// Controller partitions a fixed snapshot of candidate environments into a
// retained set and an eligible set. The candidate list is captured at
// construction and never re-queried, so one delete operation works from one
// consistent view of the site. Exactly one selection rule runs per
// controller instance.
type Controller struct {
	provider   provider.Client
	candidates []string // environment ids, oldest first
	pattern    Pattern
	project    Project
	site       string

	applied  bool
	retained []string
	eligible []string
	warnings []error
}

// NewController builds a controller over an oldest-first candidate snapshot.
// Construction performs no I/O; the provider is only consulted by
// SelectClosedPullRequests.
func NewController(p provider.Client, candidates []string, pattern Pattern, project Project, site string) *Controller {
	return &Controller{
		provider:   p,
		candidates: candidates,
		pattern:    pattern,
		project:    project,
		site:       site,
	}
}

// SelectOldest retains the keep newest candidates and marks every older
// candidate eligible. keep == 0 retains none; keep >= len(candidates) marks
// none eligible.
func (c *Controller) SelectOldest(keep int) error {
	if keep < 0 {
		return NewUsageError("keep count must be zero or greater, got %d", keep)
	}
	cut := len(c.candidates) - keep
	if cut < 0 {
		cut = 0
	}
	c.eligible = append([]string(nil), c.candidates[:cut]...)
	c.retained = append([]string(nil), c.candidates[cut:]...)
	c.applied = true
	return nil
}

// SelectClosedPullRequests marks a candidate eligible iff its id encodes a
// pull request number and the provider confirms that pull request is closed.
// Everything else is retained: ids without a number, open or missing pull
// requests, and candidates whose provider lookup failed. Failed lookups are
// recorded as warnings.
func (c *Controller) SelectClosedPullRequests(ctx context.Context) error {
	var retained, eligible []string
	for _, id := range c.candidates {
		if err := ctx.Err(); err != nil {
			return err
		}

		number, ok := PullRequestNumber(id)
		if !ok {
			retained = append(retained, id)
			continue
		}

		closed, err := c.provider.IsPullRequestClosed(ctx, number)
		if err != nil {
			c.warnings = append(c.warnings, &ProviderQueryError{Env: id, Err: err})
			retained = append(retained, id)
			continue
		}
		if closed {
			eligible = append(eligible, id)
		} else {
			retained = append(retained, id)
		}
	}
	c.retained = retained
	c.eligible = eligible
	c.applied = true
	return nil
}

// Retained returns the retained partition in candidate order. Fails with
// InvalidStateError before a selection rule has run.
func (c *Controller) Retained() ([]string, error) {
	if !c.applied {
		return nil, &InvalidStateError{Op: "Retained"}
	}
	return c.retained, nil
}

// Eligible returns the eligible partition in candidate order. Fails with
// InvalidStateError before a selection rule has run.
func (c *Controller) Eligible() ([]string, error) {
	if !c.applied {
		return nil, &InvalidStateError{Op: "Eligible"}
	}
	return c.eligible, nil
}

// SiteID returns the site the controller was built for.
func (c *Controller) SiteID() string { return c.site }

// Warnings returns non-fatal errors collected while a rule ran.
func (c *Controller) Warnings() []error { return c.warnings }
