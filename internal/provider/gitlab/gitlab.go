// Package gitlab implements the provider.Client interface using the GitLab
// API client.
// ABOUTME: Asks the GitLab API whether a merge request is closed or merged.
package gitlab

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	"github.com/drodnitchi/terminus-build-tools-plugin/internal/provider"
)

// Client implements provider.Client against a GitLab instance. Self-managed
// instances are supported via the host recorded in the remote URL.
type Client struct {
	client  *gitlab.Client
	token   string
	project string // full path, subgroups included
}

// Compile-time check.
var _ provider.Client = (*Client)(nil)

// New creates a Client for the repository identified by project (the full
// path, e.g. "group/subgroup/repo") on the given host.
func New(token, host, project string) (*Client, error) {
	if project == "" {
		return nil, errors.New("empty GitLab project path")
	}

	var opts []gitlab.ClientOptionFunc
	if host != "" && host != "gitlab.com" {
		opts = append(opts, gitlab.WithBaseURL("https://"+host))
	}
	gl, err := gitlab.NewClient(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create GitLab client: %w", err)
	}

	return &Client{
		client:  gl,
		token:   token,
		project: project,
	}, nil
}

// Name identifies this provider.
func (c *Client) Name() string { return "gitlab" }

// ValidateCredentials verifies the token by fetching the current user.
func (c *Client) ValidateCredentials(ctx context.Context) error {
	if c.token == "" {
		return errors.New("GITLAB_TOKEN is not set")
	}
	if _, _, err := c.client.Users.CurrentUser(gitlab.WithContext(ctx)); err != nil {
		return fmt.Errorf("token rejected: %w", err)
	}
	return nil
}

// IsPullRequestClosed reports whether the numbered merge request is closed
// or merged. A missing merge request reports (false, nil) so the caller
// retains the environment.
func (c *Client) IsPullRequestClosed(ctx context.Context, number int) (bool, error) {
	mr, resp, err := c.client.MergeRequests.GetMergeRequest(c.project, number, nil, gitlab.WithContext(ctx))
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, fmt.Errorf("get merge request %d: %w", number, err)
	}
	return mr.State == "closed" || mr.State == "merged", nil
}
