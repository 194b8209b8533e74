// Package github implements the provider.Client interface using go-github.
// ABOUTME: Asks the GitHub API whether a pull request is closed and whether GITHUB_TOKEN works.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v66/github"

	"github.com/drodnitchi/terminus-build-tools-plugin/internal/provider"
)

// Client implements provider.Client against the GitHub API.
type Client struct {
	client *github.Client
	token  string
	owner  string
	repo   string
}

// Compile-time check.
var _ provider.Client = (*Client)(nil)

// New creates a Client for the repository identified by project
// ("owner/repo"). An empty token is accepted here and rejected by
// ValidateCredentials, so callers get one consistent error path.
func New(token, project string) (*Client, error) {
	owner, repo, ok := strings.Cut(project, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("malformed GitHub project %q, want owner/repo", project)
	}

	gh := github.NewClient(nil)
	if token != "" {
		gh = gh.WithAuthToken(token)
	}

	return &Client{
		client: gh,
		token:  token,
		owner:  owner,
		repo:   repo,
	}, nil
}

// Name identifies this provider.
func (c *Client) Name() string { return "github" }

// ValidateCredentials verifies the token by fetching the authenticated user.
func (c *Client) ValidateCredentials(ctx context.Context) error {
	if c.token == "" {
		return errors.New("GITHUB_TOKEN is not set")
	}
	if _, _, err := c.client.Users.Get(ctx, ""); err != nil {
		return fmt.Errorf("token rejected: %w", err)
	}
	return nil
}

// IsPullRequestClosed reports whether the numbered pull request is closed.
// Merged pull requests report closed. A missing pull request is not an
// error: it reports (false, nil) so the caller retains the environment.
func (c *Client) IsPullRequestClosed(ctx context.Context, number int) (bool, error) {
	pr, _, err := c.client.PullRequests.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		var ghErr *github.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, fmt.Errorf("get pull request %d: %w", number, err)
	}
	return pr.GetState() == "closed", nil
}
