// Package bitbucket implements the provider.Client interface for Bitbucket
// Cloud via its 2.0 REST API.
// ABOUTME: Asks Bitbucket whether a pull request left the OPEN state.
package bitbucket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/drodnitchi/terminus-build-tools-plugin/internal/provider"
)

const defaultBaseURL = "https://api.bitbucket.org/2.0"

// Client implements provider.Client against Bitbucket Cloud.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	user    string
	pass    string
	project string // workspace/repo_slug
}

// Compile-time check.
var _ provider.Client = (*Client)(nil)

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bitbucket api error: status=%d body=%s", e.StatusCode, e.Body)
}

// New creates a Client for the repository identified by project
// ("workspace/repo_slug") authenticated with an app password.
func New(user, pass, project string) (*Client, error) {
	if !strings.Contains(project, "/") {
		return nil, fmt.Errorf("malformed Bitbucket project %q, want workspace/repo", project)
	}
	return &Client{
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		user:       user,
		pass:       pass,
		project:    project,
	}, nil
}

// Name identifies this provider.
func (c *Client) Name() string { return "bitbucket" }

// ValidateCredentials verifies the app password by fetching the current user.
func (c *Client) ValidateCredentials(ctx context.Context) error {
	if c.user == "" || c.pass == "" {
		return errors.New("BITBUCKET_USER and BITBUCKET_PASS are not set")
	}
	if err := c.get(ctx, "/user", nil); err != nil {
		return fmt.Errorf("credentials rejected: %w", err)
	}
	return nil
}

// IsPullRequestClosed reports whether the numbered pull request has left the
// open state (merged, declined, or superseded). A missing pull request
// reports (false, nil) so the caller retains the environment.
func (c *Client) IsPullRequestClosed(ctx context.Context, number int) (bool, error) {
	var pr struct {
		State string `json:"state"`
	}
	path := fmt.Sprintf("/repositories/%s/pullrequests/%d", c.project, number)
	if err := c.get(ctx, path, &pr); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, fmt.Errorf("get pull request %d: %w", number, err)
	}
	return pr.State != "OPEN", nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.user, c.pass)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort cleanup

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
