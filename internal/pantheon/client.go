// Package pantheon is a thin client for the site hosting platform API.
// ABOUTME: Session auth, environment listing, build metadata, and workflow-based deletion.
package pantheon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultHost is the platform API host used when no override is configured.
const DefaultHost = "terminus.pantheon.io"

// authClient identifies this tool family to the token exchange endpoint.
const authClient = "terminus"

// ErrNoMetadata marks an environment that carries no build metadata.
var ErrNoMetadata = errors.New("no build metadata")

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("platform api error: status=%d body=%s", e.StatusCode, e.Body)
}

// Client is a platform API client authenticated by machine token. The token
// is exchanged for a session on first use and re-exchanged when the session
// expires.
type Client struct {
	BaseURL      string
	HTTPClient   *http.Client
	UserAgent    string
	PollInterval time.Duration

	token   string
	logger  *slog.Logger
	session *Session
}

// NewClient creates a client for the given host ("" selects DefaultHost)
// using the given machine token.
func NewClient(host, token string, logger *slog.Logger) *Client {
	if host == "" {
		host = DefaultHost
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		BaseURL:      "https://" + host + "/api",
		HTTPClient:   &http.Client{Timeout: 60 * time.Second},
		UserAgent:    "build-tools",
		PollInterval: 2 * time.Second,
		token:        token,
		logger:       logger,
	}
}

// Authorize exchanges the machine token for a session, replacing any cached
// session.
func (c *Client) Authorize(ctx context.Context) (*Session, error) {
	if c.token == "" {
		return nil, errors.New("no machine token configured; run 'build-tools auth login' or set TERMINUS_TOKEN")
	}
	body := map[string]string{
		"machine_token": c.token,
		"client":        authClient,
	}
	var s Session
	if err := c.do(ctx, http.MethodPost, "/authorize/machine-token", body, &s, false); err != nil {
		return nil, fmt.Errorf("machine token rejected: %w", err)
	}
	c.session = &s
	return &s, nil
}

// ensureSession authorizes if there is no usable session yet.
func (c *Client) ensureSession(ctx context.Context) error {
	if !c.session.Expired() {
		return nil
	}
	_, err := c.Authorize(ctx)
	return err
}

// Whoami returns the user the configured machine token belongs to.
func (c *Client) Whoami(ctx context.Context) (*User, error) {
	if err := c.ensureSession(ctx); err != nil {
		return nil, err
	}
	var u User
	path := "/users/" + url.PathEscape(c.session.UserID)
	if err := c.do(ctx, http.MethodGet, path, nil, &u, true); err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	return &u, nil
}

// ListEnvironments returns all environments on a site, oldest first.
// Environments created in the same second order by id so repeated runs see
// the same sequence.
func (c *Client) ListEnvironments(ctx context.Context, site string) ([]Environment, error) {
	var raw map[string]struct {
		Created float64 `json:"environment_created"`
	}
	path := fmt.Sprintf("/sites/%s/environments", url.PathEscape(site))
	if err := c.do(ctx, http.MethodGet, path, nil, &raw, true); err != nil {
		return nil, fmt.Errorf("list environments for %s: %w", site, err)
	}

	envs := make([]Environment, 0, len(raw))
	for id, e := range raw {
		envs = append(envs, Environment{
			ID:        id,
			CreatedAt: time.Unix(int64(e.Created), 0),
		})
	}
	sort.Slice(envs, func(i, j int) bool {
		if envs[i].CreatedAt.Equal(envs[j].CreatedAt) {
			return envs[i].ID < envs[j].ID
		}
		return envs[i].CreatedAt.Before(envs[j].CreatedAt)
	})
	return envs, nil
}

// BuildMetadata reads the build metadata recorded on one environment.
// Environments without metadata (including an empty recorded URL) return
// ErrNoMetadata.
func (c *Client) BuildMetadata(ctx context.Context, site, env string) (*BuildMetadata, error) {
	var meta BuildMetadata
	path := fmt.Sprintf("/sites/%s/environments/%s/build-metadata", url.PathEscape(site), url.PathEscape(env))
	if err := c.do(ctx, http.MethodGet, path, nil, &meta, true); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, ErrNoMetadata
		}
		return nil, fmt.Errorf("build metadata for %s.%s: %w", site, env, err)
	}
	if meta.URL == "" {
		return nil, ErrNoMetadata
	}
	return &meta, nil
}

// DeleteEnvironment removes a multidev environment through the platform's
// asynchronous workflow API and waits for the workflow to finish.
func (c *Client) DeleteEnvironment(ctx context.Context, site, env string, deleteBranch bool) error {
	body := map[string]any{
		"type": "delete_cloud_development_environment",
		"params": map[string]any{
			"environment_id": env,
			"delete_branch":  deleteBranch,
		},
	}
	var wf Workflow
	path := fmt.Sprintf("/sites/%s/workflows", url.PathEscape(site))
	if err := c.do(ctx, http.MethodPost, path, body, &wf, true); err != nil {
		return fmt.Errorf("start deletion workflow for %s.%s: %w", site, env, err)
	}

	done, err := c.waitForWorkflow(ctx, site, wf)
	if err != nil {
		return err
	}
	if !done.Succeeded() {
		if done.Reason != "" {
			return fmt.Errorf("deletion workflow %s %s: %s", done.ID, done.Result, done.Reason)
		}
		return fmt.Errorf("deletion workflow %s %s", done.ID, done.Result)
	}
	return nil
}

// waitForWorkflow polls a workflow until it reaches a terminal state.
func (c *Client) waitForWorkflow(ctx context.Context, site string, wf Workflow) (*Workflow, error) {
	path := fmt.Sprintf("/sites/%s/workflows/%s", url.PathEscape(site), url.PathEscape(wf.ID))
	for !wf.Finished() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.PollInterval):
		}
		if err := c.do(ctx, http.MethodGet, path, nil, &wf, true); err != nil {
			return nil, fmt.Errorf("poll workflow %s: %w", wf.ID, err)
		}
	}
	return &wf, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	if authed {
		if err := c.ensureSession(ctx); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("X-Request-Id", uuid.NewString())
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort cleanup

	c.logger.Debug("platform api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
