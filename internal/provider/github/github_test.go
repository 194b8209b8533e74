// ABOUTME: Unit tests for the GitHub provider against an httptest API server.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New("tok", "example-org/site")
	require.NoError(t, err)

	baseURL, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	c.client.BaseURL = baseURL
	return c
}

func TestNew_MalformedProject(t *testing.T) {
	for _, project := range []string{"", "justaname", "/site", "example-org/"} {
		_, err := New("tok", project)
		assert.Error(t, err, "project %q", project)
	}
}

func TestValidateCredentials(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"login":"dev"}`)
	}))

	assert.NoError(t, c.ValidateCredentials(context.Background()))
}

func TestValidateCredentials_NoToken(t *testing.T) {
	c, err := New("", "example-org/site")
	require.NoError(t, err)

	err = c.ValidateCredentials(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GITHUB_TOKEN")
}

func TestValidateCredentials_Rejected(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"Bad credentials"}`)
	}))

	assert.Error(t, c.ValidateCredentials(context.Background()))
}

func TestIsPullRequestClosed(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/example-org/site/pulls/5", r.URL.Path)
		fmt.Fprint(w, `{"number":5,"state":"closed"}`)
	}))

	closed, err := c.IsPullRequestClosed(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, closed)
}

func TestIsPullRequestClosed_Open(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"number":5,"state":"open"}`)
	}))

	closed, err := c.IsPullRequestClosed(context.Background(), 5)
	require.NoError(t, err)
	assert.False(t, closed)
}

func TestIsPullRequestClosed_Missing(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	}))

	closed, err := c.IsPullRequestClosed(context.Background(), 404)
	require.NoError(t, err)
	assert.False(t, closed)
}

func TestIsPullRequestClosed_APIFailure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := c.IsPullRequestClosed(context.Background(), 5)
	assert.Error(t, err)
}
