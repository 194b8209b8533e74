// ABOUTME: Unit tests for the Bitbucket provider against an httptest API server.
package bitbucket

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New("dev", "app-pass", "team/site")
	require.NoError(t, err)
	c.BaseURL = srv.URL
	return c
}

func TestNew_MalformedProject(t *testing.T) {
	_, err := New("dev", "app-pass", "justaname")
	assert.Error(t, err)
}

func TestValidateCredentials(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "dev", user)
		assert.Equal(t, "app-pass", pass)
		fmt.Fprint(w, `{"username":"dev"}`)
	}))

	assert.NoError(t, c.ValidateCredentials(context.Background()))
}

func TestValidateCredentials_NoCredentials(t *testing.T) {
	c, err := New("", "", "team/site")
	require.NoError(t, err)

	err = c.ValidateCredentials(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BITBUCKET_USER")
}

func TestValidateCredentials_Rejected(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	assert.Error(t, c.ValidateCredentials(context.Background()))
}

func TestIsPullRequestClosed(t *testing.T) {
	cases := map[string]bool{
		"OPEN":       false,
		"MERGED":     true,
		"DECLINED":   true,
		"SUPERSEDED": true,
	}
	for state, want := range cases {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/repositories/team/site/pullrequests/5", r.URL.Path)
			fmt.Fprintf(w, `{"id":5,"state":%q}`, state)
		}))

		closed, err := c.IsPullRequestClosed(context.Background(), 5)
		require.NoError(t, err, "state %q", state)
		assert.Equal(t, want, closed, "state %q", state)
	}
}

func TestIsPullRequestClosed_Missing(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"type":"error","error":{"message":"not found"}}`)
	}))

	closed, err := c.IsPullRequestClosed(context.Background(), 404)
	require.NoError(t, err)
	assert.False(t, closed)
}

func TestIsPullRequestClosed_APIFailure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.IsPullRequestClosed(context.Background(), 5)
	require.Error(t, err)

	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
}
