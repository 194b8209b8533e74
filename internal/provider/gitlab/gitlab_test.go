// ABOUTME: Unit tests for the GitLab provider against an httptest API server.
package gitlab

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	gl, err := gitlab.NewClient("tok", gitlab.WithBaseURL(srv.URL))
	require.NoError(t, err)
	return &Client{client: gl, token: "tok", project: "group/site"}
}

func TestNew_EmptyProject(t *testing.T) {
	_, err := New("tok", "gitlab.com", "")
	assert.Error(t, err)
}

func TestValidateCredentials(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v4/user", r.URL.Path)
		assert.Equal(t, "tok", r.Header.Get("PRIVATE-TOKEN"))
		fmt.Fprint(w, `{"id":1,"username":"dev"}`)
	}))

	assert.NoError(t, c.ValidateCredentials(context.Background()))
}

func TestValidateCredentials_NoToken(t *testing.T) {
	c, err := New("", "gitlab.com", "group/site")
	require.NoError(t, err)

	err = c.ValidateCredentials(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GITLAB_TOKEN")
}

func TestValidateCredentials_Rejected(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"401 Unauthorized"}`)
	}))

	assert.Error(t, c.ValidateCredentials(context.Background()))
}

func TestIsPullRequestClosed(t *testing.T) {
	cases := map[string]bool{
		"opened": false,
		"closed": true,
		"merged": true,
	}
	for state, want := range cases {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v4/projects/group/site/merge_requests/5", r.URL.Path)
			fmt.Fprintf(w, `{"iid":5,"state":%q}`, state)
		}))

		closed, err := c.IsPullRequestClosed(context.Background(), 5)
		require.NoError(t, err, "state %q", state)
		assert.Equal(t, want, closed, "state %q", state)
	}
}

func TestIsPullRequestClosed_Missing(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"404 Not Found"}`)
	}))

	closed, err := c.IsPullRequestClosed(context.Background(), 404)
	require.NoError(t, err)
	assert.False(t, closed)
}
