package github

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// newManifestServer answers contents-API HEAD requests with the status
// configured per manifest file name, 404 for anything else.
func newManifestServer(t *testing.T, statuses map[string]int) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for manifest, status := range statuses {
			if r.URL.Path == fmt.Sprintf("/repos/acme/demo/contents/%s", manifest) {
				w.WriteHeader(status)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		name            string
		url             string
		expectedAccount string
		expectedRepo    string
		expectedOK      bool
	}{
		{
			name:            "plain repository URL",
			url:             "https://github.com/acme/demo",
			expectedAccount: "acme",
			expectedRepo:    "demo",
			expectedOK:      true,
		},
		{
			name:            "clone URL with suffix",
			url:             "https://github.com/acme/demo.git",
			expectedAccount: "acme",
			expectedRepo:    "demo",
			expectedOK:      true,
		},
		{
			name:            "http scheme",
			url:             "http://github.com/acme/demo",
			expectedAccount: "acme",
			expectedRepo:    "demo",
			expectedOK:      true,
		},
		{
			name:       "account page only",
			url:        "https://github.com/acme",
			expectedOK: false,
		},
		{
			name:       "not a URL",
			url:        "acme/demo",
			expectedOK: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			account, repo, ok := ParseRepoURL(tc.url)

			require.Equal(t, tc.expectedOK, ok)
			require.Equal(t, tc.expectedAccount, account)
			require.Equal(t, tc.expectedRepo, repo)
		})
	}
}

func TestProber_RepoURL(t *testing.T) {
	p := NewProber(nil, "", "")

	require.Equal(t, "https://github.com/acme/demo.git", p.RepoURL("acme", "demo"))
}

func TestProber_RepoExists(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected bool
	}{
		{
			name:     "repository page resolves",
			status:   http.StatusOK,
			expected: true,
		},
		{
			name:     "repository missing",
			status:   http.StatusNotFound,
			expected: false,
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			expected: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/acme/demo", r.URL.Path)
				w.WriteHeader(tc.status)
			}))
			t.Cleanup(srv.Close)

			p := NewProber(nil, srv.URL, srv.URL)

			require.Equal(t, tc.expected, p.RepoExists("acme", "demo"))
		})
	}
}

func TestProber_RepoExists_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	p := NewProber(nil, srv.URL, srv.URL)

	require.False(t, p.RepoExists("acme", "demo"))
}

func TestProber_IsPythonPackage(t *testing.T) {
	tests := []struct {
		name     string
		statuses map[string]int
		expected bool
	}{
		{
			name:     "pyproject.toml present",
			statuses: map[string]int{"pyproject.toml": http.StatusOK},
			expected: true,
		},
		{
			name: "legacy setup.py only",
			statuses: map[string]int{
				"pyproject.toml": http.StatusNotFound,
				"setup.py":       http.StatusOK,
			},
			expected: true,
		},
		{
			name: "setup.cfg as last candidate",
			statuses: map[string]int{
				"pyproject.toml": http.StatusNotFound,
				"setup.py":       http.StatusNotFound,
				"setup.cfg":      http.StatusOK,
			},
			expected: true,
		},
		{
			name:     "no manifest anywhere",
			statuses: map[string]int{},
			expected: false,
		},
		{
			name: "unexpected status stops probing",
			statuses: map[string]int{
				"pyproject.toml": http.StatusForbidden,
				"setup.py":       http.StatusOK,
			},
			expected: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := newManifestServer(t, tc.statuses)
			p := NewProber(nil, srv.URL, srv.URL)

			require.Equal(t, tc.expected, p.IsPythonPackage("https://github.com/acme/demo"))
		})
	}
}

func TestProber_IsPythonPackage_UnparseableURL(t *testing.T) {
	p := NewProber(nil, "", "")

	require.False(t, p.IsPythonPackage("not-a-repository-url"))
}
