package pypi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestServer serves the given body for any /pypi/<pkg>/json request.
func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestClient_Homepage_Priority(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "homepage is a repository URL",
			body:     `{"info": {"home_page": "https://github.com/acme/demo", "project_urls": {}}}`,
			expected: "https://github.com/acme/demo",
		},
		{
			name: "repository project URL preferred over homepage",
			body: `{"info": {
				"home_page": "https://example.com",
				"project_urls": {"repository": "https://github.com/acme/demo"}
			}}`,
			expected: "https://github.com/acme/demo",
		},
		{
			name: "repository key dominates source key",
			body: `{"info": {
				"home_page": "",
				"project_urls": {
					"repository": "https://github.com/user/correct-repo",
					"Source": "https://github.com/user/other-repo",
					"Changelog": "https://github.com/user/correct-repo/blob/main/CHANGELOG.md"
				}
			}}`,
			expected: "https://github.com/user/correct-repo",
		},
		{
			name: "source key preferred over changelog file view",
			body: `{"info": {
				"home_page": "",
				"project_urls": {
					"Documentation": "https://github.com/un33k/python-ipware#readme",
					"Issues": "https://github.com/un33k/python-ipware/issues",
					"Source": "https://github.com/un33k/python-ipware",
					"Changelog": "https://github.com/un33k/python-ipware/blob/main/CHANGELOG.md"
				}
			}}`,
			expected: "https://github.com/un33k/python-ipware",
		},
		{
			name: "file view URLs are never returned",
			body: `{"info": {
				"home_page": "",
				"project_urls": {
					"Changelog": "https://github.com/user/repo/blob/main/CHANGELOG.md",
					"Documentation": "https://github.com/user/repo/blob/main/README.md",
					"Home": "https://github.com/user/repo"
				}
			}}`,
			expected: "https://github.com/user/repo",
		},
		{
			name: "project URL key matching is case-insensitive",
			body: `{"info": {
				"home_page": "",
				"project_urls": {
					"Source Code": "https://github.com/user/repo",
					"CHANGELOG": "https://github.com/user/repo/blob/main/CHANGELOG.md"
				}
			}}`,
			expected: "https://github.com/user/repo",
		},
		{
			name: "skip-listed key still matches the hosting-platform fallback",
			body: `{"info": {
				"home_page": "https://example.com",
				"project_urls": {"docs": "https://github.com/acme/demo"}
			}}`,
			expected: "https://github.com/acme/demo",
		},
		{
			name: "non-repository homepage returned as last resort",
			body: `{"info": {
				"home_page": "https://example.com",
				"project_urls": {"Documentation": "https://docs.example.com"}
			}}`,
			expected: "https://example.com",
		},
		{
			name:     "null homepage and project URLs",
			body:     `{"info": {"home_page": null, "project_urls": null}}`,
			expected: "",
		},
		{
			name:     "empty info",
			body:     `{"info": {}}`,
			expected: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, http.StatusOK, tc.body)
			c := NewClient(nil, srv.URL)

			require.Equal(t, tc.expected, c.Homepage("demo"))
		})
	}
}

func TestClient_Homepage_LookupFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{
			name:   "package not found",
			status: http.StatusNotFound,
			body:   `{"message": "Not Found"}`,
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   "",
		},
		{
			name:   "invalid JSON",
			status: http.StatusOK,
			body:   "{not-json",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, tc.status, tc.body)
			c := NewClient(nil, srv.URL)

			require.Empty(t, c.Homepage("demo"))
		})
	}
}

func TestClient_Homepage_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // Connection refused from here on.

	c := NewClient(nil, srv.URL)

	require.Empty(t, c.Homepage("demo"))
}

func TestIsRepositoryURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected bool
	}{
		{
			name:     "repository root",
			url:      "https://github.com/acme/demo",
			expected: true,
		},
		{
			name:     "blob file view",
			url:      "https://github.com/acme/demo/blob/main/CHANGELOG.md",
			expected: false,
		},
		{
			name:     "tree directory view",
			url:      "https://github.com/acme/demo/tree/main/docs",
			expected: false,
		},
		{
			name:     "non hosting-platform domain",
			url:      "https://example.com/acme/demo",
			expected: false,
		},
		{
			name:     "empty",
			url:      "",
			expected: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, IsRepositoryURL(tc.url))
		})
	}
}
