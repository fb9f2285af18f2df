// Package pypi queries the package index metadata endpoint and extracts a
// repository homepage URL for a package.
package pypi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	clientName = "pypi"

	// DefaultBaseURL is the public package index.
	DefaultBaseURL = "https://pypi.org"

	// repositoryHost is the source-hosting platform domain.
	repositoryHost = "github.com"
)

// priorityKeys are project-URL keys that canonically point at the
// repository, in priority order.
var priorityKeys = []string{"repository", "source", "source code"}

// skipKeys are project-URL keys that never identify the repository root.
var skipKeys = map[string]struct{}{
	"changelog":     {},
	"documentation": {},
	"docs":          {},
	"issues":        {},
	"bug tracker":   {},
	"bugtracker":    {},
}

// Client queries a package index for metadata.
type Client struct {
	baseURL string
	http    *http.Client
	logger  hclog.Logger
}

// NewClient creates a Client against baseURL (the public index when empty).
func NewClient(logger hclog.Logger, baseURL string) *Client {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger.Named(clientName),
	}
}

// Response decodes the top-level JSON from the index API.
type Response struct {
	Info Info `json:"info"`
}

// Info decodes the 'info' object within the index API response.
type Info struct {
	Homepage    string            `json:"home_page"`
	ProjectURLs map[string]string `json:"project_urls"`
}

// IsRepositoryURL reports whether url points at a repository root on the
// hosting platform, excluding file-view URLs (blob/tree path segments).
func IsRepositoryURL(url string) bool {
	if !strings.Contains(url, repositoryHost) {
		return false
	}

	return !strings.Contains(url, "/blob/") && !strings.Contains(url, "/tree/")
}

// Homepage returns the best repository URL declared for the package, falling
// back to the raw homepage field (possibly empty). It never fails: any
// network or HTTP error degrades to an empty result.
func (c *Client) Homepage(pkg string) string {
	info := c.fetchInfo(pkg)

	homepage := info.Homepage
	if homepage != "" && IsRepositoryURL(homepage) {
		return homepage
	}

	normalized := make(map[string]string, len(info.ProjectURLs))
	for key, url := range info.ProjectURLs {
		normalized[strings.ToLower(strings.TrimSpace(key))] = url
	}

	for _, key := range priorityKeys {
		if url := normalized[key]; url != "" && IsRepositoryURL(url) {
			return url
		}
	}

	// Deterministic iteration for the remaining rules.
	keys := make([]string, 0, len(normalized))
	for key := range normalized {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, skip := skipKeys[key]; skip {
			continue
		}
		if url := normalized[key]; url != "" && IsRepositoryURL(url) {
			return url
		}
	}

	for _, key := range keys {
		if url := normalized[key]; url != "" && strings.Contains(url, repositoryHost) {
			return url
		}
	}

	return homepage
}

// fetchInfo fetches package metadata from the index, empty on any failure.
func (c *Client) fetchInfo(pkg string) Info {
	url := fmt.Sprintf("%s/pypi/%s/json", c.baseURL, pkg)

	resp, err := c.http.Get(url)
	if err != nil {
		c.logger.Debug("Failed to fetch package metadata", "package", pkg, "error", err)
		return Info{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("Non-OK status from package index", "package", pkg, "status", resp.StatusCode)
		return Info{}
	}

	var decoded Response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.logger.Debug("Failed to decode package metadata", "package", pkg, "error", err)
		return Info{}
	}

	c.logger.Debug("Fetched package metadata", "package", pkg)

	return decoded.Info
}
