// Package github probes the source-hosting platform for repository existence
// and package shape.
package github

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	proberName = "github"

	// DefaultWebBaseURL serves repository pages.
	DefaultWebBaseURL = "https://github.com"

	// DefaultAPIBaseURL serves the contents API.
	DefaultAPIBaseURL = "https://api.github.com"
)

// manifestFiles are probed at the repository root to decide whether a
// repository looks like a Python package.
var manifestFiles = []string{"pyproject.toml", "setup.py", "setup.cfg"}

// repoPattern matches scheme://host/account/repo[.git], capturing account and repo.
var repoPattern = regexp.MustCompile(`^https?://[^/]+/([^/]+)/([^/.]+)`)

// Prober checks repositories on the hosting platform.
type Prober struct {
	webBaseURL string
	apiBaseURL string
	http       *http.Client
	logger     hclog.Logger
}

// NewProber creates a Prober; empty base URLs select the public platform.
func NewProber(logger hclog.Logger, webBaseURL string, apiBaseURL string) *Prober {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	webBaseURL = strings.TrimSpace(webBaseURL)
	if webBaseURL == "" {
		webBaseURL = DefaultWebBaseURL
	}

	apiBaseURL = strings.TrimSpace(apiBaseURL)
	if apiBaseURL == "" {
		apiBaseURL = DefaultAPIBaseURL
	}

	return &Prober{
		webBaseURL: strings.TrimSuffix(webBaseURL, "/"),
		apiBaseURL: strings.TrimSuffix(apiBaseURL, "/"),
		http:       &http.Client{Timeout: 10 * time.Second},
		logger:     logger.Named(proberName),
	}
}

// ParseRepoURL extracts the account and repository name from a repository URL.
func ParseRepoURL(repoURL string) (string, string, bool) {
	m := repoPattern.FindStringSubmatch(repoURL)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// RepoURL returns the clone URL for a repository under the given account.
func (p *Prober) RepoURL(account string, name string) string {
	return fmt.Sprintf("%s/%s/%s.git", p.webBaseURL, account, name)
}

// RepoExists reports whether the repository page resolves without error.
func (p *Prober) RepoExists(account string, name string) bool {
	url := fmt.Sprintf("%s/%s/%s", p.webBaseURL, account, name)

	resp, err := p.http.Get(url)
	if err != nil {
		p.logger.Debug("Repository probe failed", "url", url, "error", err)
		return false
	}
	defer resp.Body.Close()

	exists := resp.StatusCode >= 200 && resp.StatusCode < 300
	p.logger.Debug("Repository probe", "url", url, "status", resp.StatusCode, "exists", exists)

	return exists
}

// IsPythonPackage reports whether the repository root contains a recognized
// Python packaging manifest. A 404 for one manifest moves on to the next;
// any other failure is treated as a negative result immediately.
func (p *Prober) IsPythonPackage(repoURL string) bool {
	account, name, ok := ParseRepoURL(repoURL)
	if !ok {
		p.logger.Debug("Unparseable repository URL", "url", repoURL)
		return false
	}

	for _, manifest := range manifestFiles {
		url := fmt.Sprintf("%s/repos/%s/%s/contents/%s", p.apiBaseURL, account, name, manifest)

		req, err := http.NewRequest(http.MethodHead, url, nil)
		if err != nil {
			return false
		}

		resp, err := p.http.Do(req)
		if err != nil {
			p.logger.Debug("Contents probe failed", "url", url, "error", err)
			return false
		}
		_ = resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			p.logger.Debug("Found packaging manifest", "repo", repoURL, "manifest", manifest)
			return true
		case resp.StatusCode == http.StatusNotFound:
			continue
		default:
			p.logger.Debug("Contents probe returned unexpected status", "url", url, "status", resp.StatusCode)
			return false
		}
	}

	return false
}
