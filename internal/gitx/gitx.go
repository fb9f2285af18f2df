// Package gitx wraps the external git and gh tools.
package gitx

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Runner provides an abstraction over the installed git and gh binaries.
type Runner interface {
	// Username returns the hosting-platform account name for the current
	// user via the authenticated gh CLI, falling back to the git identity
	// setting. Returns "" when neither is available.
	Username() string

	// CurrentBranch returns the checked-out branch name for the working copy at dir.
	CurrentBranch(dir string) (string, error)

	// Clone clones the repository at url into dir.
	Clone(url string, dir string) error
}

// ExecRunner implements Runner using actual git and gh commands.
type ExecRunner struct {
	logger hclog.Logger
}

// NewExecRunner creates a new ExecRunner.
func NewExecRunner(logger hclog.Logger) *ExecRunner {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &ExecRunner{logger: logger.Named("gitx")}
}

func (r *ExecRunner) Username() string {
	if out, err := exec.Command("gh", "api", "user").Output(); err == nil {
		var user struct {
			Login string `json:"login"`
		}
		if err := json.Unmarshal(out, &user); err == nil && user.Login != "" {
			r.logger.Debug("Resolved account via gh", "login", user.Login)
			return user.Login
		}
	} else {
		r.logger.Debug("gh lookup failed, trying git config", "error", err)
	}

	out, err := exec.Command("git", "config", "user.name").Output()
	if err != nil {
		r.logger.Debug("git config lookup failed", "error", err)
		return ""
	}

	return strings.TrimSpace(string(out))
}

func (r *ExecRunner) CurrentBranch(dir string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "--abbrev-ref", "HEAD")
	cmd.Dir = dir

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to read current branch in '%s': %w", dir, err)
	}

	return strings.TrimSpace(string(out)), nil
}

func (r *ExecRunner) Clone(url string, dir string) error {
	r.logger.Info("Cloning repository", "url", url, "path", dir)

	cmd := exec.Command("git", "clone", url, dir)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to clone '%s' into '%s': %w", url, dir, err)
	}

	return nil
}
