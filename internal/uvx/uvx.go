// Package uvx wraps the external uv package manager.
package uvx

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Runner provides an abstraction over the installed uv binary.
type Runner interface {
	// SyncPackage refreshes the dependency lock for a single package.
	// This is more targeted than a full sync: it only upgrades the named
	// package and does not drop other groups that were previously installed.
	SyncPackage(pkg string) error
}

// ExecRunner implements Runner using actual uv commands.
type ExecRunner struct {
	logger hclog.Logger
}

// NewExecRunner creates a new ExecRunner.
func NewExecRunner(logger hclog.Logger) *ExecRunner {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &ExecRunner{logger: logger.Named("uvx")}
}

func (r *ExecRunner) SyncPackage(pkg string) error {
	r.logger.Info("Refreshing package reference", "package", pkg)

	out, err := exec.Command("uv", "sync", "--upgrade-package", pkg).CombinedOutput()
	if err != nil {
		return fmt.Errorf("uv sync failed for '%s': %w (%s)", pkg, err, strings.TrimSpace(string(out)))
	}

	r.logger.Debug("Sync result", "package", pkg, "output", strings.TrimSpace(string(out)))

	return nil
}
