// Package checkout locates local package checkouts under the configured
// development root directory.
package checkout

import (
	"os"
	"path/filepath"
	"strings"
)

// defaultBranches are treated as "no explicit branch": the published entry
// pins no revision and the repository default is used implicitly.
var defaultBranches = map[string]struct{}{
	"main":   {},
	"master": {},
}

// Resolve locates the local checkout for pkg under devDir, trying
// name-normalization variants in order: as-is, underscores replaced by
// hyphens, hyphens replaced by underscores. The first existing path wins;
// when none exist the as-is path is returned as the default clone target.
func Resolve(devDir string, pkg string) string {
	candidates := []string{
		pkg,
		strings.ReplaceAll(pkg, "_", "-"),
		strings.ReplaceAll(pkg, "-", "_"),
	}

	for _, name := range candidates {
		path := filepath.Join(devDir, name)
		if Exists(path) {
			return path
		}
	}

	return filepath.Join(devDir, pkg)
}

// Exists reports whether path exists on disk.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// BranchReader reads the current branch of a working copy.
type BranchReader interface {
	CurrentBranch(dir string) (string, error)
}

// Branch returns the explicit revision pin for the checkout at path: empty
// when the path is missing, unreadable, or checked out on a default branch.
func Branch(git BranchReader, path string) string {
	if !Exists(path) {
		return ""
	}

	branch, err := git.CurrentBranch(path)
	if err != nil {
		return ""
	}

	if IsDefaultBranch(branch) {
		return ""
	}

	return branch
}

// IsDefaultBranch reports whether name is a repository default branch.
func IsDefaultBranch(name string) bool {
	_, ok := defaultBranches[name]
	return ok
}
