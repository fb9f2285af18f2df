// Package toggle decides and writes the dependency-source entry for a package.
package toggle

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/pydev-tools/uvdev/internal/checkout"
	"github.com/pydev-tools/uvdev/internal/gitx"
	"github.com/pydev-tools/uvdev/internal/printer"
	"github.com/pydev-tools/uvdev/internal/pypi"
	"github.com/pydev-tools/uvdev/internal/pyproject"
	"github.com/pydev-tools/uvdev/internal/uvx"
)

const engineName = "toggle"

// IndexClient resolves a package's homepage from the package index.
type IndexClient interface {
	// Homepage returns the best repository URL for the package, "" on any failure.
	Homepage(pkg string) string
}

// RepoProber checks repositories on the source-hosting platform.
type RepoProber interface {
	// RepoExists reports whether account/name resolves on the platform.
	RepoExists(account string, name string) bool

	// IsPythonPackage reports whether the repository root contains a
	// recognized packaging manifest.
	IsPythonPackage(repoURL string) bool

	// RepoURL returns the clone URL for account/name.
	RepoURL(account string, name string) string
}

// Config carries the engine's collaborators and settings.
type Config struct {
	Logger    hclog.Logger
	Loader    pyproject.Loader
	Index     IndexClient
	Prober    RepoProber
	Git       gitx.Runner
	UV        uvx.Runner
	Printer   printer.Printer
	Pyproject string
	DevDir    string
}

// Engine orchestrates source resolution and the configuration rewrite.
type Engine struct {
	logger    hclog.Logger
	loader    pyproject.Loader
	index     IndexClient
	prober    RepoProber
	git       gitx.Runner
	uv        uvx.Runner
	printer   printer.Printer
	pyproject string
	devDir    string
}

// NewEngine validates cfg and creates an Engine.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Loader == nil {
		return nil, fmt.Errorf("pyproject loader is required")
	}
	if cfg.Index == nil {
		return nil, fmt.Errorf("index client is required")
	}
	if cfg.Prober == nil {
		return nil, fmt.Errorf("repository prober is required")
	}
	if cfg.Git == nil {
		return nil, fmt.Errorf("git runner is required")
	}
	if cfg.UV == nil {
		return nil, fmt.Errorf("uv runner is required")
	}
	if cfg.Printer == nil {
		return nil, fmt.Errorf("printer is required")
	}
	if strings.TrimSpace(cfg.Pyproject) == "" {
		return nil, fmt.Errorf("pyproject path is required")
	}
	if strings.TrimSpace(cfg.DevDir) == "" {
		return nil, fmt.Errorf("dev dir is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Engine{
		logger:    logger.Named(engineName),
		loader:    cfg.Loader,
		index:     cfg.Index,
		prober:    cfg.Prober,
		git:       cfg.Git,
		uv:        cfg.UV,
		printer:   cfg.Printer,
		pyproject: strings.TrimSpace(cfg.Pyproject),
		devDir:    strings.TrimSpace(cfg.DevDir),
	}, nil
}

// Toggle rewrites the source entry for pkg. With no force flags set an
// existing published entry switches to a local checkout; anything else
// becomes a published entry. forceIndex removes the override entirely.
func (e *Engine) Toggle(pkg string, forceLocal bool, forcePublished bool, forceIndex bool) error {
	pkg = strings.TrimSpace(pkg)
	if pkg == "" {
		return fmt.Errorf("package name cannot be empty")
	}

	doc, err := e.loader.Load(e.pyproject)
	if err != nil {
		return err
	}

	if forceIndex {
		if doc.RemoveSource(pkg) {
			e.printer.IndexDefault(pkg)
		} else {
			e.printer.IndexDefaultAlready(pkg)
		}
		if err := doc.Save(); err != nil {
			return err
		}
		e.syncPackage(pkg)
		return nil
	}

	localPath := checkout.Resolve(e.devDir, pkg)
	localExists := checkout.Exists(localPath)
	branch := checkout.Branch(e.git, localPath)

	repoURL := e.resolveRepoURL(pkg)
	if repoURL == "" {
		e.printer.Warning(pkg, "could not determine a GitHub repository URL")

		if !localExists {
			e.printer.Error(pkg, fmt.Sprintf(
				"local path %s does not exist and repository detection failed", localPath,
			))
			return fmt.Errorf("%w: %s", ErrNoResolvableSource, pkg)
		}
	}

	current, _ := doc.Source(pkg)

	var src pyproject.Source
	if forceLocal || (!forcePublished && current.IsPublished()) {
		if !localExists {
			if repoURL == "" {
				e.printer.Error(pkg, fmt.Sprintf(
					"local path %s does not exist and no validated repository URL is available to clone", localPath,
				))
				return fmt.Errorf("%w: %s", ErrCloneURLUnavailable, pkg)
			}

			e.printer.Info(pkg, fmt.Sprintf("local path %s does not exist, cloning %s", localPath, repoURL))
			if err := e.git.Clone(repoURL, localPath); err != nil {
				return fmt.Errorf("failed to clone repository for '%s': %w", pkg, err)
			}
		}
		src = pyproject.Source{Path: localPath, Editable: true}
	} else {
		if repoURL == "" {
			e.printer.Error(pkg, "no repository URL available for a published source")
			return fmt.Errorf("%w: %s", ErrNoResolvableSource, pkg)
		}
		src = pyproject.Source{Git: repoURL, Rev: branch}
	}

	if err := doc.SetSource(pkg, src); err != nil {
		return err
	}
	if err := doc.Save(); err != nil {
		return err
	}

	e.syncPackage(pkg)
	e.printer.SourceSet(pkg, src)

	return nil
}

// FindEditable scans the sources mapping for local editable entries,
// reporting each match. When switchToPublished is set every match is toggled
// to its published source. The matched names are returned either way.
func (e *Engine) FindEditable(switchToPublished bool) ([]string, error) {
	doc, err := e.loader.Load(e.pyproject)
	if err != nil {
		return nil, err
	}

	editable := doc.EditableSources()
	for _, pkg := range editable {
		src, _ := doc.Source(pkg)
		e.printer.FoundEditable(pkg, src.Path)
	}

	if len(editable) == 0 {
		e.printer.Info("pyproject.toml", "no editable packages found")
		return nil, nil
	}

	if switchToPublished {
		for _, pkg := range editable {
			if err := e.Toggle(pkg, false, true, false); err != nil {
				return editable, err
			}
		}
	}

	return editable, nil
}

// Editable returns the editable package names without reporting or mutating.
func (e *Engine) Editable() ([]string, error) {
	doc, err := e.loader.Load(e.pyproject)
	if err != nil {
		return nil, err
	}
	return doc.EditableSources(), nil
}

// resolveRepoURL returns the first candidate repository URL that both exists
// and passes the package-shape check: the current user's account repository
// first, then the index-derived homepage.
func (e *Engine) resolveRepoURL(pkg string) string {
	if account := e.git.Username(); account != "" && e.prober.RepoExists(account, pkg) {
		url := e.prober.RepoURL(account, pkg)
		if e.prober.IsPythonPackage(url) {
			e.logger.Debug("Resolved repository from account", "package", pkg, "url", url)
			return url
		}
		e.logger.Debug("Account repository is not a Python package", "package", pkg, "url", url)
	}

	homepage := e.index.Homepage(pkg)
	if homepage == "" || !pypi.IsRepositoryURL(homepage) {
		e.logger.Debug("No usable homepage from package index", "package", pkg, "homepage", homepage)
		return ""
	}

	url := strings.TrimSuffix(homepage, "/")
	if !strings.HasSuffix(url, ".git") {
		url += ".git"
	}

	if e.prober.IsPythonPackage(url) {
		e.logger.Debug("Resolved repository from package index", "package", pkg, "url", url)
		return url
	}

	e.logger.Debug("Homepage repository is not a Python package", "package", pkg, "url", url)

	return ""
}

// syncPackage refreshes the dependency lock; failure is reported but never
// aborts the toggle, the configuration change has already been persisted.
func (e *Engine) syncPackage(pkg string) {
	if err := e.uv.SyncPackage(pkg); err != nil {
		e.logger.Warn("Dependency lock refresh failed", "package", pkg, "error", err)
		e.printer.Warning(pkg, fmt.Sprintf("failed to refresh dependency lock: %v", err))
	}
}
