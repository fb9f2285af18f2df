package pyproject

import (
	"fmt"
)

// Kind identifies which source variant is active for a package.
type Kind string

const (
	// KindIndex means no override is present: the package resolves from PyPI.
	KindIndex Kind = "index"

	// KindLocal means the package resolves from a filesystem checkout.
	KindLocal Kind = "local"

	// KindPublished means the package resolves from a Git repository reference.
	KindPublished Kind = "published"
)

// Source is a single [tool.uv.sources] entry.
// Exactly one variant is populated at a time: a local path (optionally
// editable), or a Git URL (optionally pinned to a revision).
type Source struct {
	Path     string `toml:"path,omitempty"`
	Editable bool   `toml:"editable,omitempty"`
	Git      string `toml:"git,omitempty"`
	Rev      string `toml:"rev,omitempty"`
}

// Kind returns the active variant for the source.
func (s Source) Kind() Kind {
	switch {
	case s.Path != "":
		return KindLocal
	case s.Git != "":
		return KindPublished
	default:
		return KindIndex
	}
}

// IsLocal reports whether the source points at a filesystem checkout.
func (s Source) IsLocal() bool {
	return s.Kind() == KindLocal
}

// IsPublished reports whether the source points at a Git repository.
func (s Source) IsPublished() bool {
	return s.Kind() == KindPublished
}

// inlineValue renders the source as a TOML inline table value.
func (s Source) inlineValue() string {
	switch {
	case s.Path != "" && s.Editable:
		return fmt.Sprintf("{ path = %q, editable = true }", s.Path)
	case s.Path != "":
		return fmt.Sprintf("{ path = %q }", s.Path)
	case s.Git != "" && s.Rev != "":
		return fmt.Sprintf("{ git = %q, rev = %q }", s.Git, s.Rev)
	default:
		return fmt.Sprintf("{ git = %q }", s.Git)
	}
}
