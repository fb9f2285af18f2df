package toggle

import (
	"errors"
)

var (
	// ErrNoResolvableSource indicates no repository URL could be validated
	// and no local checkout exists to fall back on.
	ErrNoResolvableSource = errors.New("no resolvable source")

	// ErrCloneURLUnavailable indicates a clone was required but no
	// shape-validated repository URL was available.
	ErrCloneURLUnavailable = errors.New("no validated repository URL to clone from")
)
