package pyproject

import (
	"errors"
)

var (
	// ErrConfigLoadFailed indicates the pyproject.toml could not be read or parsed.
	ErrConfigLoadFailed = errors.New("failed to load pyproject.toml")
)
