package options

import (
	"github.com/pydev-tools/uvdev/internal/gitx"
	"github.com/pydev-tools/uvdev/internal/printer"
	"github.com/pydev-tools/uvdev/internal/pyproject"
	"github.com/pydev-tools/uvdev/internal/toggle"
	"github.com/pydev-tools/uvdev/internal/uvx"
)

type CmdOption func(*CmdOptions) error

// CmdOptions carries injectable collaborators for commands. Nil fields are
// resolved to their real implementations, wired to the command logger, when
// the command runs.
type CmdOptions struct {
	ConfigLoader pyproject.Loader
	Index        toggle.IndexClient
	Prober       toggle.RepoProber
	Git          gitx.Runner
	UV           uvx.Runner
	Printer      printer.Printer
}

func defaultOptions() CmdOptions {
	return CmdOptions{
		ConfigLoader: pyproject.DefaultLoader{},
	}
}

func NewOptions(opt ...CmdOption) (CmdOptions, error) {
	opts := defaultOptions()

	for _, o := range opt {
		if o == nil {
			continue
		}
		if err := o(&opts); err != nil {
			return CmdOptions{}, err
		}
	}

	return opts, nil
}

func WithConfigLoader(l pyproject.Loader) CmdOption {
	return func(o *CmdOptions) error {
		o.ConfigLoader = l
		return nil
	}
}

func WithIndexClient(c toggle.IndexClient) CmdOption {
	return func(o *CmdOptions) error {
		o.Index = c
		return nil
	}
}

func WithProber(p toggle.RepoProber) CmdOption {
	return func(o *CmdOptions) error {
		o.Prober = p
		return nil
	}
}

func WithGitRunner(r gitx.Runner) CmdOption {
	return func(o *CmdOptions) error {
		o.Git = r
		return nil
	}
}

func WithUVRunner(r uvx.Runner) CmdOption {
	return func(o *CmdOptions) error {
		o.UV = r
		return nil
	}
}

func WithPrinter(p printer.Printer) CmdOption {
	return func(o *CmdOptions) error {
		o.Printer = p
		return nil
	}
}
