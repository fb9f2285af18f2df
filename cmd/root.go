package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/pydev-tools/uvdev/internal/cmd"
	cmdopts "github.com/pydev-tools/uvdev/internal/cmd/options"
	"github.com/pydev-tools/uvdev/internal/flags"
	"github.com/pydev-tools/uvdev/internal/github"
	"github.com/pydev-tools/uvdev/internal/gitx"
	"github.com/pydev-tools/uvdev/internal/printer"
	"github.com/pydev-tools/uvdev/internal/pypi"
	"github.com/pydev-tools/uvdev/internal/pyproject"
	"github.com/pydev-tools/uvdev/internal/toggle"
	"github.com/pydev-tools/uvdev/internal/uvx"
)

var version = "dev" // Set at build time using -ldflags

// RootCmd toggles a package's dependency source in pyproject.toml.
type RootCmd struct {
	*cmd.BaseCmd

	local          bool
	published      bool
	pypiRelease    bool
	removeEditable bool

	opts cmdopts.CmdOptions
}

// Execute configures the logger and runs the root command.
func Execute() error {
	logger, err := configureLogger()
	if err != nil {
		return err
	}

	base := &cmd.BaseCmd{}
	base.SetLogger(logger)

	rootCmd, err := NewRootCmd(base)
	if err != nil {
		return err
	}

	return rootCmd.Execute()
}

// NewRootCmd creates a newly configured (Cobra) root command.
func NewRootCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &RootCmd{
		BaseCmd: baseCmd,
		opts:    opts,
	}

	cobraCmd := &cobra.Command{
		Use:           "uvdev <package|all>",
		Short:         "Toggle uv dependency sources between local checkouts, Git repos and PyPI.",
		Long:          c.longDescription(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		RunE:          c.run,
	}

	// Global flags
	flags.InitFlags(cobraCmd.PersistentFlags())

	cobraCmd.Flags().BoolVar(
		&c.local,
		"local",
		false,
		"use a local editable checkout, cloning the repository if necessary",
	)
	cobraCmd.Flags().BoolVar(
		&c.published,
		"published",
		false,
		"use the published Git repository",
	)
	cobraCmd.Flags().BoolVar(
		&c.pypiRelease,
		"pypi",
		false,
		"use the PyPI release (removes any source override)",
	)
	cobraCmd.Flags().BoolVar(
		&c.removeEditable,
		"remove-editable",
		false,
		"find all editable packages and switch them to published sources",
	)

	return cobraCmd, nil
}

// longDescription returns the long version of the command description.
func (c *RootCmd) longDescription() string {
	return `uvdev rewrites the [tool.uv.sources] entry for a package in pyproject.toml,
switching between a local editable checkout, a published Git repository and
the default PyPI release. The matching GitHub repository is resolved from
your account first, then from the package's PyPI metadata.`
}

// run is configured (via NewRootCmd) to be called by the Cobra framework
// when the command is executed.
func (c *RootCmd) run(cobraCmd *cobra.Command, args []string) error {
	engine, err := c.newEngine(cobraCmd.OutOrStdout())
	if err != nil {
		return err
	}

	if c.removeEditable {
		pkgs, err := engine.FindEditable(true)
		if err != nil {
			return err
		}
		if len(pkgs) > 0 {
			fmt.Fprintf(cobraCmd.OutOrStdout(),
				"✓ Converted %d editable package(s) to published sources\n", len(pkgs))
		}
		return nil
	}

	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return fmt.Errorf("package name is required unless --remove-editable is set")
	}

	name := strings.TrimSpace(args[0])
	if name == "all" {
		return c.runAll(engine)
	}

	return engine.Toggle(name, c.local, c.published, c.pypiRelease)
}

// runAll applies the published/pypi toggle to every currently-editable package.
func (c *RootCmd) runAll(engine *toggle.Engine) error {
	if c.local {
		return fmt.Errorf("'all' cannot be combined with --local")
	}

	pkgs, err := engine.Editable()
	if err != nil {
		return err
	}

	for _, pkg := range pkgs {
		if err := engine.Toggle(pkg, false, c.published, c.pypiRelease); err != nil {
			return err
		}
	}

	return nil
}

// newEngine builds the toggle engine, resolving any collaborators that were
// not injected through command options.
func (c *RootCmd) newEngine(out io.Writer) (*toggle.Engine, error) {
	logger := c.Logger()

	opts := c.opts
	if opts.ConfigLoader == nil {
		opts.ConfigLoader = pyproject.DefaultLoader{}
	}
	if opts.Index == nil {
		opts.Index = pypi.NewClient(logger, "")
	}
	if opts.Prober == nil {
		opts.Prober = github.NewProber(logger, "", "")
	}
	if opts.Git == nil {
		opts.Git = gitx.NewExecRunner(logger)
	}
	if opts.UV == nil {
		opts.UV = uvx.NewExecRunner(logger)
	}
	if opts.Printer == nil {
		opts.Printer = printer.NewConsolePrinter(out)
	}

	return toggle.NewEngine(toggle.Config{
		Logger:    logger,
		Loader:    opts.ConfigLoader,
		Index:     opts.Index,
		Prober:    opts.Prober,
		Git:       opts.Git,
		UV:        opts.UV,
		Printer:   opts.Printer,
		Pyproject: flags.Pyproject,
		DevDir:    flags.DevDir,
	})
}

func configureLogger() (hclog.Logger, error) {
	logPath := strings.TrimSpace(os.Getenv(flags.EnvVarLogPath))

	// If UVDEV_LOG_PATH is not set, don't log anywhere.
	logOutput := io.Discard

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file (%s): %w", logPath, err)
		}
		logOutput = f
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "uvdev",
		Level:  hclog.LevelFromString(getLogLevel()),
		Output: logOutput,
	})

	return logger, nil
}

func getLogLevel() string {
	lvl := strings.ToLower(os.Getenv(flags.EnvVarLogLevel))
	switch lvl {
	case "trace", "debug", "info", "warn", "error", "off":
		return lvl
	default:
		return "info"
	}
}
