package flags

import (
	"os"
	"strings"

	"github.com/spf13/pflag"
)

const (
	// Env vars
	EnvVarPyproject = "UVDEV_PYPROJECT"
	EnvVarDevDir    = "UVDEV_DEV_DIR"
	EnvVarLogPath   = "UVDEV_LOG_PATH"
	EnvVarLogLevel  = "UVDEV_LOG_LEVEL"

	// Defaults
	DefaultPyproject = "pyproject.toml"
	DefaultDevDir    = "pypi"
	DefaultLogPath   = ""
	DefaultLogLevel  = "info"

	// Flag names
	FlagNamePyproject = "pyproject"
	FlagNameDevDir    = "dev-dir"
	FlagNameLogPath   = "log-path"
	FlagNameLogLevel  = "log-level"
)

var (
	Pyproject string
	DevDir    string
	LogPath   string
	LogLevel  string
)

func InitFlags(fs *pflag.FlagSet) {
	initPyproject(fs)
	initDevDir(fs)
	initLogger(fs)
}

func initPyproject(fs *pflag.FlagSet) {
	if Pyproject == "" {
		if env := strings.TrimSpace(os.Getenv(EnvVarPyproject)); env != "" {
			Pyproject = env
		} else {
			Pyproject = DefaultPyproject
		}
	}
	fs.StringVar(&Pyproject, FlagNamePyproject, Pyproject, "path to the pyproject.toml to rewrite")
}

func initDevDir(fs *pflag.FlagSet) {
	if DevDir == "" {
		if env := strings.TrimSpace(os.Getenv(EnvVarDevDir)); env != "" {
			DevDir = env
		} else {
			DevDir = DefaultDevDir
		}
	}
	fs.StringVar(&DevDir, FlagNameDevDir, DevDir, "root directory containing local package checkouts")
}

func initLogger(fs *pflag.FlagSet) {
	if LogPath == "" {
		if env := strings.TrimSpace(os.Getenv(EnvVarLogPath)); env != "" {
			LogPath = env
		} else {
			LogPath = DefaultLogPath
		}
	}
	fs.StringVar(&LogPath, FlagNameLogPath, LogPath, "path to generated log file")

	if LogLevel == "" {
		if env := strings.TrimSpace(os.Getenv(EnvVarLogLevel)); env != "" {
			LogLevel = strings.ToLower(env)
		} else {
			LogLevel = DefaultLogLevel
		}
	}
	fs.StringVar(&LogLevel, FlagNameLogLevel, LogLevel, "log level for uvdev logs")
}
