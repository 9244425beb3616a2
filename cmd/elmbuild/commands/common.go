package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/elmbuild/internal/config"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
}

// NewGlobal returns the process-wide defaults.
func NewGlobal() *Global {
	return &Global{Logger: slog.Default(), Stdout: os.Stdout}
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: elmbuild.yaml when present)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" default:"withargs" help:"Transform the inputs and write the output bundle (default)"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
	Watch   WatchCmd   `cmd:"" help:"Rebuild whenever an input changes"`
	History HistoryCmd `cmd:"" help:"List recent builds from the build history"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	setupLogging(config.LoggingConfig{}, c.Verbose)
	return nil
}

// LoadConfig loads the configured file, or elmbuild.yaml when it exists,
// and reapplies logging settings from it.
func (c *CLI) LoadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if c.Config != "" {
		cfg, err = config.Load(c.Config)
	} else {
		cfg, err = config.LoadOptional(config.DefaultPath)
	}
	if err != nil {
		return nil, err
	}
	setupLogging(cfg.Logging, c.Verbose)
	return cfg, nil
}

func setupLogging(lc config.LoggingConfig, verbose bool) {
	opts := &slog.HandlerOptions{Level: lc.SlogLevel(verbose)}
	var handler slog.Handler
	if lc.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
