package commands

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/cottonsite/internal/config"
)

// LogLevelEnv overrides the log level when -v is not given.
const LogLevelEnv = "COTTONSITE_LOG_LEVEL"

// Global carries state shared by every command.
type Global struct {
	Logger *slog.Logger

	// Out receives user-facing output. Nil means stdout.
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path" default:"cottonsite.yaml" type:"path"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogFormat string           `name:"log-format" help:"Log output format (text|json); defaults to logging.format"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Render every route into the output directory"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
	Routes  RoutesCmd  `cmd:"" help:"List the pages the configured routes expand to"`
	Verify  VerifyCmd  `cmd:"" help:"Check that every relative link of a built site resolves"`
	Preview PreviewCmd `cmd:"" help:"Serve the site under its base path and rebuild on changes"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	c.configureLogging(nil)
	return nil
}

// configureLogging installs the default logger. The flag and environment win
// over the configuration file.
func (c *CLI) configureLogging(cfg *config.Config) {
	level := config.LogLevelInfo
	format := config.LogFormatText
	if cfg != nil {
		level, format = cfg.Logging.Level, cfg.Logging.Format
	}
	if env := os.Getenv(LogLevelEnv); env != "" {
		level = config.NormalizeLogLevel(env)
	}
	if c.Verbose {
		level = config.LogLevelDebug
	}
	if c.LogFormat != "" {
		format = config.NormalizeLogFormat(c.LogFormat)
	}

	opts := &slog.HandlerOptions{Level: level.Slog()}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// loadConfig reads the configuration file. A missing file at the default
// location falls back to the embedded showcase defaults.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if errors.Is(err, fs.ErrNotExist) && isDefaultConfigPath(c.Config) {
		slog.Info("No configuration file; using built-in defaults", slog.String("path", c.Config))
		cfg, err = config.Default(), nil
	}
	if err != nil {
		return nil, err
	}
	c.configureLogging(cfg)
	return cfg, nil
}

func isDefaultConfigPath(p string) bool {
	abs, err := filepath.Abs(config.DefaultPath)
	if err != nil {
		return false
	}
	return p == config.DefaultPath || p == abs
}
