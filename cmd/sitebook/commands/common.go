package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitebook/internal/config"
)

// Global carries state shared by every subcommand.
type Global struct {
	Out io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Dir     string           `short:"C" name:"dir" help:"Project directory" default:"." type:"existingdir"`
	Config  string           `short:"c" help:"Configuration file path, relative to the project directory" default:"sitebook.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" help:"Render the book into the output directory"`
	Check CheckCmd `cmd:"" help:"Verify internal links and anchors of a built site"`
	Serve ServeCmd `cmd:"" help:"Build, serve the output over HTTP and rebuild on change"`
	Init  InitCmd  `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig reads the project configuration and switches the default logger
// to the configured level and format.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Dir, c.Config)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(cfg.Logging.NewLogger(os.Stderr, c.Verbose))
	return cfg, nil
}

// overrideOutput points the build at dir and revalidates the result.
func overrideOutput(cfg *config.Config, dir string) error {
	if dir == "" {
		return nil
	}
	cfg.Paths.Output = cfg.ResolvePath(dir)
	return cfg.Validate()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func out(g *Global) io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}
