package commands

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/sitebook/internal/build"
	"git.home.luguber.info/inful/sitebook/internal/logfields"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output      string `short:"o" help:"Output directory (overrides paths.output)"`
	VerifyLinks bool   `name:"verify-links" help:"Check internal links and anchors after rendering"`
	KeepMissing bool   `name:"keep-missing" help:"Keep navigation links to entries whose source is missing"`
	Report      string `name:"report" help:"Write a JSON build report to this file" type:"path"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if err := overrideOutput(cfg, b.Output); err != nil {
		return err
	}
	if b.VerifyLinks {
		cfg.Build.VerifyLinks = true
	}
	if b.KeepMissing {
		cfg.Navigation.KeepMissing = true
	}

	ctx, cancel := signalContext()
	defer cancel()
	report, buildErr := build.Execute(ctx, cfg)

	if report != nil && b.Report != "" {
		if err := report.Persist(b.Report); err != nil {
			slog.Warn("Failed to write build report", logfields.Path(b.Report), logfields.Error(err))
		}
	}
	if buildErr != nil {
		return buildErr
	}
	_, _ = fmt.Fprintln(out(g), report.TotalLine())
	return nil
}
