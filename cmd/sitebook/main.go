package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitebook/cmd/sitebook/commands"
	"git.home.luguber.info/inful/sitebook/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebook/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("sitebook"),
		kong.Description("Build a static HTML book from a chapters manifest and Markdown sources."),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
	)
	err := parser.Run(&commands.Global{Out: os.Stdout}, cli)
	os.Exit(errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).Report(err))
}
