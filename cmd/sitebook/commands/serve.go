package commands

import (
	"git.home.luguber.info/inful/sitebook/internal/preview"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Port    int  `name:"port" default:"8080" help:"HTTP port"`
	NoWatch bool `name:"no-watch" help:"Serve without rebuilding on change"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	return preview.New(cfg, preview.Options{Port: s.Port, Watch: !s.NoWatch}).Run(ctx)
}
