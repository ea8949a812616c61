package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/sitebook/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	path := root.Config
	if !filepath.IsAbs(path) {
		path = filepath.Join(root.Dir, path)
	}
	w := out(g)
	_, _ = fmt.Fprintf(w, "Writing configuration to %s\n", path)
	if err := config.Init(path, i.Force); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w, "initialized successfully")
	return nil
}
