package commands

import (
	"fmt"

	"git.home.luguber.info/inful/sitebook/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebook/internal/linkverify"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Output string `short:"o" help:"Site directory to check (defaults to paths.output)"`
}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if err := overrideOutput(cfg, c.Output); err != nil {
		return err
	}

	res, err := linkverify.VerifySite(cfg.Paths.Output)
	if err != nil {
		return err
	}
	w := out(g)
	for _, b := range res.Broken {
		_, _ = fmt.Fprintf(w, "%s: %s (%s)\n", b.Page, b.URL, b.Reason)
	}
	_, _ = fmt.Fprintf(w, "Checked %d pages, %d links, %d broken\n", res.Pages, res.Links, len(res.Broken))
	if !res.OK() {
		return errors.NewError(errors.CategoryBuild, "broken internal links found").
			WithContext("broken", len(res.Broken)).
			Build()
	}
	return nil
}
