package commands

import (
	"context"

	"git.home.luguber.info/inful/cottonsite/internal/linkverify"
)

// VerifyCmd checks a built site without rebuilding it.
type VerifyCmd struct {
	Dir string `arg:"" optional:"" type:"path" help:"Site directory (defaults to output.directory)"`
}

func (v *VerifyCmd) Run(g *Global, root *CLI) error {
	dir := v.Dir
	if dir == "" {
		cfg, err := root.loadConfig()
		if err != nil {
			return err
		}
		dir = cfg.Output.Directory
	}

	res, err := linkverify.Verify(context.Background(), dir)
	if res != nil {
		_ = res.WriteSummary(g.out())
	}
	return err
}
