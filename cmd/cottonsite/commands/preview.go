package commands

import (
	"context"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/cottonsite/internal/preview"
)

// PreviewCmd serves the site locally and rebuilds it on changes.
type PreviewCmd struct {
	Addr    string `name:"addr" help:"Listen address (defaults to preview.addr)"`
	Output  string `short:"o" name:"output" help:"Output directory (defaults to output.directory)"`
	NoWatch bool   `name:"no-watch" help:"Serve without watching templates and assets"`
}

func (p *PreviewCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	// Setup signal-based context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return preview.StartLocalPreview(ctx, cfg, preview.Options{
		Addr:      p.Addr,
		OutputDir: p.Output,
		Watch:     cfg.Preview.ShouldWatch() && !p.NoWatch,
	})
}
