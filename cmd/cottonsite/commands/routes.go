package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"git.home.luguber.info/inful/cottonsite/internal/build"
	"git.home.luguber.info/inful/cottonsite/internal/site"
)

// RoutesCmd prints the page table without rendering anything.
type RoutesCmd struct{}

func (r *RoutesCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	pages, err := build.Expand(context.Background(), cfg, site.TemplatesFS(cfg))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(g.out(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ROUTE\tPAGE\tVARIANT\tTEMPLATE\tOUTPUT")
	for _, p := range pages {
		variant := p.VariantKey
		if variant == "" {
			variant = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.Route, p.Name, variant, p.Template, p.OutputPath)
	}
	return tw.Flush()
}
