package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/cottonsite/internal/build"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output        string `short:"o" help:"Output directory (defaults to output.directory)"`
	Force         bool   `short:"f" help:"Allow writing into a non-empty output directory"`
	CollectStatic bool   `name:"collect-static" negatable:"" default:"true" help:"Copy shared assets into <output>/static"`
	Verify        bool   `help:"Check every relative link of the written site"`
	MetricsFile   string `name:"metrics-file" help:"Write build metrics in Prometheus text format to this file"`
	TraceFile     string `name:"trace-file" type:"path" help:"Write OpenTelemetry spans of the build as JSON lines to this file"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	out := g.out()
	res, err := build.NewBuildService().Run(ctx, build.BuildRequest{
		Config:    cfg,
		OutputDir: b.Output,
		Options: build.BuildOptions{
			Force:       b.Force,
			SkipAssets:  !b.CollectStatic,
			Verify:      b.Verify,
			MetricsFile: b.MetricsFile,
			TraceFile:   b.TraceFile,
		},
	})
	if res != nil && res.Report != nil {
		_ = res.Report.WriteSummary(out)
	}
	if res != nil && res.Verify != nil {
		_ = res.Verify.WriteSummary(out)
	}
	if err != nil {
		_, _ = fmt.Fprintln(out, "Build failed")
		return err
	}
	_, _ = fmt.Fprintf(out, "Site written to %s\n", res.OutputPath)
	return nil
}
