package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/cottonsite/cmd/cottonsite/commands"
	ferrors "git.home.luguber.info/inful/cottonsite/internal/foundation/errors"
	"git.home.luguber.info/inful/cottonsite/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("cottonsite"),
		kong.Description("Export the cotton-bs5 component showcase as a static site with relative links."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	err := ctx.Run(&commands.Global{Logger: slog.Default(), Out: os.Stdout}, cli)
	ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
