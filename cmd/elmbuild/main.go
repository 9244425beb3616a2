package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/elmbuild/cmd/elmbuild/commands"
	"git.home.luguber.info/inful/elmbuild/internal/errors"
	"git.home.luguber.info/inful/elmbuild/internal/version"
)

func main() {
	var cli commands.CLI
	parser := kong.Must(&cli,
		kong.Name("elmbuild"),
		kong.Description("Transform the generated Elm script and publish it to the docs directory."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if err := ctx.Run(commands.NewGlobal(), &cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
