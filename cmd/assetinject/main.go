package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/assetinject/cmd/assetinject/commands"
	ferrors "git.home.luguber.info/inful/assetinject/internal/foundation/errors"
	"git.home.luguber.info/inful/assetinject/internal/version"
)

func main() {
	var cli commands.CLI
	parser := kong.Parse(&cli,
		kong.Name("assetinject"),
		kong.Description("Inject script, stylesheet and sourcemap files into a bundle for the HTML step."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	global := commands.NewGlobal()
	err := parser.Run(global, &cli)
	ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
