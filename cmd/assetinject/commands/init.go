package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/assetinject/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Directory to write assetinject.yaml into (defaults to --config)"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	if i.Output != "" {
		return RunInit(g, filepath.Join(i.Output, "assetinject.yaml"), i.Force)
	}
	return RunInit(g, root.Config, i.Force)
}

func RunInit(g *Global, configPath string, force bool) error {
	_, _ = fmt.Fprintf(g.Out, "Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(g.Out, "initialized successfully")
	return nil
}
