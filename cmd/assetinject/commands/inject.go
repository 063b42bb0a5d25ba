package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/assetinject/internal/config"
	"git.home.luguber.info/inful/assetinject/internal/pipeline"
)

// InjectCmd implements the 'inject' command.
type InjectCmd struct {
	Output string `short:"o" help:"Output directory (overrides output.directory)" type:"path"`
	DryRun bool   `name:"dry-run" help:"Run the injection without writing any file"`
	Quiet  bool   `short:"q" help:"Do not print the injected public paths"`
}

func (i *InjectCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return RunInject(ctx, g, cfg, i.Output, i.DryRun, i.Quiet)
}

// RunInject performs one injection run for cfg.
func RunInject(ctx context.Context, g *Global, cfg *config.Config, outputDir string, dryRun, quiet bool) error {
	p, outputDir, err := newPipeline(cfg, outputDir, pipeline.WithDryRun(dryRun))
	if err != nil {
		return err
	}

	res, err := p.Run(ctx)
	if err != nil {
		return err
	}

	if !quiet {
		printResult(g.Out, res)
	}
	if !dryRun {
		_, _ = fmt.Fprintf(g.Out, "Wrote %d assets to %s\n", len(res.Compilation.Assets), outputDir)
	}
	return nil
}
