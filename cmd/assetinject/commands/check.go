package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/assetinject/internal/pipeline"
)

// CheckCmd implements the 'check' command: a dry run that reports whether
// every configured asset can be injected.
type CheckCmd struct{}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	p, _, err := newPipeline(cfg, "", pipeline.WithDryRun(true))
	if err != nil {
		return err
	}
	res, err := p.Run(context.Background())
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(g.Out, "OK: %d assets injectable (%d js, %d css)\n",
		len(cfg.Assets), len(res.Data.Assets.JS), len(res.Data.Assets.CSS))
	return nil
}
