package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/go-git/go-billy/v5/osfs"

	"git.home.luguber.info/inful/assetinject/internal/config"
	ferrors "git.home.luguber.info/inful/assetinject/internal/foundation/errors"
	"git.home.luguber.info/inful/assetinject/internal/htmlplugin"
	"git.home.luguber.info/inful/assetinject/internal/logfields"
	"git.home.luguber.info/inful/assetinject/internal/pipeline"
)

// Global is shared with every command's Run method.
type Global struct {
	Out io.Writer
}

// NewGlobal returns a Global printing to stdout.
func NewGlobal() *Global {
	return &Global{Out: os.Stdout}
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"assetinject.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Inject InjectCmd `cmd:"" default:"1" help:"Inject configured assets and write the output directory"`
	Init   InitCmd   `cmd:"" help:"Initialize a new configuration file"`
	Watch  WatchCmd  `cmd:"" help:"Inject, then re-inject whenever an input file changes"`
	Check  CheckCmd  `cmd:"" help:"Validate the configuration and asset files without writing"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(config.NewLogger(os.Stderr, config.LoggingConfig{}, c.Verbose))
	return nil
}

// loadConfig loads the configuration and swaps the default logger for one
// honoring its logging section.
func loadConfig(root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(config.NewLogger(os.Stderr, cfg.Logging, root.Verbose))
	return cfg, nil
}

// resolvePaths makes the context and bundle directory absolute, relative to
// the working directory.
func resolvePaths(cfg *config.Config) error {
	for _, p := range []*string{&cfg.Context, &cfg.BundleDir} {
		if *p == "" {
			continue
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryConfig, "failed to resolve path").
				WithContext("path", *p).
				Build()
		}
		*p = abs
	}
	return nil
}

// newPipeline builds a pipeline reading from the host filesystem and writing
// to outputDir. An empty outputDir uses the configured directory.
func newPipeline(cfg *config.Config, outputDir string, opts ...pipeline.Option) (*pipeline.Pipeline, string, error) {
	if err := resolvePaths(cfg); err != nil {
		return nil, "", err
	}
	if outputDir == "" {
		outputDir = cfg.Output.Directory
	}
	outputDir, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, "", ferrors.WrapError(err, ferrors.CategoryConfig, "failed to resolve output directory").
			WithContext("path", outputDir).
			Build()
	}

	if cfg.Output.Clean {
		opts = append(opts, pipeline.WithCleaner(func() error { return cleanDir(outputDir) }))
	}
	opts = append([]pipeline.Option{pipeline.WithLogger(slog.Default())}, opts...)

	return pipeline.New(cfg, osfs.New("/"), osfs.New(outputDir), opts...), outputDir, nil
}

func cleanDir(dir string) error {
	slog.Info("Cleaning output directory", logfields.Path(dir))
	if err := os.RemoveAll(dir); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to clean output directory").
			WithContext("path", dir).
			Build()
	}
	return nil
}

// printResult writes the injected public paths, one per line.
func printResult(w io.Writer, res *pipeline.Result) {
	for _, t := range []htmlplugin.AssetType{htmlplugin.AssetTypeJS, htmlplugin.AssetTypeCSS} {
		for _, p := range res.Data.Assets.List(t) {
			_, _ = fmt.Fprintf(w, "%-3s %s\n", t, p)
		}
	}
}
