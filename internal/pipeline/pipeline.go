// Package pipeline wires configuration, compilation, injection and output
// into a single run.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-git/go-billy/v5"

	"git.home.luguber.info/inful/assetinject/internal/compilation"
	"git.home.luguber.info/inful/assetinject/internal/config"
	"git.home.luguber.info/inful/assetinject/internal/htmlplugin"
	"git.home.luguber.info/inful/assetinject/internal/inject"
	"git.home.luguber.info/inful/assetinject/internal/logfields"
	"git.home.luguber.info/inful/assetinject/internal/manifest"
	"git.home.luguber.info/inful/assetinject/internal/metrics"
)

// Result is everything a run produced, including partial state after a failure.
type Result struct {
	Compilation *compilation.Compilation
	Data        *htmlplugin.PluginData
	Manifest    *manifest.AssetManifest
}

// Dependencies returns the input files the run read, for watching.
func (r *Result) Dependencies() []string {
	if r == nil || r.Compilation == nil {
		return nil
	}
	return r.Compilation.FileDependencies
}

// Pipeline runs injection for one configuration.
type Pipeline struct {
	cfg      *config.Config
	source   billy.Filesystem
	output   billy.Filesystem
	logger   *slog.Logger
	recorder metrics.Recorder
	dryRun   bool
	clean    func() error
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder passed to the injector.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithDryRun skips emitting assets and the manifest.
func WithDryRun(dry bool) Option {
	return func(p *Pipeline) { p.dryRun = dry }
}

// WithCleaner sets a function run after a successful injection and before
// anything is written, typically to clear the output directory.
func WithCleaner(fn func() error) Option {
	return func(p *Pipeline) { p.clean = fn }
}

// New creates a Pipeline. source resolves cfg.Context and cfg.BundleDir;
// output receives the emitted assets and manifest.
func New(cfg *config.Config, source, output billy.Filesystem, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:      cfg,
		source:   source,
		output:   output,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run seeds a compilation from the bundle directory, injects the configured
// assets and, unless dry, emits the compilation and its manifest. Nothing is
// written when injection fails.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	c := compilation.New(p.cfg.Context, compilation.Options{
		Output: compilation.OutputOptions{PublicPath: p.cfg.Output.PublicPath},
	})
	logger := p.logger.With(logfields.BuildID(c.ID))
	data := htmlplugin.NewPluginData(htmlplugin.NewFSFileAdder(p.source, logger))
	res := &Result{Compilation: c, Data: data}

	if p.cfg.BundleDir != "" {
		if err := c.LoadFS(ctx, p.source, p.cfg.BundleDir); err != nil {
			return res, err
		}
		logger.Info("Loaded bundle", logfields.Path(p.cfg.BundleDir), logfields.Count(len(c.Assets)))
	}

	injector := inject.New(inject.WithLogger(logger), inject.WithRecorder(p.recorder))
	var runErr error
	injector.Run(ctx, p.cfg.Assets, c, data, func(err error, _ *htmlplugin.PluginData) {
		runErr = err
	})
	res.Manifest = manifest.New(c, data, runErr, time.Since(start))
	if runErr != nil {
		return res, runErr
	}

	if p.dryRun {
		logger.Info("Dry run, skipping output", logfields.Count(len(c.Assets)))
		return res, nil
	}

	if p.clean != nil {
		if err := p.clean(); err != nil {
			return res, err
		}
	}
	if err := c.Emit(ctx, p.output, logger); err != nil {
		return res, err
	}
	if err := res.Manifest.Write(p.output, p.cfg.Output.Manifest); err != nil {
		return res, err
	}
	logger.Info("Wrote output",
		logfields.Count(len(c.Assets)),
		logfields.Path(p.cfg.Output.Manifest))
	return res, nil
}
