package inject

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"git.home.luguber.info/inful/assetinject/internal/compilation"
	ferrors "git.home.luguber.info/inful/assetinject/internal/foundation/errors"
	"git.home.luguber.info/inful/assetinject/internal/htmlplugin"
	"git.home.luguber.info/inful/assetinject/internal/logfields"
	"git.home.luguber.info/inful/assetinject/internal/metrics"
)

// Callback receives the outcome of an injection run together with the plugin
// data, which holds every path added before a failure.
type Callback func(err error, data *htmlplugin.PluginData)

// Injector runs asset injection with its logging and metrics dependencies.
type Injector struct {
	logger   *slog.Logger
	recorder metrics.Recorder
}

// Option configures an Injector.
type Option func(*Injector)

// WithLogger sets the logger. Nil keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(in *Injector) {
		if l != nil {
			in.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder. Nil keeps the no-op recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(in *Injector) {
		if r != nil {
			in.recorder = r
		}
	}
}

// New creates an Injector.
func New(opts ...Option) *Injector {
	in := &Injector{
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// AddAllAssetsToCompilation injects assets into c with a default Injector and
// reports the outcome through cb exactly once.
func AddAllAssetsToCompilation(ctx context.Context, assets []Asset, c *compilation.Compilation, data *htmlplugin.PluginData, cb Callback) {
	New().Run(ctx, assets, c, data, cb)
}

// Run is AddAll with completion reported through cb. A panic raised by the
// file adder is converted into an internal error.
func (in *Injector) Run(ctx context.Context, assets []Asset, c *compilation.Compilation, data *htmlplugin.PluginData, cb Callback) {
	err := in.addAllRecovered(ctx, assets, c, data)
	if cb != nil {
		cb(err, data)
	}
}

func (in *Injector) addAllRecovered(ctx context.Context, assets []Asset, c *compilation.Compilation, data *htmlplugin.PluginData) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ferrors.InternalError("asset injection panicked").
				WithContext("panic", fmt.Sprint(r)).
				Build()
		}
	}()
	return in.AddAll(ctx, assets, c, data)
}

// AddAll injects each asset in order and stops at the first failure.
func (in *Injector) AddAll(ctx context.Context, assets []Asset, c *compilation.Compilation, data *htmlplugin.PluginData) error {
	start := time.Now()
	logger := in.logger.With(logfields.BuildID(c.ID))
	defer func() {
		in.recorder.ObserveInjectDuration(time.Since(start))
	}()

	for i, asset := range assets {
		if err := ctx.Err(); err != nil {
			in.recorder.IncRunOutcome(metrics.ResultCanceled)
			return ferrors.WrapError(err, ferrors.CategoryCanceled, "asset injection canceled").
				WithContext("index", i).
				Build()
		}
		if err := in.AddFileToAssets(ctx, c, data, asset); err != nil {
			logger.Error("Asset injection failed",
				logfields.Index(i),
				logfields.Asset(asset.Filepath),
				logfields.Error(err))
			in.recorder.IncRunOutcome(metrics.ResultFailed)
			return err
		}
	}

	in.recorder.IncRunOutcome(metrics.ResultSuccess)
	logger.Info("Injected assets",
		logfields.Count(len(assets)),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return nil
}

// AddFileToAssets injects a single asset: register the file, compute its
// public path, prepend it to the list for its type, relocate it if requested
// and register its sourcemap.
func (in *Injector) AddFileToAssets(ctx context.Context, c *compilation.Compilation, data *htmlplugin.PluginData, asset Asset) error {
	assetType := asset.Type()

	if asset.Filepath == "" {
		err := ferrors.ValidationError("No filepath defined").Build()
		c.AddError(err)
		in.recorder.IncAssetResult(assetType.String(), metrics.ResultFailed)
		return err
	}
	if data == nil || data.Plugin == nil {
		return ferrors.InternalError("html plugin data has no file adder").Build()
	}

	name, err := data.Plugin.AddFileToAssets(ctx, asset.Filepath, c)
	if err != nil {
		in.recorder.IncAssetResult(assetType.String(), metrics.ResultFailed)
		return err
	}

	src, registered := c.Asset(name)
	if registered {
		in.recorder.ObserveAssetBytes(assetType.String(), src.Size())
	}

	suffix := ""
	if asset.Hash {
		if !registered {
			in.recorder.IncAssetResult(assetType.String(), metrics.ResultFailed)
			return ferrors.InternalError("registered asset missing from compilation").
				WithContext("asset", name).
				Build()
		}
		suffix = HashSuffix(src.Bytes())
	}

	var prefix string
	if asset.PublicPath == nil {
		prefix = ResolvePublicPath(c, name)
	} else {
		prefix = EnsureTrailingSlash(*asset.PublicPath)
	}
	publicPath := prefix + name + suffix

	if err := data.Assets.Prepend(assetType, publicPath); err != nil {
		in.recorder.IncAssetResult(assetType.String(), metrics.ResultFailed)
		return err
	}

	if err := resolveOutput(c, name, asset.OutputPath); err != nil {
		in.recorder.IncAssetResult(assetType.String(), metrics.ResultFailed)
		return err
	}

	in.logger.Debug("Injected asset",
		logfields.Asset(asset.Filepath),
		logfields.AssetType(assetType.String()),
		logfields.OutputName(name),
		logfields.PublicPath(publicPath),
		logfields.Hash(suffix),
		logfields.OutputPath(asset.OutputPath))
	in.recorder.IncAssetResult(assetType.String(), metrics.ResultSuccess)

	if !asset.WantsSourcemap() {
		in.recorder.IncSourcemap(metrics.ResultSkipped)
		return nil
	}

	mapName, err := data.Plugin.AddFileToAssets(ctx, asset.Filepath+".map", c)
	if err != nil {
		in.recorder.IncSourcemap(metrics.ResultFailed)
		return err
	}
	if err := resolveOutput(c, mapName, asset.OutputPath); err != nil {
		in.recorder.IncSourcemap(metrics.ResultFailed)
		return err
	}
	in.recorder.IncSourcemap(metrics.ResultSuccess)
	return nil
}

// resolveOutput moves name under outputPath in the asset map. Trailing
// slashes on outputPath are ignored; an empty outputPath is a no-op.
func resolveOutput(c *compilation.Compilation, name, outputPath string) error {
	dir := strings.TrimRight(outputPath, "/")
	if dir == "" {
		return nil
	}
	return c.RenameAsset(name, relocatedName(dir, name))
}
