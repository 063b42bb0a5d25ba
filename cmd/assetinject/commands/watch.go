package commands

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	ferrors "git.home.luguber.info/inful/assetinject/internal/foundation/errors"
	"git.home.luguber.info/inful/assetinject/internal/logfields"
	"git.home.luguber.info/inful/assetinject/internal/metrics"
	"git.home.luguber.info/inful/assetinject/internal/pipeline"
	"git.home.luguber.info/inful/assetinject/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Output      string        `short:"o" help:"Output directory (overrides output.directory)" type:"path"`
	Debounce    time.Duration `help:"Delay before re-running after a change" default:"300ms"`
	MetricsAddr string        `name:"metrics-addr" help:"Serve Prometheus metrics on this address (e.g. :9102)"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if w.MetricsAddr != "" {
		reg := prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		stop, err := serveMetrics(w.MetricsAddr, reg)
		if err != nil {
			return err
		}
		defer stop()
	}

	watcher, err := watch.New(w.runFunc(g, root, recorder), w.Debounce, slog.Default())
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to start watcher").Build()
	}
	defer func() {
		_ = watcher.Close()
	}()

	slog.Info("Watching for changes", logfields.Path(root.Config))
	return watcher.Run(ctx)
}

// runFunc reloads the configuration on every run so edits to it take effect.
// The config file is always part of the returned watch set.
func (w *WatchCmd) runFunc(g *Global, root *CLI, recorder metrics.Recorder) watch.RunFunc {
	return func(ctx context.Context) ([]string, error) {
		files := []string{root.Config}

		cfg, err := loadConfig(root)
		if err != nil {
			return files, err
		}
		p, _, err := newPipeline(cfg, w.Output, pipeline.WithRecorder(recorder))
		if err != nil {
			return files, err
		}
		res, err := p.Run(ctx)
		files = append(files, res.Dependencies()...)
		if err != nil {
			return files, err
		}
		printResult(g.Out, res)
		return files, nil
	}
}

// serveMetrics starts the /metrics endpoint and returns a function that
// shuts it down.
func serveMetrics(addr string, reg *prom.Registry) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to listen for metrics").
			WithContext("addr", addr).
			Build()
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	srv := &http.Server{Handler: mux, ReadTimeout: 30 * time.Second, WriteTimeout: 30 * time.Second, IdleTimeout: 120 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", logfields.Error(err))
		}
	}()
	slog.Info("Serving metrics", slog.String("addr", ln.Addr().String()))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Warn("Metrics server shutdown", logfields.Error(err))
		}
	}, nil
}
