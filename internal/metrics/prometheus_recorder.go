package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	assetResults   *prom.CounterVec
	assetBytes     *prom.HistogramVec
	sourcemaps     *prom.CounterVec
	injectDuration prom.Histogram
	runOutcomes    *prom.CounterVec
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
// A nil reg gets a private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		assetResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "assetinject",
			Name:      "asset_results_total",
			Help:      "Injected assets by type and result",
		}, []string{"type", "result"}),
		assetBytes: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "assetinject",
			Name:      "asset_bytes",
			Help:      "Size of registered assets",
			Buckets:   prom.ExponentialBuckets(1024, 4, 8),
		}, []string{"type"}),
		sourcemaps: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "assetinject",
			Name:      "sourcemap_results_total",
			Help:      "Sibling sourcemap registrations by result",
		}, []string{"result"}),
		injectDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "assetinject",
			Name:      "inject_duration_seconds",
			Help:      "Duration of a full injection run",
			Buckets:   prom.DefBuckets,
		}),
		runOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "assetinject",
			Name:      "run_outcomes_total",
			Help:      "Injection runs by final outcome",
		}, []string{"outcome"}),
	}
	reg.MustRegister(pr.assetResults, pr.assetBytes, pr.sourcemaps, pr.injectDuration, pr.runOutcomes)
	return pr
}

func (p *PrometheusRecorder) IncAssetResult(assetType string, result ResultLabel) {
	if p == nil {
		return
	}
	p.assetResults.WithLabelValues(assetType, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveAssetBytes(assetType string, n int) {
	if p == nil {
		return
	}
	p.assetBytes.WithLabelValues(assetType).Observe(float64(n))
}

func (p *PrometheusRecorder) IncSourcemap(result ResultLabel) {
	if p == nil {
		return
	}
	p.sourcemaps.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveInjectDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.injectDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(result ResultLabel) {
	if p == nil {
		return
	}
	p.runOutcomes.WithLabelValues(string(result)).Inc()
}
