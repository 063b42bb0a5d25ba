package metrics

import "time"

// ResultLabel enumerates per-asset result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultSkipped  ResultLabel = "skipped"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for injection metrics.
type Recorder interface {
	IncAssetResult(assetType string, result ResultLabel)
	ObserveAssetBytes(assetType string, n int)
	IncSourcemap(result ResultLabel)
	ObserveInjectDuration(d time.Duration)
	IncRunOutcome(result ResultLabel)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncAssetResult(string, ResultLabel)  {}
func (NoopRecorder) ObserveAssetBytes(string, int)       {}
func (NoopRecorder) IncSourcemap(ResultLabel)            {}
func (NoopRecorder) ObserveInjectDuration(time.Duration) {}
func (NoopRecorder) IncRunOutcome(ResultLabel)           {}
