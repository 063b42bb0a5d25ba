package metrics

import (
	"testing"
	"time"
)

// Compile-time interface checks.
var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncAssetResult("js", ResultSuccess)
	r.ObserveAssetBytes("css", 10)
	r.IncSourcemap(ResultSkipped)
	r.ObserveInjectDuration(time.Millisecond)
	r.IncRunOutcome(ResultFailed)
}
