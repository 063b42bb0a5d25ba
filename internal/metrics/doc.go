// Package metrics provides observability hooks for asset injection runs.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no call site needs a nil check:
//
//	injector := inject.New(inject.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// The CLI exposes the Prometheus registry over HTTP when --metrics-addr is set.
package metrics
