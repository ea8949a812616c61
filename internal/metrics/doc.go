// Package metrics records build metrics behind a small Recorder interface.
//
// Builds receive a Recorder through their options. NoopRecorder is the
// default, so one-shot CLI builds carry no metrics overhead. The preview
// server injects a PrometheusRecorder and serves it on /metrics:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	http.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
