// Package metrics records build, stage and page metrics.
//
// Components receive a Recorder by injection and default to NoopRecorder, so
// call sites never check for nil:
//
//	drv := render.Driver{Recorder: metrics.NoopRecorder{}}
//
// The CLI swaps in a PrometheusRecorder when a textfile path is configured and
// writes the gathered registry with WriteTextfile after the build. The preview
// server exposes the same registry over HTTP with HTTPHandler.
package metrics
