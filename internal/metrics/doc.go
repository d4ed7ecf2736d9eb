// Package metrics provides audit observability hooks.
//
// Components receive a Recorder and default to NoopRecorder, so metrics can
// be switched on without nil checks at call sites:
//
//	rec := metrics.NewPrometheusRecorder(prom.NewRegistry())
//	opts.Recorder = rec
//
// A PrometheusRecorder can write its registry in the node-exporter textfile
// format with WriteTextfile, which suits audits run from cron or CI.
package metrics
