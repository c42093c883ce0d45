// Package metrics records HTML post-processing outcomes.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default; PrometheusRecorder collects counters that WriteTextfile dumps
// in the Prometheus text format for a node-exporter textfile collector.
//
//	reg := prometheus.NewRegistry()
//	recorder := metrics.NewPrometheusRecorder(reg)
//	fixer := fixhtml.New(cfg, logger).WithRecorder(recorder)
//	...
//	err := metrics.WriteTextfile(path, reg)
package metrics
