package metrics

import (
	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	fileResults *prom.CounterVec
	rewrites    *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the counters on reg. A nil
// registry gets a private one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		fileResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "doxyphp",
			Subsystem: "fixhtml",
			Name:      "files_total",
			Help:      "HTML files seen by the post-processor, by outcome",
		}, []string{"status"}),
		rewrites: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "doxyphp",
			Subsystem: "fixhtml",
			Name:      "rewrites_total",
			Help:      "Nodes rewritten, by selector query",
		}, []string{"query"}),
	}
	reg.MustRegister(pr.fileResults, pr.rewrites)
	return pr
}

func (p *PrometheusRecorder) IncFileResult(status StatusLabel) {
	if p == nil || p.fileResults == nil {
		return
	}
	p.fileResults.WithLabelValues(string(status)).Inc()
}

func (p *PrometheusRecorder) AddRewrites(query string, n int) {
	if p == nil || p.rewrites == nil || n <= 0 {
		return
	}
	p.rewrites.WithLabelValues(query).Add(float64(n))
}

// WriteTextfile writes every metric gathered from g to path in the
// Prometheus text exposition format. The file is replaced atomically.
func WriteTextfile(path string, g prom.Gatherer) error {
	return prom.WriteToTextfile(path, g)
}
