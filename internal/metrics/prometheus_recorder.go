package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "navaudit"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry       *prom.Registry
	stageDuration  *prom.HistogramVec
	auditDuration  prom.Histogram
	findings       *prom.GaugeVec
	documentErrors prom.Counter
	lastRun        prom.Gauge
}

// NewPrometheusRecorder constructs the audit metrics and registers them on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual audit stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		auditDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "audit_duration_seconds",
			Help:      "Total audit duration",
			Buckets:   prom.DefBuckets,
		}),
		findings: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "findings",
			Help:      "Findings of the last audit by category",
		}, []string{"category"}),
		documentErrors: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "document_errors_total",
			Help:      "Documents that could not be read or parsed",
		}),
		lastRun: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last audit finished",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.auditDuration, pr.findings, pr.documentErrors, pr.lastRun)
	return pr
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.registry }

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveAuditDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.auditDuration.Observe(d.Seconds())
	p.lastRun.SetToCurrentTime()
}

func (p *PrometheusRecorder) SetFindings(category string, n int) {
	if p == nil {
		return
	}
	p.findings.WithLabelValues(category).Set(float64(n))
}

func (p *PrometheusRecorder) IncDocumentErrors() {
	if p == nil {
		return
	}
	p.documentErrors.Inc()
}
