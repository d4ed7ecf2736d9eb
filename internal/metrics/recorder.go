package metrics

import "time"

// Recorder defines observability hooks for an audit run.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveAuditDuration(d time.Duration)
	SetFindings(category string, n int)
	IncDocumentErrors()
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveAuditDuration(time.Duration)         {}
func (NoopRecorder) SetFindings(string, int)                    {}
func (NoopRecorder) IncDocumentErrors()                         {}
