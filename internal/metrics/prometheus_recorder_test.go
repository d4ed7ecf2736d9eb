package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("scan", 150*time.Millisecond)
	pr.ObserveAuditDuration(500 * time.Millisecond)
	pr.SetFindings("ghost", 3)
	pr.SetFindings("broken_links", 0)
	pr.IncDocumentErrors()
	pr.IncDocumentErrors()

	require.InDelta(t, 3, testutil.ToFloat64(pr.findings.WithLabelValues("ghost")), 0)
	require.InDelta(t, 2, testutil.ToFloat64(pr.documentErrors), 0)
	require.Equal(t, 1, testutil.CollectAndCount(pr.stageDuration))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.SetFindings("nav_missing", 1)

	path := filepath.Join(t.TempDir(), "navaudit.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), `navaudit_findings{category="nav_missing"} 1`), string(data))
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("scan", time.Second)
	r.ObserveAuditDuration(time.Second)
	r.SetFindings("ghost", 1)
	r.IncDocumentErrors()
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.SetFindings("ghost", 1)
	pr.IncDocumentErrors()
	pr.ObserveAuditDuration(time.Second)
	pr.ObserveStageDuration("scan", time.Second)
}
