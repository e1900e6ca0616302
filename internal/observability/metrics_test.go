package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/jobs", "GET", 200, 2*time.Millisecond)
	m.RecordRequest("/api/jobs", "GET", 200, 4*time.Millisecond)
	m.RecordRequest("/api/auth/login", "POST", 401, 6*time.Millisecond)
	m.RecordError("/api/auth/login", "POST", "UNAUTHORIZED")

	snap := m.Snapshot()
	assert.Equal(t, int64(3), snap.TotalRequests)
	assert.InDelta(t, 4.0, snap.AverageLatencyMs, 0.001)
	require.Len(t, snap.RequestsByRoute, 2)
	assert.Equal(t, RouteCount{Route: "/api/jobs", Method: "GET", Status: "200", Count: 2}, snap.RequestsByRoute[0])
	require.Len(t, snap.ErrorsByRouteCode, 1)
	assert.Equal(t, "UNAUTHORIZED", snap.ErrorsByRouteCode[0].Status)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	assert.Equal(t, Snapshot{}, m.Snapshot())
}
