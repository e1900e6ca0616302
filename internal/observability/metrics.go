package observability

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu            sync.Mutex
	started       time.Time
	requestCount  map[string]int64
	errorCount    map[string]int64
	totalDuration time.Duration
	total         int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		started:      time.Now(),
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.total++
	m.totalDuration += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RouteCount is the number of requests seen for one route and status.
type RouteCount struct {
	Route  string `json:"route"`
	Method string `json:"method"`
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	UptimeSeconds     int64        `json:"uptimeSeconds"`
	TotalRequests     int64        `json:"totalRequests"`
	AverageLatencyMs  float64      `json:"averageLatencyMs"`
	RequestsByRoute   []RouteCount `json:"requestsByRoute"`
	ErrorsByRouteCode []RouteCount `json:"errorsByCode"`
}

// Snapshot copies the current counters, busiest routes first.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		UptimeSeconds:     int64(time.Since(m.started).Seconds()),
		TotalRequests:     m.total,
		RequestsByRoute:   routeCounts(m.requestCount),
		ErrorsByRouteCode: routeCounts(m.errorCount),
	}
	if m.total > 0 {
		snap.AverageLatencyMs = float64(m.totalDuration.Microseconds()) / float64(m.total) / 1000
	}
	return snap
}

func routeCounts(counts map[string]int64) []RouteCount {
	out := make([]RouteCount, 0, len(counts))
	for key, n := range counts {
		parts := strings.SplitN(key, "|", 3)
		if len(parts) != 3 {
			continue
		}
		out = append(out, RouteCount{Route: parts[0], Method: parts[1], Status: parts[2], Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Route+out[i].Method+out[i].Status < out[j].Route+out[j].Method+out[j].Status
	})
	return out
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
