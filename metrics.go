package goConsole

import (
	"sync/atomic"
	"time"
)

// MetricID names one console counter.
type MetricID uint16

const (
	// MetricSessionPresent counts startup loads that found a well-formed record.
	MetricSessionPresent MetricID = iota
	// MetricSessionAbsent counts startup loads that found nothing.
	MetricSessionAbsent
	// MetricSessionMalformed counts startup loads that found an unreadable record.
	MetricSessionMalformed
	// MetricSessionUnavailable counts startup loads that could not reach storage.
	MetricSessionUnavailable
	// MetricRoleRejected counts records dropped because the role is not recognized.
	MetricRoleRejected
	MetricLoginSuccess
	MetricLoginFailure
	MetricLogout
	MetricSessionSaveFailure
	MetricSessionClearFailure
	MetricAccessDenied
	// MetricLoadLatency is the only histogram: time from Start to the view being published.
	MetricLoadLatency
	metricIDCount
)

var metricNames = [metricIDCount]string{
	MetricSessionPresent:      "session_present",
	MetricSessionAbsent:       "session_absent",
	MetricSessionMalformed:    "session_malformed",
	MetricSessionUnavailable:  "session_unavailable",
	MetricRoleRejected:        "role_rejected",
	MetricLoginSuccess:        "login_success",
	MetricLoginFailure:        "login_failure",
	MetricLogout:              "logout",
	MetricSessionSaveFailure:  "session_save_failure",
	MetricSessionClearFailure: "session_clear_failure",
	MetricAccessDenied:        "access_denied",
	MetricLoadLatency:         "load_latency",
}

func (id MetricID) String() string {
	if id >= metricIDCount {
		return "unknown"
	}
	return metricNames[id]
}

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

// HistogramBounds are the inclusive upper bounds of the first seven latency buckets;
// the eighth bucket is unbounded.
var HistogramBounds = [histBucketCount - 1]time.Duration{
	5 * time.Millisecond,
	10 * time.Millisecond,
	25 * time.Millisecond,
	50 * time.Millisecond,
	100 * time.Millisecond,
	250 * time.Millisecond,
	500 * time.Millisecond,
}

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics is a fixed set of lock-free counters plus the load-latency histogram.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics creates a [Metrics] per cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// Inc adds one to id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records d in the histogram for id. Only [MetricLoadLatency] has one.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id != MetricLoadLatency {
		return
	}
	atomic.AddUint64(&m.histograms[id].buckets[bucketIndex(d)], 1)
}

// Value returns the current count for id.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies every counter. Disabled metrics yield empty maps.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		if id == MetricLoadLatency {
			continue
		}
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricLoadLatency].buckets[i])
		}
		s.Histograms[MetricLoadLatency] = buckets
	}

	return s
}

func bucketIndex(d time.Duration) int {
	for i, bound := range HistogramBounds {
		if d <= bound {
			return i
		}
	}
	return histBucketCount - 1
}
