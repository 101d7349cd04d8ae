package goJWE

import (
	"errors"
	"sync/atomic"
	"time"
)

// MetricID identifies one in-process counter or histogram.
type MetricID uint16

const (
	MetricIssueSuccess MetricID = iota
	MetricIssueFailure
	MetricVerifySuccess

	// One counter per verification failure kind.
	MetricVerifyInvalidToken
	MetricVerifyInvalidHeader
	MetricVerifyNoKey
	MetricVerifyTampering
	MetricVerifyUnparsable
	MetricVerifyMissingClaims
	MetricVerifyNotYetValid
	MetricVerifyExpired
	MetricVerifyInvalidAudience
	MetricVerifyRevoked
	MetricVerifyRevocationUnavailable

	MetricKeyReified
	MetricTokenRevoked

	// Histograms.
	MetricIssueLatency
	MetricVerifyLatency

	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds lock-free counters and fixed-bucket latency histograms.
// A nil or disabled *Metrics records nothing.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of all metric values. Histogram
// slices hold per-bucket (not cumulative) counts for the 5, 10, 25, 50, 100,
// 250, 500 ms and +Inf buckets.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

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

// Inc adds one to a counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records d in a latency histogram. Non-histogram ids are ignored.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enableLatency || !isHistogram(id) {
		return
	}
	atomic.AddUint64(&m.histograms[id].buckets[bucketIndex(d)], 1)
}

func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return emptySnapshot()
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 2),
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		if isHistogram(id) {
			continue
		}
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		for _, id := range []MetricID{MetricIssueLatency, MetricVerifyLatency} {
			buckets := make([]uint64, histBucketCount)
			for i := range buckets {
				buckets[i] = atomic.LoadUint64(&m.histograms[id].buckets[i])
			}
			s.Histograms[id] = buckets
		}
	}
	return s
}

func emptySnapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Counters:   map[MetricID]uint64{},
		Histograms: map[MetricID][]uint64{},
	}
}

func isHistogram(id MetricID) bool {
	return id == MetricIssueLatency || id == MetricVerifyLatency
}

func bucketIndex(d time.Duration) int {
	ms := d.Milliseconds()

	switch {
	case ms <= 5:
		return 0
	case ms <= 10:
		return 1
	case ms <= 25:
		return 2
	case ms <= 50:
		return 3
	case ms <= 100:
		return 4
	case ms <= 250:
		return 5
	case ms <= 500:
		return 6
	default:
		return 7
	}
}

// verifyFailureMetric maps a verification error to its counter.
func verifyFailureMetric(err error) (MetricID, bool) {
	switch {
	case errors.Is(err, ErrInvalidTokenString):
		return MetricVerifyInvalidToken, true
	case errors.Is(err, ErrInvalidHeader):
		return MetricVerifyInvalidHeader, true
	case errors.Is(err, ErrNoEncryptionKey):
		return MetricVerifyNoKey, true
	case errors.Is(err, ErrSuspectedTampering):
		return MetricVerifyTampering, true
	case errors.Is(err, ErrUnparsablePayload):
		return MetricVerifyUnparsable, true
	case errors.Is(err, ErrMissingClaims):
		return MetricVerifyMissingClaims, true
	case errors.Is(err, ErrTokenNotYetValid):
		return MetricVerifyNotYetValid, true
	case errors.Is(err, ErrTokenExpired):
		return MetricVerifyExpired, true
	case errors.Is(err, ErrInvalidAudience):
		return MetricVerifyInvalidAudience, true
	case errors.Is(err, ErrTokenRevoked):
		return MetricVerifyRevoked, true
	case errors.Is(err, ErrRevocationUnavailable):
		return MetricVerifyRevocationUnavailable, true
	}
	return 0, false
}
