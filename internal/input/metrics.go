package input

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

const latencySamples = 1000

// Metrics tracks key handling counts and latency.
type Metrics struct {
	keys        atomic.Uint64
	consumed    atomic.Uint64
	passthrough atomic.Uint64
	commands    atomic.Uint64
	errors      atomic.Uint64
	hookHits    atomic.Uint64

	peakLatency atomic.Int64

	mu        sync.Mutex
	latencies []time.Duration
	next      int
	startTime time.Time
}

// NewMetrics creates a metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{
		latencies: make([]time.Duration, 0, latencySamples),
		startTime: time.Now(),
	}
}

// RecordKey records one handled key.
func (m *Metrics) RecordKey(latency time.Duration, res Result) {
	m.keys.Add(1)
	if res.Consumed {
		m.consumed.Add(1)
	} else {
		m.passthrough.Add(1)
	}
	if res.Err != nil {
		m.errors.Add(1)
	}

	ns := latency.Nanoseconds()
	for {
		cur := m.peakLatency.Load()
		if ns <= cur || m.peakLatency.CompareAndSwap(cur, ns) {
			break
		}
	}

	m.mu.Lock()
	if len(m.latencies) < latencySamples {
		m.latencies = append(m.latencies, latency)
	} else {
		m.latencies[m.next] = latency
	}
	m.next = (m.next + 1) % latencySamples
	m.mu.Unlock()
}

// RecordCommand records a completed command.
func (m *Metrics) RecordCommand() {
	m.commands.Add(1)
}

// RecordHookConsumption records a key consumed by a hook.
func (m *Metrics) RecordHookConsumption() {
	m.hookHits.Add(1)
}

// MetricsSnapshot holds a point-in-time view of metrics.
type MetricsSnapshot struct {
	Keys             uint64
	Consumed         uint64
	Passthrough      uint64
	Commands         uint64
	Errors           uint64
	HookConsumptions uint64

	AvgLatency  time.Duration
	P99Latency  time.Duration
	PeakLatency time.Duration

	Uptime time.Duration
}

// Snapshot returns a point-in-time view of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	samples := slices.Clone(m.latencies)
	uptime := time.Since(m.startTime)
	m.mu.Unlock()

	snap := MetricsSnapshot{
		Keys:             m.keys.Load(),
		Consumed:         m.consumed.Load(),
		Passthrough:      m.passthrough.Load(),
		Commands:         m.commands.Load(),
		Errors:           m.errors.Load(),
		HookConsumptions: m.hookHits.Load(),
		PeakLatency:      time.Duration(m.peakLatency.Load()),
		Uptime:           uptime,
	}
	snap.AvgLatency, snap.P99Latency = latencyStats(samples)
	return snap
}

// latencyStats computes the average and 99th percentile of samples.
func latencyStats(samples []time.Duration) (avg, p99 time.Duration) {
	if len(samples) == 0 {
		return 0, 0
	}
	var sum time.Duration
	for _, l := range samples {
		sum += l
	}
	slices.Sort(samples)
	idx := min(int(float64(len(samples))*0.99), len(samples)-1)
	return sum / time.Duration(len(samples)), samples[idx]
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.keys.Store(0)
	m.consumed.Store(0)
	m.passthrough.Store(0)
	m.commands.Store(0)
	m.errors.Store(0)
	m.hookHits.Store(0)
	m.peakLatency.Store(0)

	m.mu.Lock()
	m.latencies = m.latencies[:0]
	m.next = 0
	m.startTime = time.Now()
	m.mu.Unlock()
}
