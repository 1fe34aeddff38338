package monitoring

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Metric names emitted by MetricsObservabilityHook.
const (
	MetricStarted   = "magicjson.process.started"
	MetricSucceeded = "magicjson.process.succeeded"
	MetricFailed    = "magicjson.process.failed"
	MetricDuration  = "magicjson.process.duration"
	MetricBytes     = "magicjson.process.bytes"
	MetricErrors    = "magicjson.errors"
)

// MetricsCollector defines the interface for collecting and reporting metrics
type MetricsCollector interface {
	IncrementCounter(name string, tags map[string]string)
	RecordTiming(name string, duration time.Duration, tags map[string]string)
	RecordValue(name string, value float64, tags map[string]string)
}

// NoOpMetricsCollector is a no-op implementation of MetricsCollector
type NoOpMetricsCollector struct{}

func (n *NoOpMetricsCollector) IncrementCounter(name string, tags map[string]string) {}
func (n *NoOpMetricsCollector) RecordTiming(name string, duration time.Duration, tags map[string]string) {
}
func (n *NoOpMetricsCollector) RecordValue(name string, value float64, tags map[string]string) {}

// InMemoryMetricsCollector keeps every metric in memory, one series per name
// and tag set. It backs the command line --stats summary and tests.
type InMemoryMetricsCollector struct {
	mu     sync.RWMutex
	series map[string]*series
}

type series struct {
	count   int64
	timings []time.Duration
	values  []float64
}

// NewInMemoryMetricsCollector creates a new in-memory metrics collector
func NewInMemoryMetricsCollector() *InMemoryMetricsCollector {
	return &InMemoryMetricsCollector{series: make(map[string]*series)}
}

// record runs fn on the series for name and tags under the write lock.
func (m *InMemoryMetricsCollector) record(name string, tags map[string]string, fn func(*series)) {
	key := metricKey(name, tags)
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.series[key]
	if !ok {
		s = &series{}
		m.series[key] = s
	}
	fn(s)
}

// lookup returns a copy of the series for name and tags.
func (m *InMemoryMetricsCollector) lookup(name string, tags map[string]string) series {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.series[metricKey(name, tags)]
	if !ok {
		return series{}
	}
	return series{
		count:   s.count,
		timings: append([]time.Duration(nil), s.timings...),
		values:  append([]float64(nil), s.values...),
	}
}

func (m *InMemoryMetricsCollector) IncrementCounter(name string, tags map[string]string) {
	m.record(name, tags, func(s *series) { s.count++ })
}

func (m *InMemoryMetricsCollector) RecordTiming(name string, duration time.Duration, tags map[string]string) {
	m.record(name, tags, func(s *series) { s.timings = append(s.timings, duration) })
}

func (m *InMemoryMetricsCollector) RecordValue(name string, value float64, tags map[string]string) {
	m.record(name, tags, func(s *series) { s.values = append(s.values, value) })
}

// GetCounter returns the value of a counter
func (m *InMemoryMetricsCollector) GetCounter(name string, tags map[string]string) int64 {
	return m.lookup(name, tags).count
}

// GetTimings returns all recorded timings in order
func (m *InMemoryMetricsCollector) GetTimings(name string, tags map[string]string) []time.Duration {
	return m.lookup(name, tags).timings
}

// GetValues returns all recorded values in order
func (m *InMemoryMetricsCollector) GetValues(name string, tags map[string]string) []float64 {
	return m.lookup(name, tags).values
}

// Reset clears all metrics
func (m *InMemoryMetricsCollector) Reset() {
	m.mu.Lock()
	m.series = make(map[string]*series)
	m.mu.Unlock()
}

// MetricSummary aggregates one series.
type MetricSummary struct {
	// Key is the metric name followed by its sorted tags, e.g.
	// magicjson.process.succeeded,operation=encode,type=db.Employee
	Key       string
	Count     int64
	Timings   int
	TotalTime time.Duration
	Values    int
	Sum       float64
}

// Snapshot summarizes every series, sorted by key.
func (m *InMemoryMetricsCollector) Snapshot() []MetricSummary {
	m.mu.RLock()
	summaries := make([]MetricSummary, 0, len(m.series))
	for key, s := range m.series {
		sum := MetricSummary{Key: key, Count: s.count, Timings: len(s.timings), Values: len(s.values)}
		for _, d := range s.timings {
			sum.TotalTime += d
		}
		for _, v := range s.values {
			sum.Sum += v
		}
		summaries = append(summaries, sum)
	}
	m.mu.RUnlock()

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Key < summaries[j].Key })
	return summaries
}

// metricKey joins name and tags sorted by tag name: name,k1=v1,k2=v2.
func metricKey(name string, tags map[string]string) string {
	if len(tags) == 0 {
		return name
	}

	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(name)
	for _, k := range keys {
		b.WriteByte(',')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(tags[k])
	}
	return b.String()
}
