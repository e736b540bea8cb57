// Package stats provides a minimal scoped metrics receiver backed by
// go-metrics. A StatsReceiver is passed down a call tree and scoped at each
// level; hierarchical names use a '/' separator. Callers that don't care
// about metrics use NilStatsReceiver, which registers nothing.
package stats

import (
	"strings"
	"time"

	"github.com/rcrowley/go-metrics"
)

// Counter is a monotonically increasing count.
type Counter interface {
	Inc(delta int64)
	Count() int64
}

// Latency records elapsed durations.
type Latency interface {
	Time(d time.Duration)
}

// StatsReceiver provides counters and latency instruments under a scope.
type StatsReceiver interface {
	// Scope returns a receiver with the given scope elements appended.
	Scope(scope ...string) StatsReceiver

	Counter(name ...string) Counter

	Latency(name ...string) Latency
}

// NewStatsReceiver returns a receiver backed by a fresh go-metrics registry.
func NewStatsReceiver() StatsReceiver {
	return &defaultStatsReceiver{registry: metrics.NewRegistry()}
}

// NewStatsReceiverWithRegistry returns a receiver backed by registry, so an
// application can render or publish all instruments from one place.
func NewStatsReceiverWithRegistry(registry metrics.Registry) StatsReceiver {
	return &defaultStatsReceiver{registry: registry}
}

type defaultStatsReceiver struct {
	registry metrics.Registry
	scope    []string
}

func (s *defaultStatsReceiver) Scope(scope ...string) StatsReceiver {
	return &defaultStatsReceiver{registry: s.registry, scope: s.scoped(scope...)}
}

func (s *defaultStatsReceiver) Counter(name ...string) Counter {
	return s.registry.GetOrRegister(s.name(name...), metrics.NewCounter).(metrics.Counter)
}

func (s *defaultStatsReceiver) Latency(name ...string) Latency {
	return &metricLatency{s.registry.GetOrRegister(s.name(name...), metrics.NewTimer).(metrics.Timer)}
}

func (s *defaultStatsReceiver) scoped(scope ...string) []string {
	base := make([]string, len(s.scope), len(s.scope)+len(scope))
	copy(base, s.scope)
	for _, elem := range scope {
		// Dynamic name elements may contain the separator; strip rather than fail.
		base = append(base, strings.Replace(elem, "/", "_", -1))
	}
	return base
}

func (s *defaultStatsReceiver) name(name ...string) string {
	return strings.Join(s.scoped(name...), "/")
}

type metricLatency struct {
	timer metrics.Timer
}

func (l *metricLatency) Time(d time.Duration) {
	l.timer.Update(d)
}

// NilStatsReceiver returns a receiver whose instruments discard everything.
func NilStatsReceiver() StatsReceiver {
	return nilStatsReceiver{}
}

type nilStatsReceiver struct{}

func (s nilStatsReceiver) Scope(scope ...string) StatsReceiver { return s }

func (s nilStatsReceiver) Counter(name ...string) Counter { return nilCounter{} }

func (s nilStatsReceiver) Latency(name ...string) Latency { return nilLatency{} }

type nilCounter struct{}

func (nilCounter) Inc(int64)   {}
func (nilCounter) Count() int64 { return 0 }

type nilLatency struct{}

func (nilLatency) Time(time.Duration) {}
