package telemetry

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Fetch sources.
const (
	SourceCache   = "cache"
	SourceNetwork = "network"
)

// Collector captures events emitted by the user store.
//
// Hooks run inline with store transitions, so implementations must be cheap.
type Collector interface {
	IncCache(hit bool)
	ObserveFetch(source string, elapsed time.Duration, err error)
	IncMutation(kind string, err error)
	SetTotal(total int)
}

type noopCollector struct{}

// Noop returns a collector that discards all metrics.
func Noop() Collector {
	return noopCollector{}
}

func (noopCollector) IncCache(bool)                             {}
func (noopCollector) ObserveFetch(string, time.Duration, error) {}
func (noopCollector) IncMutation(string, error)                 {}
func (noopCollector) SetTotal(int)                              {}

// PrometheusCollector exposes store metrics via Prometheus.
type PrometheusCollector struct {
	cache     *prometheus.CounterVec
	fetches   *prometheus.HistogramVec
	mutations *prometheus.CounterVec
	total     prometheus.Gauge
}

// NewPrometheusCollector registers the store metrics with reg. Metrics that
// are already registered are reused.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	cache, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "userdeck_page_cache_requests_total",
		Help: "Page cache lookups by result.",
	}, []string{"result"}))
	if err != nil {
		return nil, err
	}
	fetches, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "userdeck_fetch_duration_seconds",
		Help:    "Latency of page fetches by source and outcome.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source", "outcome"}))
	if err != nil {
		return nil, err
	}
	mutations, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "userdeck_mutations_total",
		Help: "User mutations by kind and outcome.",
	}, []string{"kind", "outcome"}))
	if err != nil {
		return nil, err
	}
	total, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "userdeck_users_total",
		Help: "Last known number of users on the server.",
	}))
	if err != nil {
		return nil, err
	}

	return &PrometheusCollector{
		cache:     cache,
		fetches:   fetches,
		mutations: mutations,
		total:     total,
	}, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(T); ok {
			return existing, nil
		}
	}
	var zero T
	return zero, err
}

// IncCache records a page cache lookup.
func (p *PrometheusCollector) IncCache(hit bool) {
	if p == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	p.cache.WithLabelValues(result).Inc()
}

// ObserveFetch records fetch latency.
func (p *PrometheusCollector) ObserveFetch(source string, elapsed time.Duration, err error) {
	if p == nil {
		return
	}
	p.fetches.WithLabelValues(source, outcome(err)).Observe(elapsed.Seconds())
}

// IncMutation records a create, update or delete attempt.
func (p *PrometheusCollector) IncMutation(kind string, err error) {
	if p == nil {
		return
	}
	p.mutations.WithLabelValues(kind, outcome(err)).Inc()
}

// SetTotal updates the known user count.
func (p *PrometheusCollector) SetTotal(total int) {
	if p == nil {
		return
	}
	p.total.Set(float64(total))
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
