package query

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsSnapshot is a point-in-time view of the engine's running counters.
type MetricsSnapshot struct {
	QueriesExecuted    int64   `json:"queriesExecuted"`
	CacheHits          int64   `json:"cacheHits"`
	CacheMisses        int64   `json:"cacheMisses"`
	Errors             int64   `json:"errors"`
	TotalExecutionTime int64   `json:"totalExecutionTimeMs"`
	HitRate            float64 `json:"hitRate"`
}

// metrics tracks engine counters and mirrors them into prometheus
// collectors registered on the engine's registry.
type metrics struct {
	mu        sync.Mutex
	executed  int64
	hits      int64
	misses    int64
	errors    int64
	totalTime time.Duration

	promQueries  prometheus.Counter
	promHits     prometheus.Counter
	promMisses   prometheus.Counter
	promErrors   prometheus.Counter
	promDuration prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		promQueries: factory.NewCounter(prometheus.CounterOpts{
			Name: "triplecheck_queries_total",
			Help: "Total queries executed against the backend.",
		}),
		promHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "triplecheck_query_cache_hits_total",
			Help: "Query results served from cache.",
		}),
		promMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "triplecheck_query_cache_misses_total",
			Help: "Cache lookups that fell through to the backend.",
		}),
		promErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "triplecheck_query_errors_total",
			Help: "Queries rejected or failed during execution.",
		}),
		promDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "triplecheck_query_duration_seconds",
			Help:    "Query execution latency.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *metrics) recordExecution(elapsed time.Duration) {
	m.mu.Lock()
	m.executed++
	m.totalTime += elapsed
	m.mu.Unlock()
	m.promQueries.Inc()
	m.promDuration.Observe(elapsed.Seconds())
}

func (m *metrics) recordHit() {
	m.mu.Lock()
	m.hits++
	m.mu.Unlock()
	m.promHits.Inc()
}

func (m *metrics) recordMiss() {
	m.mu.Lock()
	m.misses++
	m.mu.Unlock()
	m.promMisses.Inc()
}

func (m *metrics) recordError() {
	m.mu.Lock()
	m.errors++
	m.mu.Unlock()
	m.promErrors.Inc()
}

func (m *metrics) snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	hitRate := 0.0
	if lookups := m.hits + m.misses; lookups > 0 {
		hitRate = float64(m.hits) / float64(lookups)
	}
	return MetricsSnapshot{
		QueriesExecuted:    m.executed,
		CacheHits:          m.hits,
		CacheMisses:        m.misses,
		Errors:             m.errors,
		TotalExecutionTime: m.totalTime.Milliseconds(),
		HitRate:            hitRate,
	}
}
