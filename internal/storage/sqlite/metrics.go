package sqlite

import "github.com/prometheus/client_golang/prometheus"

// opMetrics counts store operations per collection. Each Store carries its
// own registry so tests and multiple stores in one process never collide.
type opMetrics struct {
	registry    *prometheus.Registry
	reads       *prometheus.CounterVec
	writes      *prometheus.CounterVec
	writeErrors *prometheus.CounterVec
}

func newOpMetrics() *opMetrics {
	m := &opMetrics{
		registry: prometheus.NewRegistry(),
		reads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_store_reads_total",
			Help: "Collection reads served by the record store.",
		}, []string{"collection"}),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_store_writes_total",
			Help: "Records written or deleted by the record store.",
		}, []string{"collection"}),
		writeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_store_write_errors_total",
			Help: "Failed write transactions.",
		}, []string{"collection"}),
	}
	m.registry.MustRegister(m.reads, m.writes, m.writeErrors)
	return m
}

// Registry exposes the store's metric registry for callers that want to
// gather or inspect the counters.
func (s *Store) Registry() *prometheus.Registry {
	return s.metrics.registry
}
