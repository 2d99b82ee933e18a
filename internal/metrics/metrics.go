// Package metrics exposes Prometheus counters for the ledger and the RPC layer.
//
// All methods are safe to call on a nil *Metrics, which records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gopayurself"

// Metrics holds the service collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	expensesCreated     *prometheus.CounterVec
	expensesDeleted     prometheus.Counter
	balanceComputations prometheus.Counter
	integrityFailures   prometheus.Counter
	rpcDuration         *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry, including Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		expensesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_records_created_total",
			Help:      "Ledger records created, by kind (expense or settlement).",
		}, []string{"kind"}),
		expensesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_records_deleted_total",
			Help:      "Ledger records deleted by their payer.",
		}),
		balanceComputations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "balance_computations_total",
			Help:      "Balance computations run over a ledger snapshot.",
		}),
		integrityFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_integrity_failures_total",
			Help:      "Balance computations aborted on a malformed ledger record.",
		}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC handling time, by procedure and result code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.expensesCreated,
		m.expensesDeleted,
		m.balanceComputations,
		m.integrityFailures,
		m.rpcDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordCreated counts a new ledger record of the given kind.
func (m *Metrics) RecordCreated(kind string) {
	if m == nil {
		return
	}
	m.expensesCreated.WithLabelValues(kind).Inc()
}

// RecordDeleted counts a deleted ledger record.
func (m *Metrics) RecordDeleted() {
	if m == nil {
		return
	}
	m.expensesDeleted.Inc()
}

// BalanceComputed counts one balance computation.
func (m *Metrics) BalanceComputed() {
	if m == nil {
		return
	}
	m.balanceComputations.Inc()
}

// IntegrityFailure counts an aborted balance computation.
func (m *Metrics) IntegrityFailure() {
	if m == nil {
		return
	}
	m.integrityFailures.Inc()
}

// ObserveRPC records how long a procedure took.
func (m *Metrics) ObserveRPC(procedure, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.rpcDuration.WithLabelValues(procedure, code).Observe(d.Seconds())
}
