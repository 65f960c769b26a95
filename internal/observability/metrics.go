package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	apiRequestsTotal     *prometheus.CounterVec
	apiLatencySeconds    *prometheus.HistogramVec
	apiErrorsTotal       *prometheus.CounterVec
	auditDropsTotal      prometheus.Counter
	auditEntriesRecorded *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "registry_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		auditDropsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "registry_audit_rows_dropped_total",
			Help: "Audit rows excluded from reads after failing re-validation.",
		})

		auditEntriesRecorded = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_audit_entries_total",
			Help: "Audit entries written, labelled by action.",
		}, []string{"action"})

		prometheus.MustRegister(apiRequestsTotal, apiLatencySeconds, apiErrorsTotal, auditDropsTotal, auditEntriesRecorded)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// Errors exposes the counter for API error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// AuditDrops exposes the counter for audit rows dropped on read.
func AuditDrops() prometheus.Counter {
	RegisterMetrics()
	return auditDropsTotal
}

// AuditEntries exposes the per-action counter for recorded audit entries.
func AuditEntries() *prometheus.CounterVec {
	RegisterMetrics()
	return auditEntriesRecorded
}
