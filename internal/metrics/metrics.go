package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ContractsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rental_contracts_created_total",
			Help: "Contracts created",
		},
	)

	ContractStatusChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_contract_status_changes_total",
			Help: "Explicit contract status transitions",
		},
		[]string{"status"},
	)

	PaymentsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_payments_recorded_total",
			Help: "Payments recorded, by method",
		},
		[]string{"method"},
	)

	// EngineRejections counts mutations refused by the rental engine,
	// labelled validation, conflict, invariant or not_found
	EngineRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_engine_rejections_total",
			Help: "Mutations rejected by validation or invariant checks",
		},
		[]string{"operation", "class"},
	)

	StorageFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_storage_failures_total",
			Help: "Object storage failures",
		},
		[]string{"op"},
	)

	ContractsByStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rental_contracts",
			Help: "Contracts by lifecycle status",
		},
		[]string{"status"},
	)

	OutstandingAmount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rental_outstanding_amount",
			Help: "Remaining balance over all contracts, in OMR",
		},
	)

	OverdueContracts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rental_overdue_contracts",
			Help: "Active contracts past their end date with a balance",
		},
	)

	OverdueAmount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rental_overdue_amount",
			Help: "Remaining balance of overdue contracts, in OMR",
		},
	)
)
