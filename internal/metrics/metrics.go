// Package metrics holds the Prometheus collectors for the recipe finder.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CatalogRequests counts outbound TheMealDB requests by endpoint and outcome
	CatalogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipefinder_catalog_requests_total",
			Help: "Total number of catalog requests",
		},
		[]string{"endpoint", "outcome"}, // endpoint: filter, lookup; outcome: success, not_found, timeout, error
	)

	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipefinder_catalog_request_duration_seconds",
			Help:    "Duration of catalog requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// SearchBatches counts completed searches by status
	SearchBatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipefinder_search_batches_total",
			Help: "Total number of search batches by status",
		},
		[]string{"status"}, // found, no_matches, details_unavailable, empty_query, timeout, network_error
	)

	// DetailFailures counts detail lookups dropped from a batch
	DetailFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipefinder_detail_failures_total",
			Help: "Total number of per-item detail lookups dropped from search batches",
		},
	)

	// StaleSearches counts superseded search results that were discarded
	StaleSearches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipefinder_stale_searches_total",
			Help: "Total number of search results discarded because a newer search was issued",
		},
	)

	// PersistenceErrors counts session storage failures by operation
	PersistenceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipefinder_persistence_errors_total",
			Help: "Total number of session persistence failures",
		},
		[]string{"operation", "key"}, // operation: load, save, delete, open
	)

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recipefinder_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)
