// Package metrics provides Prometheus metrics for searches and provider calls.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchesTotal tracks finder searches by outcome
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizfinder",
			Subsystem: "finder",
			Name:      "searches_total",
			Help:      "Total number of searches by status",
		},
		[]string{"status"},
	)

	// ProviderSearchesTotal tracks per-provider searches by outcome
	ProviderSearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizfinder",
			Subsystem: "provider",
			Name:      "searches_total",
			Help:      "Total number of provider searches by provider and status",
		},
		[]string{"provider", "status"},
	)

	// ProviderSearchDuration tracks how long each provider takes to answer
	ProviderSearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bizfinder",
			Subsystem: "provider",
			Name:      "search_duration_seconds",
			Help:      "Duration of provider searches in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	// ProviderHTTPRequestsTotal tracks outbound HTTP requests made by adapters
	ProviderHTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizfinder",
			Subsystem: "http_client",
			Name:      "requests_total",
			Help:      "Total number of outbound provider HTTP requests",
		},
		[]string{"provider", "status_code"},
	)

	// MergesTotal tracks listings merged into an existing record
	MergesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bizfinder",
			Subsystem: "finder",
			Name:      "merges_total",
			Help:      "Total number of listings merged into an existing record",
		},
	)

	// SkippedItemsTotal tracks malformed provider items that were dropped
	SkippedItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizfinder",
			Subsystem: "provider",
			Name:      "skipped_items_total",
			Help:      "Total number of malformed provider items skipped",
		},
		[]string{"provider"},
	)

	// JobsProcessed tracks worker search jobs
	JobsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizfinder",
			Subsystem: "worker",
			Name:      "jobs_processed_total",
			Help:      "Total number of search jobs processed by the worker",
		},
		[]string{"status"},
	)

	// PipelineStepFailures tracks enrichment steps that returned an error
	PipelineStepFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizfinder",
			Subsystem: "worker",
			Name:      "pipeline_step_failures_total",
			Help:      "Total number of failed pipeline steps",
		},
		[]string{"stage"},
	)
)
