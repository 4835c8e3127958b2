// Package metrics provides Prometheus metrics for the audit service (RED +
// engine job lifecycle). Scrapeable at /metrics; dashboards rely on these
// names.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "evidentia"

var (
	// HTTPRequestTotal counts requests by method, path, status (RED: rate).
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method, path, and status.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDurationSeconds is request latency histogram (RED: duration).
	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2.5, 10), // 1ms to ~9.3s
		},
		[]string{"method", "path"},
	)

	// AuditQueriesSubmittedTotal counts batch queries submitted per scope.
	AuditQueriesSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_queries_submitted_total",
			Help:      "Total number of audit queries submitted to the batch engine by scope.",
		},
		[]string{"scope"},
	)

	// AuditQuerySubmitFailuresTotal counts engine rejections at submit time.
	AuditQuerySubmitFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_query_submit_failures_total",
			Help:      "Total number of audit query submissions rejected by the batch engine.",
		},
	)

	// AuditQueryPollTotal counts status polls by the state observed.
	AuditQueryPollTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_query_poll_total",
			Help:      "Total number of audit job status polls by observed engine state.",
		},
		[]string{"state"},
	)

	// AuditEventsWrittenTotal counts audit events persisted by the writer.
	AuditEventsWrittenTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_events_written_total",
			Help:      "Total number of audit events written.",
		},
	)

	// AuditEventWriteFailuresTotal counts writer failures (sink or validation).
	AuditEventWriteFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_event_write_failures_total",
			Help:      "Total number of audit event write failures.",
		},
	)

	// DBQueryDurationSeconds is repository query latency by operation.
	DBQueryDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_query_duration_seconds",
			Help:      "Database query duration in seconds by operation.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"operation"},
	)
)
