// Package metrics registers the Prometheus series exported on /metrics.
// Every series is prefixed jan_qa_api_.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "jan"
	subsystem = "qa_api"
)

var (
	latencyBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60}

	RequestsTotal = counter("requests_total", "HTTP requests by method, route and status.", "method", "endpoint", "status")

	RequestDuration = histogram("request_duration_seconds", "HTTP request latency.", "method", "endpoint")

	// AsksTotal outcomes: answered, invalid, not_found, upstream_error, timeout, error.
	AsksTotal = counter("asks_total", "Questions processed by outcome.", "outcome")

	CollaboratorDuration = histogram("collaborator_duration_seconds", "Latency of retriever, embedding and LLM calls.", "collaborator", "status")

	EmbeddingCacheTotal = counter("embedding_cache_total", "Embedding cache lookups by backend and result.", "backend", "result")
)

func counter(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: subsystem, Name: name, Help: help,
	}, labels)
}

func histogram(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: subsystem, Name: name, Help: help, Buckets: latencyBuckets,
	}, labels)
}

func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

func RecordAsk(outcome string) {
	AsksTotal.WithLabelValues(outcome).Inc()
}

// RecordCollaborator observes one retriever, embedding or LLM call.
func RecordCollaborator(collaborator string, err error, durationSec float64) {
	CollaboratorDuration.WithLabelValues(collaborator, okOrError(err)).Observe(durationSec)
}

func RecordEmbeddingCache(backend string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	EmbeddingCacheTotal.WithLabelValues(backend, result).Inc()
}

func okOrError(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
