// Package metrics defines prometheus metrics to expose
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clarify_api_request_duration_seconds",
			Help:    "Total time taken for requests in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30, 60, 120},
		},
		[]string{"endpoint"},
	)

	TimeToFirstToken = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clarify_api_time_to_first_token_seconds",
			Help:    "Time to first streamed token in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30, 60},
		},
		[]string{"endpoint"},
	)

	StreamedChunks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clarify_api_streamed_chunks_total",
			Help: "Total number of chunk events streamed to clients",
		},
	)

	CreditsSpent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clarify_api_credits_spent_total",
			Help: "Total credits decremented for generation requests",
		},
	)

	Transcriptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clarify_api_transcriptions_total",
			Help: "Total transcription requests processed",
		},
		[]string{"status"},
	)

	ErrorCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clarify_api_error_count",
			Help: "Error count",
		},
		[]string{"endpoint", "from"},
	)

	ResponseCodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clarify_api_status_code",
			Help: "Status Codes",
		},
		[]string{"path", "status_code"},
	)
)
