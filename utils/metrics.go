package utils

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ReqCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mello_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "mello_request_duration_seconds",
			Help: "Request duration seconds",
		},
		[]string{"method", "path"},
	)

	ErrorCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mello_errors_total",
			Help: "Total app errors",
		},
		[]string{"handler", "type"},
	)

	// Счётчики обращений к OpenAI: режим completion / emotions / suggestions
	CompletionCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mello_llm_requests_total",
			Help: "Total text-generation API calls",
		},
		[]string{"mode", "outcome"},
	)

	SuggestionFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mello_suggestion_failures_total",
			Help: "Suggested-activity generations that degraded to an empty list",
		},
	)
)

func InitMetrics() {
	prometheus.MustRegister(ReqCount, ReqDuration, ErrorCount, CompletionCount, SuggestionFailures)
}
