package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatdesk_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "chatdesk_pipeline_stage_duration_seconds",
			Help: "Pipeline stage duration in seconds",
		},
		[]string{"stage", "outcome"},
	)

	GenerationLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "chatdesk_generation_latency_seconds",
			Help: "Generation service call latency in seconds",
		},
	)

	GenerationTimeouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatdesk_generation_timeouts_total",
			Help: "Total number of generation calls abandoned at the timeout",
		},
	)

	ActiveContexts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chatdesk_active_contexts",
			Help: "Number of live conversation contexts",
		},
	)
)
