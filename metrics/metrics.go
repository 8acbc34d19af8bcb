package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fact endpoint metrics
var (
	// FactsServedTotal counts facts handed out by the fact endpoint
	FactsServedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spinner_tip_facts_served_total",
			Help: "Total facts served by the fact endpoint",
		},
	)

	// FactRequestsRejected counts fact requests turned away, by reason
	FactRequestsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spinner_tip_fact_requests_rejected_total",
			Help: "Fact requests rejected by reason (method/rate_limit)",
		},
		[]string{"reason"},
	)

	// FactsLoaded tracks how many facts the store currently holds
	FactsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "spinner_tip_facts_loaded",
			Help: "Number of facts currently held by the store",
		},
	)
)

// Status endpoint metrics
var (
	// StatusRequestDuration tracks how long status requests take, delay included
	StatusRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spinner_tip_status_request_duration_seconds",
			Help:    "Status request duration in seconds",
			Buckets: []float64{.1, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"result"},
	)
)
