package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AuthRejects = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "titangate_auth_rejects_total",
		Help: "Authentication gate rejections by reason code",
	}, []string{"reason"})

	RateLimitHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "titangate_rate_limit_hits_total",
		Help: "Requests denied by per-tenant rate limiting",
	}, []string{"kind"})

	QuotaRejects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "titangate_quota_rejects_total",
		Help: "Trades denied by the daily plan quota",
	})

	BillingEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "titangate_billing_events_total",
		Help: "Billing lifecycle events by type and outcome",
	}, []string{"type", "outcome"})

	SignalsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "titangate_signals_total",
		Help: "Prediction signals served, by action and execution",
	}, []string{"action", "executed"})

	LatencyBucket = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "titangate_latency_bucket",
		Help:    "Request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
)
