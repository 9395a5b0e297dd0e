package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "finscope",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Requests handled, by method and response status.",
	}, []string{"method", "status"})

	rateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "finscope",
		Subsystem: "http",
		Name:      "rate_limited_total",
		Help:      "Mutating requests rejected by the per-IP rate limiter.",
	})
)
