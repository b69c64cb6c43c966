package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RateLimitDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gatekeeper_ratelimit_decisions_total",
		Help: "Rate limiter admissions and denials.",
	}, []string{"decision"})

	FetchGuardRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gatekeeper_fetch_guard_rejections_total",
		Help: "Outbound URLs refused by the fetch guard, by validation stage.",
	}, []string{"stage"})

	QuotaResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gatekeeper_quota_resolutions_total",
		Help: "Subscription resolutions by outcome.",
	}, []string{"kind"})

	CompletionRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gatekeeper_completion_requests_total",
		Help: "Metered AI requests by provider and result.",
	}, []string{"provider", "result"})
)
