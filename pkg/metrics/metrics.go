package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "helpdesk", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "helpdesk", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	HelpRequestsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "helpdesk", Name: "help_requests_created_total", Help: "Number of help requests created."},
	)
	HelpRequestsUpdated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "helpdesk", Name: "help_requests_updated_total", Help: "Number of help request updates applied."},
	)
	HelpRequestErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "helpdesk", Name: "help_request_errors_total", Help: "Failed store operations by operation and reason."},
		[]string{"op", "reason"},
	)
	HelpRequestsStored = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "helpdesk", Name: "help_requests_stored", Help: "Number of help requests currently held in memory."},
	)
	AuthRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "helpdesk", Name: "auth_rejected_total", Help: "Write requests rejected by the auth guard, by mode."},
		[]string{"mode"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(HelpRequestsCreated)
	reg.MustRegister(HelpRequestsUpdated)
	reg.MustRegister(HelpRequestErrors)
	reg.MustRegister(HelpRequestsStored)
	reg.MustRegister(AuthRejected)
}
