// Package metrics defines the Prometheus metrics exported on /metrics.
// All metrics are registered with the default registry on package init.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "role_portal"

// Auth flows and outcomes used as label values.
const (
	FlowRegister = "register"
	FlowLogin    = "login"
	FlowLogout   = "logout"
	FlowCSRF     = "csrf"

	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// AuthEventsTotal counts authentication attempts.
// Labels:
//   - flow: "register", "login", "logout" or "csrf"
//   - outcome: "success", "invalid" (form errors), "rejected" (duplicate name or bad credentials) or "error"
var AuthEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Total number of authentication attempts, by flow and outcome.",
	},
	[]string{"flow", "outcome"},
)

// HTTPRequestDuration measures request latency per matched route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests by method, route and status code.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)

// RecordAuth increments AuthEventsTotal.
func RecordAuth(flow, outcome string) {
	AuthEventsTotal.WithLabelValues(flow, outcome).Inc()
}

// Middleware observes HTTPRequestDuration. Unmatched paths share one label
// value so that scanners cannot grow the series count.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler serves the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
