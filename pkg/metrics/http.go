package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Charge outcomes as seen by API callers.
const (
	ChargeApproved = "approved"
	ChargeDeclined = "declined"
	ChargeRejected = "rejected"
	ChargeFailed   = "failed"
)

const unmatchedRoute = "unmatched"

var (
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Inbound API latency in seconds, including the gateway round trip",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"route", "method", "status_class"},
	)

	ChargeOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "charges",
			Name:      "outcomes_total",
			Help:      "Charge API calls by route and outcome (approved, declined, rejected, failed)",
		},
		[]string{"route", "outcome"},
	)
)

func init() {
	Registry.MustRegister(HTTPRequestDuration, ChargeOutcomesTotal)
}

// ChargeOutcome classifies a charge API response status.
func ChargeOutcome(status int) string {
	switch {
	case status == http.StatusPaymentRequired:
		return ChargeDeclined
	case status >= 500:
		return ChargeFailed
	case status >= 400:
		return ChargeRejected
	default:
		return ChargeApproved
	}
}

// GinMiddleware records latency for every matched route and the outcome of
// every /charges call. Unmatched paths share one label to bound cardinality.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		status := c.Writer.Status()

		HTTPRequestDuration.WithLabelValues(route, c.Request.Method, StatusClass(status)).Observe(time.Since(start).Seconds())
		if strings.HasPrefix(route, "/charges") {
			ChargeOutcomesTotal.WithLabelValues(route, ChargeOutcome(status)).Inc()
		}
	}
}
