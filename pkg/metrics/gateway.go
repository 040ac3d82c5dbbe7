package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// GatewayOutcomeError labels calls that never produced an HTTP status.
const GatewayOutcomeError = "error"

var (
	GatewayRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Outbound payment gateway request latency in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20},
		},
		[]string{"route", "method", "outcome"},
	)

	GatewayRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Total number of outbound payment gateway requests",
		},
		[]string{"route", "method", "outcome"},
	)
)

func init() {
	Registry.MustRegister(GatewayRequestDuration, GatewayRequestsTotal)
}

// ObserveGatewayCall records one outbound call. route must be a template such
// as "/charges/:token/capture", never a path carrying a charge token.
func ObserveGatewayCall(route, method, outcome string, elapsed time.Duration) {
	GatewayRequestDuration.WithLabelValues(route, method, outcome).Observe(elapsed.Seconds())
	GatewayRequestsTotal.WithLabelValues(route, method, outcome).Inc()
}

// StatusClass collapses a status code into "2xx", "4xx" and so on.
func StatusClass(code int) string {
	if code < 100 || code > 599 {
		return strconv.Itoa(code)
	}
	return strconv.Itoa(code/100) + "xx"
}
