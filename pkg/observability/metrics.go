package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Exchange outcome labels
const (
	StatusOK             = "ok"
	StatusTransportError = "transport_error"
	StatusProtocolError  = "protocol_error"
)

var (
	gatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "giftcard_gateway_requests_total",
			Help: "Total number of gift card gateway exchanges",
		},
		[]string{"operation", "status"},
	)

	gatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "giftcard_gateway_request_duration_seconds",
			Help:    "Duration of gift card gateway exchanges in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	gatewayRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "giftcard_gateway_requests_in_flight",
			Help: "Number of gift card gateway exchanges currently in progress",
		},
	)
)

// ObserveGatewayRequest records one completed gateway exchange
func ObserveGatewayRequest(operation, status string, duration time.Duration) {
	gatewayRequestsTotal.WithLabelValues(operation, status).Inc()
	gatewayRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// TrackInFlight marks an exchange as started and returns a done func
func TrackInFlight() func() {
	gatewayRequestsInFlight.Inc()
	return gatewayRequestsInFlight.Dec
}
