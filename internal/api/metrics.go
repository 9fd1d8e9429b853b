package api

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records outgoing API calls. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_api_requests_total",
				Help: "Total number of requests sent to the storefront API",
			},
			[]string{"method", "route", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storefront_api_request_duration_ms",
				Help:    "Duration of storefront API requests in ms",
				Buckets: []float64{5, 10, 25, 50, 100, 200, 400, 800, 1600, 3200},
			},
			[]string{"method", "route"},
		),
	}
}

// observe uses status 0 for requests that failed before a response arrived.
func (m *Metrics) observe(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}

	label := "network_error"
	if status != 0 {
		label = strconv.Itoa(status)
	}

	m.requests.WithLabelValues(method, route, label).Inc()
	m.duration.WithLabelValues(method, route).Observe(float64(d.Milliseconds()))
}
