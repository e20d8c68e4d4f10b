package remote

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts calls to the admin API.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the admin API metrics and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rbadmin",
			Subsystem: "admin_api",
			Name:      "requests_total",
			Help:      "Requests sent to the admin API by operation and outcome",
		}, []string{"operation", "collection", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rbadmin",
			Subsystem: "admin_api",
			Name:      "request_duration_seconds",
			Help:      "Duration of admin API requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "collection"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.duration)
	}
	return m
}

// observe records one request. status is 0 when no response arrived.
func (m *Metrics) observe(op, collection string, status int, d time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(op, collection, label).Inc()
	m.duration.WithLabelValues(op, collection).Observe(d.Seconds())
}
