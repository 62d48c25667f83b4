package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	SearchRequestsTotal   *prometheus.CounterVec
	SearchRequestDuration *prometheus.HistogramVec
	SearchImagesReturned  prometheus.Histogram

	RateLimitHitsTotal *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "isou_bot_requests_total",
				Help: "Total number of bot requests processed",
			},
			[]string{"command", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "isou_bot_request_duration_seconds",
				Help:    "Bot request duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"command"},
		),
		RequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "isou_bot_requests_in_flight",
				Help: "Number of requests currently being processed",
			},
		),

		SearchRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "isou_bot_search_requests_total",
				Help: "Total number of search API requests",
			},
			[]string{"mode", "status"},
		),
		SearchRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "isou_bot_search_request_duration_seconds",
				Help:    "Search request duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{"mode"},
		),
		SearchImagesReturned: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "isou_bot_search_images_returned",
				Help:    "Number of image results per search response",
				Buckets: []float64{0, 1, 2, 5, 10, 20},
			},
		),

		RateLimitHitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "isou_bot_rate_limit_hits_total",
				Help: "Total number of rate limit hits",
			},
			[]string{"user_id"},
		),
	}

	return m
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func (m *Metrics) RecordRequest(command, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(command, status).Inc()
	m.RequestDuration.WithLabelValues(command).Observe(duration.Seconds())
}

func (m *Metrics) RecordSearchRequest(mode, status string, duration time.Duration) {
	m.SearchRequestsTotal.WithLabelValues(mode, status).Inc()
	m.SearchRequestDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

func (m *Metrics) RecordSearchImages(count int) {
	m.SearchImagesReturned.Observe(float64(count))
}

func (m *Metrics) RecordRateLimitHit(userID string) {
	m.RateLimitHitsTotal.WithLabelValues(userID).Inc()
}

func (m *Metrics) IncRequestsInFlight() {
	m.RequestsInFlight.Inc()
}

func (m *Metrics) DecRequestsInFlight() {
	m.RequestsInFlight.Dec()
}
