package client

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	inFlight prometheus.Gauge
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "macro_atlas",
			Subsystem: "api_client",
			Name:      "in_flight_requests",
			Help:      "Requests to the analysis API currently in flight.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "macro_atlas",
			Subsystem: "api_client",
			Name:      "requests_total",
			Help:      "Requests to the analysis API by status code and method.",
		}, []string{"code", "method"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "macro_atlas",
			Subsystem: "api_client",
			Name:      "request_duration_seconds",
			Help:      "Latency of requests to the analysis API.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
	reg.MustRegister(m.inFlight, m.requests, m.duration)
	return m
}

func (m *Metrics) Instrument(next http.RoundTripper) http.RoundTripper {
	return promhttp.InstrumentRoundTripperInFlight(m.inFlight,
		promhttp.InstrumentRoundTripperCounter(m.requests,
			promhttp.InstrumentRoundTripperDuration(m.duration, next),
		),
	)
}
