package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes.
const (
	OutcomeCreated  = "created"
	OutcomeInvalid  = "invalid"
	OutcomeFailed   = "failed"
	OutcomeInFlight = "in_flight"
	OutcomeExists   = "exists"
)

type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    prometheus.Histogram
	Submissions     *prometheus.CounterVec
	DonorPrompts    prometheus.Counter
	FeedSubscribers prometheus.Gauge
}

// New registers every collector on a fresh registry, alongside the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "donatelife_http_requests_total",
			Help: "HTTP requests by method and status code",
		}, []string{"method", "status"}),
		HTTPDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "donatelife_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "donatelife_submissions_total",
			Help: "Donor and blood request form submissions by outcome",
		}, []string{"kind", "outcome"}),
		DonorPrompts: factory.NewCounter(prometheus.CounterOpts{
			Name: "donatelife_donor_prompts_total",
			Help: "Times the donor registration prompt was opened after sign up",
		}),
		FeedSubscribers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "donatelife_feed_subscribers",
			Help: "Open dashboard event streams",
		}),
	}
}

func (m *Metrics) ObserveRequest(method string, status int, started time.Time) {
	m.HTTPRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.HTTPDuration.Observe(time.Since(started).Seconds())
}

func (m *Metrics) IncrementSubmission(kind, outcome string) {
	m.Submissions.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) IncrementDonorPrompt() {
	m.DonorPrompts.Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
