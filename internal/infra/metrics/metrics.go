package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "frontdesk"

type Metrics struct {
	quotes   *prometheus.CounterVec
	submits  *prometheus.CounterVec
	removals *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer to
// serve them from promhttp.Handler.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		quotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_total",
			Help:      "Stay quotes by outcome.",
		}, []string{"outcome"}),
		submits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_submits_total",
			Help:      "Invoice submits by outcome.",
		}, []string{"outcome"}),
		removals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_removals_total",
			Help:      "Attempts to remove a protected invoice line, by line source.",
		}, []string{"source"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "API latency by route and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "code"}),
	}
	reg.MustRegister(m.quotes, m.submits, m.removals, m.latency)
	return m
}

func (m *Metrics) Quote(outcome string)          { m.quotes.WithLabelValues(outcome).Inc() }
func (m *Metrics) Submit(outcome string)         { m.submits.WithLabelValues(outcome).Inc() }
func (m *Metrics) RejectedRemoval(source string) { m.removals.WithLabelValues(source).Inc() }

func (m *Metrics) ObserveRequest(route, code string, d time.Duration) {
	m.latency.WithLabelValues(route, code).Observe(d.Seconds())
}
