package search

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Source call outcomes reported in leads_source_requests_total.
const (
	OutcomeSuccess   = "success"
	OutcomeEmpty     = "empty"
	OutcomeExhausted = "exhausted"
	OutcomeFailed    = "failed"
	OutcomeSkipped   = "skipped"
)

// Metrics holds the orchestrator's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	records  *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leads_source_requests_total",
			Help: "Source search calls by outcome.",
		}, []string{"source", "outcome"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leads_source_records_total",
			Help: "Records accepted from each source before deduplication.",
		}, []string{"source"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "leads_search_duration_seconds",
			Help:    "Wall time of a full multi-source search.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.records, m.duration)
	}
	return m
}

func (m *Metrics) observeRequest(src, outcome string) {
	if m == nil {
		return
	}
	m.requests.With(prometheus.Labels{"source": src, "outcome": outcome}).Inc()
}

func (m *Metrics) observeRecords(src string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.records.With(prometheus.Labels{"source": src}).Add(float64(n))
}

func (m *Metrics) observeDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.duration.Observe(d.Seconds())
}
