// Package metrics exposes parse counters and latencies in the Prometheus
// format. Each Recorder owns its registry, so tests and multiple servers do
// not collide on the global one.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/insightdelivered/cc-statement-parser/internal/models"
)

const namespace = "cc_parser"

// Recorder counts parses by issuer and outcome.
type Recorder struct {
	registry     *prometheus.Registry
	parses       *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	transactions *prometheus.CounterVec
}

// New returns a Recorder with Go runtime and process collectors attached.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		parses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parses_total",
			Help:      "Statements parsed, by issuer and outcome.",
		}, []string{"issuer", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Time to parse one statement.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"issuer"}),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_total",
			Help:      "Transactions extracted, by issuer.",
		}, []string{"issuer"}),
	}
	r.registry.MustRegister(
		r.parses,
		r.duration,
		r.transactions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveParse records one pipeline run.
func (r *Recorder) ObserveParse(issuerID string, transactions int, elapsed time.Duration, err error) {
	if issuerID == "" {
		issuerID = "unknown"
	}
	r.parses.WithLabelValues(issuerID, Outcome(err)).Inc()
	r.duration.WithLabelValues(issuerID).Observe(elapsed.Seconds())
	if err == nil {
		r.transactions.WithLabelValues(issuerID).Add(float64(transactions))
	}
}

// Outcome is the label value for an error kind.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	switch models.KindOf(err) {
	case models.ErrUnreadableDocument:
		return "unreadable"
	case models.ErrUnsupportedIssuer:
		return "unsupported_issuer"
	case models.ErrExtractionIncomplete:
		return "incomplete"
	case models.ErrNormalization:
		return "normalization"
	}
	return "error"
}

// Handler serves the registry in the exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gatherer exposes the registry for tests.
func (r *Recorder) Gatherer() prometheus.Gatherer { return r.registry }
