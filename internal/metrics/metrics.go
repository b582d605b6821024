// Package metrics exposes the Prometheus instruments shared by the API server
// and the sheet-sync worker.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	httpDuration   *prometheus.HistogramVec
	httpRequests   *prometheus.CounterVec
	saleMutations  *prometheus.CounterVec
	eventsPublish  *prometheus.CounterVec
	eventsConsumed *prometheus.CounterVec
	sheetSyncs     *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "commissions_http_request_duration_seconds",
				Help:    "Duration of HTTP requests by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commissions_http_requests_total",
				Help: "HTTP requests by route and status class.",
			},
			[]string{"method", "route", "status"},
		),
		saleMutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commissions_sale_mutations_total",
				Help: "Committed sale mutations by operation.",
			},
			[]string{"operation"},
		),
		eventsPublish: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commissions_sale_events_published_total",
				Help: "Sale events handed to the broker, by outcome.",
			},
			[]string{"outcome"},
		),
		eventsConsumed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commissions_sale_events_consumed_total",
				Help: "Sale events processed by the worker, by outcome.",
			},
			[]string{"outcome"},
		),
		sheetSyncs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commissions_sheet_syncs_total",
				Help: "Spreadsheet mirror rewrites, by trigger and outcome.",
			},
			[]string{"trigger", "outcome"},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commissions_report_cache_lookups_total",
				Help: "Report cache lookups by result.",
			},
			[]string{"result"},
		),
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// ObserveHTTP records one finished request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
	m.httpRequests.WithLabelValues(method, route, statusClass(status)).Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

func (m *Metrics) IncrSaleMutation(operation string) {
	m.saleMutations.WithLabelValues(operation).Inc()
}

func (m *Metrics) IncrEventPublished(err error) {
	m.eventsPublish.WithLabelValues(outcome(err)).Inc()
}

func (m *Metrics) IncrEventConsumed(err error) {
	m.eventsConsumed.WithLabelValues(outcome(err)).Inc()
}

func (m *Metrics) IncrSheetSync(trigger string, err error) {
	m.sheetSyncs.WithLabelValues(trigger, outcome(err)).Inc()
}

// ObserveCache matches the cache package's observer hook.
func (m *Metrics) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// CounterValue reads the current value of one labelled series of a counter
// registered by this package. It returns 0 for unknown names.
func (m *Metrics) CounterValue(name string, labels ...string) float64 {
	var cv *prometheus.CounterVec
	switch name {
	case "http_requests":
		cv = m.httpRequests
	case "sale_mutations":
		cv = m.saleMutations
	case "events_published":
		cv = m.eventsPublish
	case "events_consumed":
		cv = m.eventsConsumed
	case "sheet_syncs":
		cv = m.sheetSyncs
	case "cache_lookups":
		cv = m.cacheLookups
	default:
		return 0
	}
	counter, err := cv.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0
	}
	out := &dto.Metric{}
	if err := counter.Write(out); err != nil {
		return 0
	}
	if out.Counter != nil && out.Counter.Value != nil {
		return *out.Counter.Value
	}
	return 0
}
