// Package prometheus instruments siteaudit services with Prometheus metrics.
package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/siteaudit"
	"github.com/prometheus/client_golang/prometheus"
)

// Fetch outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var _ siteaudit.PageFetcher = (*PageFetcher)(nil)

// PageFetcher wraps a PageFetcher and records fetch counts by outcome,
// headless renders and fetch durations.
type PageFetcher struct {
	next     siteaudit.PageFetcher
	fetches  *prometheus.CounterVec
	renders  prometheus.Counter
	duration *prometheus.HistogramVec
}

// NewPageFetcher creates a PageFetcher and registers its collectors with reg.
// It panics if the collectors are already registered with reg.
func NewPageFetcher(next siteaudit.PageFetcher, reg prometheus.Registerer) *PageFetcher {
	f := &PageFetcher{
		next: next,
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "siteaudit_fetches_total",
				Help: "Total number of page fetches",
			},
			[]string{"outcome"},
		),
		renders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "siteaudit_renders_total",
			Help: "Total number of pages fetched through the headless renderer",
		}),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "siteaudit_fetch_duration_seconds",
				Help:    "Duration of page fetches in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
	}
	reg.MustRegister(f.fetches, f.renders, f.duration)
	return f
}

// Fetch delegates to the wrapped fetcher and records the outcome.
func (f *PageFetcher) Fetch(ctx context.Context, url string, cache siteaudit.SessionCache) *siteaudit.PageRecord {
	start := time.Now()
	page := f.next.Fetch(ctx, url, cache)

	outcome := OutcomeOK
	if page.Failed() {
		outcome = OutcomeError
	}
	f.fetches.WithLabelValues(outcome).Inc()
	f.duration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	if page.Rendered {
		f.renders.Inc()
	}
	return page
}
