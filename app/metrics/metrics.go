package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsSaved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geonews_events_saved_total",
		Help: "Events persisted to the store, per source.",
	}, []string{"source"})

	EventsDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geonews_events_duplicate_total",
		Help: "Insert attempts skipped because the content hash already existed.",
	})

	EnrichmentFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geonews_enrichment_failures_total",
		Help: "Enrichment calls that errored or returned an unparseable response.",
	})

	ScrapeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geonews_scrape_errors_total",
		Help: "Feed fetch/parse failures, per source.",
	}, []string{"source"})

	ScrapeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "geonews_scrape_duration_seconds",
		Help:    "Duration of a single source scrape.",
		Buckets: prometheus.DefBuckets,
	})

	EventsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geonews_events_deleted_total",
		Help: "Events removed by the retention sweep.",
	})
)
