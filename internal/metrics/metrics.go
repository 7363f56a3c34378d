package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline counters. Labels stay low-cardinality: status classes and reason
// classes, never raw ids or team names.
var (
	ProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oddsdeck_provider_requests_total",
		Help: "Provider HTTP requests by outcome class.",
	}, []string{"outcome"})

	ShardsFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oddsdeck_shards_total",
		Help: "Fan-out shards by result.",
	}, []string{"result"})

	EventsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "oddsdeck_events_accepted_total",
		Help: "Raw events that passed validation.",
	})

	EventsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oddsdeck_events_rejected_total",
		Help: "Raw events rejected by validation, by reason class.",
	}, []string{"reason"})

	SyntheticFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "oddsdeck_synthetic_fallbacks_total",
		Help: "Fetches that fell back to the synthetic generator.",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oddsdeck_result_cache_total",
		Help: "Result cache lookups by outcome.",
	}, []string{"outcome"})
)
