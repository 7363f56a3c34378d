package facade

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/oddsdeck/oddsdeck/internal/catalog"
	"github.com/oddsdeck/oddsdeck/internal/eventcache"
	"github.com/oddsdeck/oddsdeck/internal/metrics"
	"github.com/oddsdeck/oddsdeck/internal/orchestrator"
	"github.com/oddsdeck/oddsdeck/internal/synthetic"
	"github.com/oddsdeck/oddsdeck/internal/validator"
	"github.com/oddsdeck/oddsdeck/pkg/models"
)

// EventSink is the optional durable write-through target for fetched events.
type EventSink interface {
	Upsert(ctx context.Context, events []models.Event) error
}

// ResultSink is the optional cross-session cache for whole result sets.
type ResultSink interface {
	Get(ctx context.Context, query string) ([]models.Event, bool, error)
	Set(ctx context.Context, query string, events []models.Event) error
}

// Facade is the single entry point consumers call. Every operation
// terminates in a (possibly empty, possibly synthetic) event list; no error
// escapes this boundary.
type Facade struct {
	orch    *orchestrator.Orchestrator
	gen     *synthetic.Generator
	cache   *eventcache.ResultCache
	events  EventSink  // nil disables
	results ResultSink // nil disables
	log     *zap.Logger

	mu       sync.Mutex
	lastGood map[string][]models.Event
}

// New composes the pipeline behind the facade. Sinks may be nil.
func New(
	orch *orchestrator.Orchestrator,
	gen *synthetic.Generator,
	cache *eventcache.ResultCache,
	events EventSink,
	results ResultSink,
	log *zap.Logger,
) *Facade {
	if log == nil {
		log = zap.NewNop()
	}
	return &Facade{
		orch:     orch,
		gen:      gen,
		cache:    cache,
		events:   events,
		results:  results,
		log:      log,
		lastGood: make(map[string][]models.Event),
	}
}

// FetchLive returns events currently in the live window across all sports
// and regions.
func (f *Facade) FetchLive(ctx context.Context) []models.Event {
	return f.FetchLiveProgressive(ctx, nil)
}

// FetchLiveProgressive is FetchLive with a per-shard snapshot callback for
// incremental rendering. onPartial receives the full accumulated set each
// time a shard completes.
func (f *Facade) FetchLiveProgressive(ctx context.Context, onPartial func([]models.Event)) []models.Event {
	return f.fetch(ctx, "live", orchestrator.Request{
		Sports:    catalog.Fetchable(),
		Window:    validator.WindowLive,
		OnPartial: onPartial,
	}, func() []models.Event {
		return f.gen.LiveEvents(2)
	})
}

// FetchUpcoming returns events in the upcoming window (more than 1 hour,
// less than 7 days out).
func (f *Facade) FetchUpcoming(ctx context.Context) []models.Event {
	return f.fetch(ctx, "upcoming", orchestrator.Request{
		Sports: catalog.Fetchable(),
		Window: validator.WindowUpcoming,
	}, func() []models.Event {
		return f.gen.UpcomingEvents(2)
	})
}

// FetchByRegion returns live and upcoming events for one region.
func (f *Facade) FetchByRegion(ctx context.Context, region models.Region) []models.Event {
	return f.fetch(ctx, "region:"+string(region), orchestrator.Request{
		Sports:  catalog.Fetchable(),
		Regions: []models.Region{region},
		Window:  validator.WindowAny,
	}, func() []models.Event {
		return f.gen.EventsForRegion(region, 6)
	})
}

// FetchBySport returns live and upcoming events for one sport across its
// preferred regions.
func (f *Facade) FetchBySport(ctx context.Context, sportKey string) []models.Event {
	return f.fetch(ctx, "sport:"+sportKey, orchestrator.Request{
		Sports: []string{sportKey},
		Window: validator.WindowAny,
	}, func() []models.Event {
		return f.gen.EventsForSport(sportKey, 6)
	})
}

// StartAutoRefresh repeats FetchLive on the given interval, delivering each
// fresh result to fn. The returned stop function is idempotent.
func (f *Facade) StartAutoRefresh(interval time.Duration, fn func([]models.Event)) func() {
	stopChan := make(chan struct{})
	var once sync.Once

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				// Bypass the reuse window so each tick refetches.
				f.cache.Invalidate("live")
				ctx, cancel := context.WithTimeout(context.Background(), interval)
				events := f.FetchLive(ctx)
				cancel()
				select {
				case <-stopChan:
					return
				default:
					fn(events)
				}
			case <-stopChan:
				return
			}
		}
	}()

	return func() {
		once.Do(func() { close(stopChan) })
	}
}

// Hydrate pre-loads last-good sets from the cross-session result sink so the
// first render after a restart is not empty.
func (f *Facade) Hydrate(ctx context.Context) {
	if f.results == nil {
		return
	}
	for _, query := range []string{"live", "upcoming"} {
		events, found, err := f.results.Get(ctx, query)
		if err != nil {
			f.log.Warn("hydrate failed", zap.String("query", query), zap.Error(err))
			continue
		}
		if found && len(events) > 0 {
			f.mu.Lock()
			f.lastGood[query] = events
			f.mu.Unlock()
		}
	}
}

// fetch is the shared path: TTL-gated reuse, seeded fan-out, retained prior
// data on failure, synthetic fallback when nothing else exists.
func (f *Facade) fetch(
	ctx context.Context,
	query string,
	req orchestrator.Request,
	fallback func() []models.Event,
) []models.Event {
	if cached, ok := f.cache.Get(query); ok {
		metrics.CacheHits.WithLabelValues("hit").Inc()
		return cached
	}
	metrics.CacheHits.WithLabelValues("miss").Inc()

	prior := f.priorGood(query)

	acc := eventcache.NewAccumulator()
	acc.Seed(prior)
	req.Accumulator = acc

	events, err := f.orch.Fetch(ctx, req)
	if err != nil {
		f.log.Warn("fetch failed", zap.String("query", query), zap.Error(err))
		events = nil
	}

	if len(events) == 0 {
		if len(prior) > 0 {
			// Transient failure with data already on screen: keep it.
			f.log.Info("retaining prior results after empty fetch",
				zap.String("query", query), zap.Int("count", len(prior)))
			return prior
		}
		metrics.SyntheticFallbacks.Inc()
		f.log.Info("falling back to synthetic events", zap.String("query", query))
		events = fallback()
	}

	f.remember(ctx, query, events)
	return events
}

func (f *Facade) priorGood(query string) []models.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastGood[query]
}

// remember records a good result set in every cache layer and the durable
// sink. Sink failures are logged, never surfaced.
func (f *Facade) remember(ctx context.Context, query string, events []models.Event) {
	f.mu.Lock()
	f.lastGood[query] = events
	f.mu.Unlock()

	f.cache.Set(query, events)

	if f.results != nil {
		if err := f.results.Set(ctx, query, events); err != nil {
			f.log.Warn("result sink write failed", zap.String("query", query), zap.Error(err))
		}
	}
	if f.events != nil {
		if err := f.events.Upsert(ctx, events); err != nil {
			f.log.Warn("event sink write failed", zap.String("query", query), zap.Error(err))
		}
	}
}
