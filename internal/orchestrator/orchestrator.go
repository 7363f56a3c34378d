package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/oddsdeck/oddsdeck/adapters/theoddsapi"
	"github.com/oddsdeck/oddsdeck/internal/catalog"
	"github.com/oddsdeck/oddsdeck/internal/eventcache"
	"github.com/oddsdeck/oddsdeck/internal/metrics"
	"github.com/oddsdeck/oddsdeck/internal/normalizer"
	"github.com/oddsdeck/oddsdeck/internal/validator"
	"github.com/oddsdeck/oddsdeck/pkg/contracts"
	"github.com/oddsdeck/oddsdeck/pkg/models"
)

const (
	defaultBatchSize   = 3
	defaultRegionDelay = 200 * time.Millisecond
	defaultBatchDelay  = 500 * time.Millisecond
)

// Request describes one orchestrated fan-out.
type Request struct {
	// Sports to fetch. Each fans out over its regions.
	Sports []string

	// Regions overrides the per-sport catalog preference when non-empty.
	Regions []models.Region

	// Window selects the temporal band events must fall in.
	Window validator.Window

	// OnPartial, when set, receives the full accumulated snapshot after
	// each shard completes, in completion order.
	OnPartial func([]models.Event)

	// Accumulator to merge into. A seeded accumulator keeps previously
	// displayed events visible through transient failures. Nil creates a
	// fresh one.
	Accumulator *eventcache.Accumulator
}

// Orchestrator fans a set of sports out across regions with bounded
// parallelism, validating and merging each shard as it completes. Quota
// exhaustion aborts the remaining fan-out but keeps what was accumulated:
// partial success is success.
type Orchestrator struct {
	source contracts.OddsSource
	val    *validator.Validator
	norm   *normalizer.Normalizer
	log    *zap.Logger

	batchSize   int
	regionDelay time.Duration
	batchDelay  time.Duration
	now         func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithBatchSize bounds how many sports fetch concurrently.
func WithBatchSize(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithPacing sets the inter-region and inter-batch delays. These stay under
// provider burst limits independently of the client's own request spacing.
func WithPacing(region, batch time.Duration) Option {
	return func(o *Orchestrator) {
		o.regionDelay = region
		o.batchDelay = batch
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// New creates an orchestrator.
func New(source contracts.OddsSource, val *validator.Validator, norm *normalizer.Normalizer, log *zap.Logger, opts ...Option) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	o := &Orchestrator{
		source:      source,
		val:         val,
		norm:        norm,
		log:         log,
		batchSize:   defaultBatchSize,
		regionDelay: defaultRegionDelay,
		batchDelay:  defaultBatchDelay,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Fetch runs the fan-out. The returned slice is the accumulated snapshot;
// the error is non-nil only for conditions that prevented any fetching at
// all (no API key, cancelled context). Per-shard failures are logged and
// skipped.
func (o *Orchestrator) Fetch(ctx context.Context, req Request) ([]models.Event, error) {
	acc := req.Accumulator
	if acc == nil {
		acc = eventcache.NewAccumulator()
	}

	var quotaHit atomic.Bool
	var noKey atomic.Bool

	// Serializes merge, snapshot and delivery so OnPartial is never invoked
	// concurrently and snapshots arrive in completion order.
	var deliverMu sync.Mutex

	for start := 0; start < len(req.Sports); start += o.batchSize {
		if quotaHit.Load() || noKey.Load() {
			break
		}
		if err := ctx.Err(); err != nil {
			return acc.Snapshot(), err
		}

		end := start + o.batchSize
		if end > len(req.Sports) {
			end = len(req.Sports)
		}

		var wg sync.WaitGroup
		for _, sport := range req.Sports[start:end] {
			regions := req.Regions
			if len(regions) == 0 {
				regions = catalog.RegionsFor(sport)
			}

			for i, region := range regions {
				wg.Add(1)
				go func(sport string, region models.Region, stagger time.Duration) {
					defer wg.Done()
					if quotaHit.Load() || noKey.Load() {
						return
					}
					if stagger > 0 {
						select {
						case <-ctx.Done():
							return
						case <-time.After(stagger):
						}
					}
					o.fetchShard(ctx, sport, region, req, acc, &deliverMu, &quotaHit, &noKey)
				}(sport, region, time.Duration(i)*o.regionDelay)
			}
		}
		wg.Wait()

		if end < len(req.Sports) && !quotaHit.Load() && !noKey.Load() {
			select {
			case <-ctx.Done():
				return acc.Snapshot(), ctx.Err()
			case <-time.After(o.batchDelay):
			}
		}
	}

	snapshot := acc.Snapshot()
	if noKey.Load() && len(snapshot) == 0 {
		return nil, theoddsapi.ErrNoAPIKey
	}
	return snapshot, nil
}

// fetchShard fetches, validates and merges one (sport, region) unit.
func (o *Orchestrator) fetchShard(
	ctx context.Context,
	sport string,
	region models.Region,
	req Request,
	acc *eventcache.Accumulator,
	deliverMu *sync.Mutex,
	quotaHit, noKey *atomic.Bool,
) {
	raws, err := o.source.FetchOdds(ctx, sport, region)
	if err != nil {
		o.classifyShardError(err, sport, region, quotaHit, noKey)
		return
	}
	metrics.ShardsFetched.WithLabelValues("ok").Inc()

	accepted := make([]models.Event, 0, len(raws))
	for _, raw := range raws {
		res := o.val.Check(raw, req.Window)
		if res.IsFake {
			metrics.EventsRejected.WithLabelValues(reasonClass(res.Reasons)).Inc()
			continue
		}
		evt := o.norm.Normalize(raw, region)
		if !o.inWindow(evt, req.Window) {
			continue
		}
		metrics.EventsAccepted.Inc()
		accepted = append(accepted, evt)
	}

	if len(accepted) == 0 {
		return
	}

	// The lock is held through the callback: a later shard cannot take and
	// deliver a newer snapshot while an earlier delivery is still in the
	// consumer's hands, so the view never regresses.
	deliverMu.Lock()
	defer deliverMu.Unlock()
	acc.Upsert(accepted)
	if req.OnPartial != nil {
		req.OnPartial(acc.Snapshot())
	}
}

func (o *Orchestrator) classifyShardError(err error, sport string, region models.Region, quotaHit, noKey *atomic.Bool) {
	switch {
	case errors.Is(err, theoddsapi.ErrQuotaExhausted):
		metrics.ShardsFetched.WithLabelValues("quota").Inc()
		o.log.Warn("quota exhausted, aborting remaining fan-out",
			zap.String("sport", sport), zap.String("region", string(region)))
		quotaHit.Store(true)
	case errors.Is(err, theoddsapi.ErrNoAPIKey):
		metrics.ShardsFetched.WithLabelValues("no_key").Inc()
		noKey.Store(true)
	case errors.Is(err, theoddsapi.ErrUnsupported):
		metrics.ShardsFetched.WithLabelValues("unsupported").Inc()
		o.log.Debug("unsupported shard, skipping",
			zap.String("sport", sport), zap.String("region", string(region)))
	case errors.Is(err, theoddsapi.ErrUnauthorized):
		metrics.ShardsFetched.WithLabelValues("unauthorized").Inc()
		o.log.Warn("api key rejected, will re-resolve on next request",
			zap.String("sport", sport), zap.String("region", string(region)))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		metrics.ShardsFetched.WithLabelValues("cancelled").Inc()
	default:
		metrics.ShardsFetched.WithLabelValues("error").Inc()
		o.log.Warn("shard fetch failed, skipping",
			zap.String("sport", sport), zap.String("region", string(region)), zap.Error(err))
	}
}

// inWindow applies the final temporal band after normalization. The
// validator's tolerances are looser than the display bands; events landing
// in neither band (the (0,1h] gap, or long finished) are excluded here.
func (o *Orchestrator) inWindow(evt models.Event, w validator.Window) bool {
	delta := evt.CommenceTime.Sub(o.now())
	switch w {
	case validator.WindowLive:
		return normalizer.IsLive(delta)
	case validator.WindowUpcoming:
		return normalizer.IsUpcoming(delta)
	default:
		return normalizer.IsLive(delta) || normalizer.IsUpcoming(delta)
	}
}

// reasonClass buckets a rejection reason list into a low-cardinality metric
// label.
func reasonClass(reasons []string) string {
	if len(reasons) == 0 {
		return "unknown"
	}
	first := reasons[0]
	switch {
	case strings.Contains(first, "team"):
		return "team"
	case strings.Contains(first, "book"):
		return "bookmaker"
	case strings.Contains(first, "price"):
		return "odds"
	case strings.Contains(first, "commence"):
		return "timestamp"
	case strings.Contains(first, "sport"), strings.Contains(first, "league"):
		return "sport"
	default:
		return "other"
	}
}
