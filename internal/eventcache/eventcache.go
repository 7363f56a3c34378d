package eventcache

import (
	"sort"
	"sync"
	"time"

	"github.com/oddsdeck/oddsdeck/pkg/models"
)

// Accumulator is the in-memory merge map one logical query populates with
// progressively arriving shard results. Entries are keyed by (event id,
// region) and upserted, so a later refresh of the same event supersedes the
// earlier one instead of duplicating it.
type Accumulator struct {
	mu     sync.Mutex
	events map[string]models.Event
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{events: make(map[string]models.Event)}
}

// Seed pre-populates the accumulator with a previously displayed result set,
// so a transient fetch failure leaves old data visible instead of blanking
// the view.
func (a *Accumulator) Seed(events []models.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, evt := range events {
		a.events[evt.Key()] = evt
	}
}

// Upsert merges a batch into the map, replacing by key.
func (a *Accumulator) Upsert(events []models.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, evt := range events {
		a.events[evt.Key()] = evt
	}
}

// Snapshot returns the current accumulated set ordered by commence time,
// ties broken by key for stability.
func (a *Accumulator) Snapshot() []models.Event {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]models.Event, 0, len(a.events))
	for _, evt := range a.events {
		out = append(out, evt)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CommenceTime.Equal(out[j].CommenceTime) {
			return out[i].CommenceTime.Before(out[j].CommenceTime)
		}
		return out[i].Key() < out[j].Key()
	})
	return out
}

// Len returns the number of accumulated events.
func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.events)
}

type resultEntry struct {
	events    []models.Event
	expiresAt time.Time
}

// ResultCache gates whether a cached result set for a logical query is
// reused without a network call at all. TTL is checked on read; there is no
// janitor because the key space is the small fixed set of query names.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[string]resultEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewResultCache creates a result cache with the given reuse window.
func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{
		entries: make(map[string]resultEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (c *ResultCache) WithClock(now func() time.Time) *ResultCache {
	c.now = now
	return c
}

// Get returns the cached result set for a query key if it has not expired.
func (c *ResultCache) Get(key string) ([]models.Event, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || c.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.events, true
}

// Set stores a result set for a query key.
func (c *ResultCache) Set(key string, events []models.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = resultEntry{
		events:    events,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Invalidate drops a query key, forcing the next call to refetch.
func (c *ResultCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
