package eventcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oddsdeck/oddsdeck/pkg/models"
)

func evt(id string, region models.Region, home string, commence time.Time) models.Event {
	return models.Event{
		ID:           id,
		Region:       region,
		HomeTeam:     home,
		CommenceTime: commence,
	}
}

func TestAccumulator_UpsertReplacesByKey(t *testing.T) {
	acc := NewAccumulator()
	base := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	acc.Upsert([]models.Event{evt("e1", models.RegionUS, "Boston Celtics", base)})
	acc.Upsert([]models.Event{evt("e1", models.RegionUS, "Boston Celtics Updated", base)})

	require.Equal(t, 1, acc.Len())
	assert.Equal(t, "Boston Celtics Updated", acc.Snapshot()[0].HomeTeam)
}

func TestAccumulator_SameEventDifferentRegionsAreDistinct(t *testing.T) {
	acc := NewAccumulator()
	base := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	acc.Upsert([]models.Event{
		evt("e1", models.RegionUS, "Arsenal", base),
		evt("e1", models.RegionUK, "Arsenal", base),
	})

	assert.Equal(t, 2, acc.Len())
}

func TestAccumulator_SnapshotOrderedByCommenceTime(t *testing.T) {
	acc := NewAccumulator()
	base := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	acc.Upsert([]models.Event{
		evt("late", models.RegionUS, "A", base.Add(2*time.Hour)),
		evt("early", models.RegionUS, "B", base),
		evt("mid", models.RegionUS, "C", base.Add(time.Hour)),
	})

	snap := acc.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "early", snap[0].ID)
	assert.Equal(t, "mid", snap[1].ID)
	assert.Equal(t, "late", snap[2].ID)
}

func TestAccumulator_SeedThenUpsertSupersedes(t *testing.T) {
	acc := NewAccumulator()
	base := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	acc.Seed([]models.Event{
		evt("e1", models.RegionUS, "Stale", base),
		evt("e2", models.RegionUS, "Kept", base),
	})
	acc.Upsert([]models.Event{evt("e1", models.RegionUS, "Fresh", base)})

	snap := acc.Snapshot()
	require.Len(t, snap, 2)
	byID := map[string]models.Event{}
	for _, e := range snap {
		byID[e.ID] = e
	}
	assert.Equal(t, "Fresh", byID["e1"].HomeTeam)
	assert.Equal(t, "Kept", byID["e2"].HomeTeam)
}

func TestResultCache_TTLExpiry(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	cache := NewResultCache(30 * time.Second).WithClock(func() time.Time { return now })

	cache.Set("live", []models.Event{evt("e1", models.RegionUS, "A", now)})

	got, ok := cache.Get("live")
	require.True(t, ok)
	assert.Len(t, got, 1)

	now = now.Add(31 * time.Second)
	_, ok = cache.Get("live")
	assert.False(t, ok)
}

func TestResultCache_Invalidate(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	cache := NewResultCache(time.Minute).WithClock(func() time.Time { return now })

	cache.Set("upcoming", []models.Event{evt("e1", models.RegionUS, "A", now)})
	cache.Invalidate("upcoming")

	_, ok := cache.Get("upcoming")
	assert.False(t, ok)
}

func TestResultCache_MissOnUnknownKey(t *testing.T) {
	cache := NewResultCache(time.Minute)
	_, ok := cache.Get("never-set")
	assert.False(t, ok)
}
