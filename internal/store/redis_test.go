package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oddsdeck/oddsdeck/pkg/models"
)

// fakeRedisHook answers GET/SET/PING from an in-memory map instead of
// dialing a server. The hook never calls next, so no connection is made.
type fakeRedisHook struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeRedis() (*redis.Client, *fakeRedisHook) {
	hook := &fakeRedisHook{data: make(map[string]string)}
	rdb := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	rdb.AddHook(hook)
	return rdb, hook
}

func (h *fakeRedisHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *fakeRedisHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (h *fakeRedisHook) ProcessHook(redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		h.mu.Lock()
		defer h.mu.Unlock()
		switch c := cmd.(type) {
		case *redis.StringCmd: // GET
			key := argString(c.Args()[1])
			val, ok := h.data[key]
			if !ok {
				c.SetErr(redis.Nil)
				return redis.Nil
			}
			c.SetVal(val)
		case *redis.StatusCmd: // SET, PING
			if argString(c.Args()[0]) == "set" {
				h.data[argString(c.Args()[1])] = argString(c.Args()[2])
			}
			c.SetVal("OK")
		}
		return nil
	}
}

func argString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(s)
	}
}

func TestResultStore_RoundTrip(t *testing.T) {
	rdb, _ := newFakeRedis()
	s := NewResultStore(rdb, time.Minute)
	ctx := context.Background()

	want := []models.Event{testEvent("e1", models.RegionUS), testEvent("e2", models.RegionUK)}
	require.NoError(t, s.Set(ctx, "live", want))

	got, found, err := s.Get(ctx, "live")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, got, 2)
	assert.Equal(t, "e1", got[0].ID)
	assert.Equal(t, models.RegionUK, got[1].Region)
}

func TestResultStore_MissOnUnknownQuery(t *testing.T) {
	rdb, _ := newFakeRedis()
	s := NewResultStore(rdb, time.Minute)

	_, found, err := s.Get(context.Background(), "never-set")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResultStore_CorruptEntryBehavesAsMiss(t *testing.T) {
	rdb, hook := newFakeRedis()
	s := NewResultStore(rdb, time.Minute)

	hook.mu.Lock()
	hook.data["oddsdeck:results:live"] = "{not valid json"
	hook.mu.Unlock()

	events, found, err := s.Get(context.Background(), "live")
	require.NoError(t, err, "corrupt entries are a miss, not an error")
	assert.False(t, found)
	assert.Nil(t, events)
}

func TestResultStore_Ping(t *testing.T) {
	rdb, _ := newFakeRedis()
	s := NewResultStore(rdb, time.Minute)

	assert.NoError(t, s.Ping(context.Background()))
}
