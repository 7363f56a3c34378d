package theoddsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oddsdeck/oddsdeck/pkg/contracts"
	"github.com/oddsdeck/oddsdeck/pkg/models"
)

func staticResolver(key string) contracts.KeyResolver {
	return contracts.KeyResolverFunc(func(context.Context) (string, error) {
		return key, nil
	})
}

func newTestClient(t *testing.T, handler http.HandlerFunc, resolver contracts.KeyResolver, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithBaseURL(srv.URL), WithSpacing(0)}, opts...)
	return NewClient(resolver, nil, opts...)
}

const oddsPayload = `[{
	"id": "abc123",
	"sport_key": "basketball_nba",
	"sport_title": "NBA",
	"commence_time": "2025-06-15T19:00:00Z",
	"home_team": "Boston Celtics",
	"away_team": "Miami Heat",
	"bookmakers": [{
		"key": "draftkings",
		"title": "DraftKings",
		"markets": [{
			"key": "h2h",
			"outcomes": [
				{"name": "Boston Celtics", "price": 1.91},
				{"name": "Miami Heat", "price": 2.05}
			]
		}]
	}]
}]`

func TestFetchOdds_ParsesPayloadAndQuery(t *testing.T) {
	var gotQuery map[string]string
	var mu sync.Mutex

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotQuery = map[string]string{
			"apiKey":     r.URL.Query().Get("apiKey"),
			"regions":    r.URL.Query().Get("regions"),
			"markets":    r.URL.Query().Get("markets"),
			"oddsFormat": r.URL.Query().Get("oddsFormat"),
		}
		mu.Unlock()
		w.Write([]byte(oddsPayload))
	}, staticResolver("real-key"))

	events, err := c.FetchOdds(context.Background(), "basketball_nba", models.RegionUS)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "abc123", events[0].ID)
	assert.Equal(t, "Boston Celtics", events[0].HomeTeam)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "real-key", gotQuery["apiKey"])
	assert.Equal(t, "us", gotQuery["regions"])
	assert.Equal(t, "h2h,spreads,totals", gotQuery["markets"])
	assert.Equal(t, "decimal", gotQuery["oddsFormat"])
}

func TestFetchOdds_H2HOnlySportNarrowsMarkets(t *testing.T) {
	var markets string
	var mu sync.Mutex

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		markets = r.URL.Query().Get("markets")
		mu.Unlock()
		w.Write([]byte(`[]`))
	}, staticResolver("real-key"))

	_, err := c.FetchOdds(context.Background(), "mma_mixed_martial_arts", models.RegionUS)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "h2h", markets)
}

func TestFetchOdds_DemoKeyRefusesWithoutNetworkCall(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, staticResolver(""))

	_, err := c.FetchOdds(context.Background(), "basketball_nba", models.RegionUS)
	assert.ErrorIs(t, err, ErrNoAPIKey)
	assert.False(t, called, "demo sentinel must short-circuit before HTTP")
}

func TestFetchOdds_ResolverErrorFallsBackToDemo(t *testing.T) {
	resolver := contracts.KeyResolverFunc(func(context.Context) (string, error) {
		return "", errors.New("secrets backend down")
	})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {}, resolver)

	_, err := c.FetchOdds(context.Background(), "basketball_nba", models.RegionUS)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestFetchOdds_StatusClassification(t *testing.T) {
	cases := []struct {
		status  int
		wantErr error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusUnprocessableEntity, ErrUnsupported},
		{http.StatusTooManyRequests, ErrQuotaExhausted},
	}

	for _, tc := range cases {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}, staticResolver("real-key"))

		_, err := c.FetchOdds(context.Background(), "basketball_nba", models.RegionUS)
		assert.ErrorIs(t, err, tc.wantErr, "status %d", tc.status)
	}
}

func TestFetchOdds_ServerErrorYieldsAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream broke"))
	}, staticResolver("real-key"))

	_, err := c.FetchOdds(context.Background(), "basketball_nba", models.RegionUS)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "upstream broke")
}

func TestUnauthorizedInvalidatesCachedKey(t *testing.T) {
	var mu sync.Mutex
	resolves := 0
	resolver := contracts.KeyResolverFunc(func(context.Context) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		resolves++
		return "rotating-key", nil
	})

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, resolver)

	_, err := c.FetchOdds(context.Background(), "basketball_nba", models.RegionUS)
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = c.FetchOdds(context.Background(), "basketball_nba", models.RegionUS)
	require.ErrorIs(t, err, ErrUnauthorized)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, resolves, "401 must force re-resolution on the next request")
}

func TestKeyCaching_ReusesResolvedKeyWithinTTL(t *testing.T) {
	var mu sync.Mutex
	resolves := 0
	resolver := contracts.KeyResolverFunc(func(context.Context) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		resolves++
		return "real-key", nil
	})

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}, resolver, WithKeyCacheTTL(time.Hour))

	for i := 0; i < 3; i++ {
		_, err := c.FetchOdds(context.Background(), "basketball_nba", models.RegionUS)
		require.NoError(t, err)
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, resolves)
}

func TestRequestSpacing_EnforcedBetweenCalls(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}, staticResolver("real-key"), WithSpacing(100*time.Millisecond))

	start := time.Now()
	for i := 0; i < 2; i++ {
		_, err := c.FetchOdds(context.Background(), "basketball_nba", models.RegionUS)
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestRequestSpacing_CancelledContextUnblocks(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}, staticResolver("real-key"), WithSpacing(5*time.Second))

	_, err := c.FetchOdds(context.Background(), "basketball_nba", models.RegionUS)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.FetchOdds(ctx, "basketball_nba", models.RegionUS)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimits_ParsedFromHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-requests-remaining", "412")
		w.Header().Set("x-requests-used", "88")
		w.Write([]byte(`[]`))
	}, staticResolver("real-key"))

	_, err := c.FetchOdds(context.Background(), "basketball_nba", models.RegionUS)
	require.NoError(t, err)

	limits := c.RateLimits()
	assert.Equal(t, 412, limits.RequestsRemaining)
	assert.Equal(t, 88, limits.RequestsUsed)
	assert.False(t, limits.UpdatedAt.IsZero())
}

func TestRedactKey(t *testing.T) {
	redacted := redactKey("https://api.example.com/v4/sports?apiKey=supersecret&regions=us")
	assert.NotContains(t, redacted, "supersecret")
	assert.Contains(t, redacted, "apiKey=%2A%2A%2A")

	// URLs without a key pass through untouched.
	assert.Equal(t, "https://api.example.com/v4/sports?regions=us",
		redactKey("https://api.example.com/v4/sports?regions=us"))
}
