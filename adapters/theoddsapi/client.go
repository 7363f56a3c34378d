package theoddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/oddsdeck/oddsdeck/internal/catalog"
	"github.com/oddsdeck/oddsdeck/internal/metrics"
	"github.com/oddsdeck/oddsdeck/pkg/contracts"
	"github.com/oddsdeck/oddsdeck/pkg/models"
)

const (
	defaultBaseURL = "https://api.the-odds-api.com"
	apiVersion     = "v4"
	userAgent      = "oddsdeck/1.0"

	defaultTimeout     = 10 * time.Second
	defaultSpacing     = time.Second
	defaultKeyCacheTTL = 5 * time.Minute

	// DemoKey is the sentinel the resolver returns when no real key exists.
	DemoKey = "demo"
)

// Client fetches raw odds from The Odds API. It owns two pieces of
// process-wide mutable state, each behind its own mutex: the cached API key
// and the last-request timestamp that enforces minimum inter-request spacing
// for every caller regardless of concurrency.
type Client struct {
	baseURL    string
	resolver   contracts.KeyResolver
	httpClient *http.Client
	log        *zap.Logger

	spacing     time.Duration
	keyCacheTTL time.Duration

	keyMu        sync.Mutex
	cachedKey    string
	keyFetchedAt time.Time

	reqMu       sync.Mutex
	lastRequest time.Time

	limitsMu   sync.RWMutex
	rateLimits models.RateLimits
}

var _ contracts.OddsSource = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the provider base URL, for tests.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = base }
}

// WithSpacing overrides the minimum inter-request interval.
func WithSpacing(d time.Duration) Option {
	return func(c *Client) { c.spacing = d }
}

// WithKeyCacheTTL overrides how long a resolved key is reused.
func WithKeyCacheTTL(d time.Duration) Option {
	return func(c *Client) { c.keyCacheTTL = d }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a client backed by the given key resolver.
func NewClient(resolver contracts.KeyResolver, log *zap.Logger, opts ...Option) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		baseURL:     defaultBaseURL,
		resolver:    resolver,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		log:         log,
		spacing:     defaultSpacing,
		keyCacheTTL: defaultKeyCacheTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchOdds retrieves raw events for one (sport, region) shard. Markets are
// narrowed per the sport's catalog capabilities so h2h-only sports do not
// trigger 422s.
func (c *Client) FetchOdds(ctx context.Context, sportKey string, region models.Region) ([]models.RawOddsEvent, error) {
	key, err := c.getKey(ctx)
	if err != nil {
		return nil, err
	}
	if key == DemoKey {
		return nil, ErrNoAPIKey
	}

	params := url.Values{}
	params.Set("apiKey", key)
	params.Set("regions", string(region))
	params.Set("markets", strings.Join(catalog.MarketsFor(sportKey), ","))
	params.Set("oddsFormat", "decimal")
	params.Set("dateFormat", "iso")

	endpoint := fmt.Sprintf("%s/%s/sports/%s/odds", c.baseURL, apiVersion, sportKey)
	body, err := c.doRequest(ctx, endpoint, params)
	if err != nil {
		return nil, fmt.Errorf("fetch odds %s/%s: %w", sportKey, region, err)
	}

	var events []models.RawOddsEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("parse odds response: %w", err)
	}
	return events, nil
}

// FetchSports retrieves the provider's sport catalog.
func (c *Client) FetchSports(ctx context.Context) ([]models.Sport, error) {
	key, err := c.getKey(ctx)
	if err != nil {
		return nil, err
	}
	if key == DemoKey {
		return nil, ErrNoAPIKey
	}

	params := url.Values{}
	params.Set("apiKey", key)

	endpoint := fmt.Sprintf("%s/%s/sports", c.baseURL, apiVersion)
	body, err := c.doRequest(ctx, endpoint, params)
	if err != nil {
		return nil, fmt.Errorf("fetch sports: %w", err)
	}

	var sports []models.Sport
	if err := json.Unmarshal(body, &sports); err != nil {
		return nil, fmt.Errorf("parse sports response: %w", err)
	}
	return sports, nil
}

// RateLimits returns the provider-reported request budget.
func (c *Client) RateLimits() models.RateLimits {
	c.limitsMu.RLock()
	defer c.limitsMu.RUnlock()
	return c.rateLimits
}

// getKey returns the cached key, re-resolving after the cache TTL. Resolution
// failure falls back to the demo sentinel rather than erroring, so callers
// get the uniform "no key" refusal.
func (c *Client) getKey(ctx context.Context) (string, error) {
	c.keyMu.Lock()
	defer c.keyMu.Unlock()

	if c.cachedKey != "" && time.Since(c.keyFetchedAt) < c.keyCacheTTL {
		return c.cachedKey, nil
	}

	key, err := c.resolver.ResolveKey(ctx)
	if err != nil {
		c.log.Warn("api key resolution failed, using demo sentinel", zap.Error(err))
		key = DemoKey
	}
	if key == "" {
		key = DemoKey
	}

	c.cachedKey = key
	c.keyFetchedAt = time.Now()
	return key, nil
}

// invalidateKey drops the cached key so the next call re-resolves it.
func (c *Client) invalidateKey() {
	c.keyMu.Lock()
	defer c.keyMu.Unlock()
	c.cachedKey = ""
	c.keyFetchedAt = time.Time{}
}

// waitTurn blocks until this request's slot in the process-wide spacing
// schedule. Each caller claims the next slot under the mutex and then sleeps
// outside it, so N concurrent callers end up spaced N intervals apart.
func (c *Client) waitTurn(ctx context.Context) error {
	c.reqMu.Lock()
	now := time.Now()
	next := c.lastRequest.Add(c.spacing)
	if next.Before(now) {
		next = now
	}
	c.lastRequest = next
	c.reqMu.Unlock()

	wait := time.Until(next)
	if wait <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}

// doRequest performs a single spaced HTTP request and classifies the
// response status.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := c.waitTurn(ctx); err != nil {
		return nil, err
	}

	fullURL := endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	c.log.Debug("provider request", zap.String("url", redactKey(fullURL)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ProviderRequests.WithLabelValues("transport_error").Inc()
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()
	metrics.ProviderRequests.WithLabelValues(outcomeClass(resp.StatusCode)).Inc()

	c.updateRateLimits(resp.Header)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusUnauthorized:
		c.invalidateKey()
		return nil, ErrUnauthorized
	case http.StatusUnprocessableEntity:
		return nil, ErrUnsupported
	case http.StatusTooManyRequests:
		return nil, ErrQuotaExhausted
	default:
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}
}

// outcomeClass buckets a response status into a low-cardinality metric label.
func outcomeClass(status int) string {
	switch status {
	case http.StatusOK:
		return "ok"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusUnprocessableEntity:
		return "unsupported"
	case http.StatusTooManyRequests:
		return "quota"
	default:
		return "error"
	}
}

// updateRateLimits extracts the request budget from response headers.
func (c *Client) updateRateLimits(headers http.Header) {
	c.limitsMu.Lock()
	defer c.limitsMu.Unlock()

	if remaining := headers.Get("x-requests-remaining"); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			c.rateLimits.RequestsRemaining = val
		}
	}
	if used := headers.Get("x-requests-used"); used != "" {
		if val, err := strconv.Atoi(used); err == nil {
			c.rateLimits.RequestsUsed = val
		}
	}
	c.rateLimits.UpdatedAt = time.Now()
}

// redactKey masks the apiKey query value so the key never reaches logs.
func redactKey(fullURL string) string {
	u, err := url.Parse(fullURL)
	if err != nil {
		return "(unparseable url)"
	}
	q := u.Query()
	if q.Has("apiKey") {
		q.Set("apiKey", "***")
	}
	u.RawQuery = q.Encode()
	return u.String()
}
