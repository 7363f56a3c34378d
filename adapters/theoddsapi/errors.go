package theoddsapi

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAPIKey means only the "demo" sentinel key is available; the
	// client refuses to spend quota on the odds endpoint in that state.
	ErrNoAPIKey = errors.New("no valid api key available")

	// ErrUnauthorized maps HTTP 401. The cached key has been invalidated
	// and the next call re-resolves it.
	ErrUnauthorized = errors.New("api key rejected")

	// ErrUnsupported maps HTTP 422: the sport/region/market combination is
	// invalid. Callers skip the shard and never retry it.
	ErrUnsupported = errors.New("unsupported sport/region/market combination")

	// ErrQuotaExhausted maps HTTP 429. Callers abort the remaining fan-out
	// and keep whatever already accumulated.
	ErrQuotaExhausted = errors.New("request quota exhausted")
)

// APIError represents a non-2xx response outside the classified codes.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}
