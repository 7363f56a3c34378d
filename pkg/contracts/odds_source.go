package contracts

import (
	"context"

	"github.com/oddsdeck/oddsdeck/pkg/models"
)

// OddsSource defines the interface for fetching raw odds from a provider.
// Keeping this narrow lets the orchestrator run against the live API or a
// fixture-backed source in tests.
type OddsSource interface {
	// FetchOdds retrieves raw events for one (sport, region) shard.
	FetchOdds(ctx context.Context, sportKey string, region models.Region) ([]models.RawOddsEvent, error)

	// FetchSports retrieves the provider's sport catalog.
	FetchSports(ctx context.Context) ([]models.Sport, error)

	// RateLimits returns the provider-reported request budget.
	RateLimits() models.RateLimits
}

// KeyResolver resolves the provider API key. Secret management itself lives
// outside this service; implementations return the sentinel "demo" when no
// valid key is available.
type KeyResolver interface {
	ResolveKey(ctx context.Context) (string, error)
}

// KeyResolverFunc adapts a function to the KeyResolver interface.
type KeyResolverFunc func(ctx context.Context) (string, error)

func (f KeyResolverFunc) ResolveKey(ctx context.Context) (string, error) {
	return f(ctx)
}
