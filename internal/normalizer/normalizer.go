package normalizer

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/oddsdeck/oddsdeck/internal/catalog"
	"github.com/oddsdeck/oddsdeck/pkg/models"
)

const (
	liveWindowStart = -4 * time.Hour
	upcomingMinLead = time.Hour
	upcomingMaxLead = 168 * time.Hour

	drawOutcome = "Draw"
)

// Normalizer maps validated raw provider events into canonical Events:
// best-price extraction across bookmakers, decimal→American conversion,
// live/upcoming classification and draw suppression.
type Normalizer struct {
	now func() time.Time
	rng *rand.Rand
}

// New creates a normalizer. The randomness source only feeds advisory fields
// (scores, analysis); pass nil to leave them zeroed.
func New(rng *rand.Rand) *Normalizer {
	return &Normalizer{now: time.Now, rng: rng}
}

// WithClock overrides the time source, for tests.
func (n *Normalizer) WithClock(now func() time.Time) *Normalizer {
	n.now = now
	return n
}

// Normalize converts a raw event fetched for one region into the canonical
// form. The caller is responsible for having validated the input first.
func (n *Normalizer) Normalize(raw models.RawOddsEvent, region models.Region) models.Event {
	commence, _ := time.Parse(time.RFC3339, raw.CommenceTime)
	now := n.now()
	delta := commence.Sub(now)

	gameType := inferGameType(raw.SportTitle)

	evt := models.Event{
		ID:           raw.ID,
		Sport:        catalog.Category(raw.SportKey),
		League:       raw.SportTitle,
		HomeTeam:     strings.TrimSpace(raw.HomeTeam),
		AwayTeam:     strings.TrimSpace(raw.AwayTeam),
		Region:       region,
		CommenceTime: commence,
		IsLive:       IsLive(delta),
		GameType:     gameType,
	}

	evt.MoneylineHome = DecimalToAmerican(bestPrice(raw, evt.HomeTeam))
	evt.MoneylineAway = DecimalToAmerican(bestPrice(raw, evt.AwayTeam))

	// Draw odds only exist for draw-capable sports, and knockout games in
	// those sports cannot end in a draw regardless of what the book lists.
	if catalog.IsDrawCapable(raw.SportKey) && !gameType.IsPlayoff() {
		evt.MoneylineDraw = DecimalToAmerican(bestPrice(raw, drawOutcome))
	}

	evt.Spread = extractSpread(raw, evt.HomeTeam)
	evt.Total = extractTotal(raw)
	evt.TimeLeft = FormatTimeLeft(delta)

	if evt.IsLive && n.rng != nil {
		evt.HomeScore = n.rng.Intn(120)
		evt.AwayScore = n.rng.Intn(120)
	}
	if n.rng != nil {
		evt.Analysis = n.buildAnalysis(evt)
	}

	return evt
}

// IsLive reports whether an event with the given commence-time delta is in
// the live window: started within the last 4 hours.
func IsLive(delta time.Duration) bool {
	return delta >= liveWindowStart && delta <= 0
}

// IsUpcoming reports whether the delta falls in the upcoming window: strictly
// more than 1 hour and less than 7 days out. The (0,1h] gap between the live
// and upcoming windows is intentional and events there belong to neither.
func IsUpcoming(delta time.Duration) bool {
	return delta > upcomingMinLead && delta < upcomingMaxLead
}

// bestPrice returns the highest decimal price offered for an outcome name
// across all bookmakers' h2h markets. Highest is best for the bettor. Ties
// keep the first price encountered. Returns 0 when no book lists the outcome.
func bestPrice(raw models.RawOddsEvent, outcomeName string) float64 {
	if outcomeName == "" {
		return 0
	}
	best := 0.0
	for _, bk := range raw.Bookmakers {
		for _, mk := range bk.Markets {
			if mk.Key != "h2h" {
				continue
			}
			for _, out := range mk.Outcomes {
				if !strings.EqualFold(strings.TrimSpace(out.Name), outcomeName) {
					continue
				}
				if out.Price > best {
					best = out.Price
				}
			}
		}
	}
	return best
}

// extractSpread returns the home-side spread line from the first bookmaker
// that carries one, formatted with an explicit sign.
func extractSpread(raw models.RawOddsEvent, homeTeam string) string {
	for _, bk := range raw.Bookmakers {
		for _, mk := range bk.Markets {
			if mk.Key != "spreads" {
				continue
			}
			for _, out := range mk.Outcomes {
				if !strings.EqualFold(strings.TrimSpace(out.Name), homeTeam) || out.Point == nil {
					continue
				}
				return fmt.Sprintf("%+.1f", *out.Point)
			}
		}
	}
	return ""
}

// extractTotal returns the over/under line from the first bookmaker carrying
// a totals market.
func extractTotal(raw models.RawOddsEvent) string {
	for _, bk := range raw.Bookmakers {
		for _, mk := range bk.Markets {
			if mk.Key != "totals" {
				continue
			}
			for _, out := range mk.Outcomes {
				if out.Point != nil {
					return fmt.Sprintf("%.1f", *out.Point)
				}
			}
		}
	}
	return ""
}

// inferGameType classifies the competition stage from the league title.
func inferGameType(sportTitle string) models.GameType {
	lower := strings.ToLower(sportTitle)
	switch {
	case strings.Contains(lower, "final"):
		return models.GameTypeFinal
	case strings.Contains(lower, "championship"):
		return models.GameTypeChampionship
	case strings.Contains(lower, "playoff"):
		return models.GameTypePlayoff
	default:
		return models.GameTypeRegular
	}
}

// FormatTimeLeft renders a display string for the dashboard.
func FormatTimeLeft(delta time.Duration) string {
	switch {
	case IsLive(delta):
		elapsed := -delta
		return fmt.Sprintf("%dh %02dm elapsed", int(elapsed.Hours()), int(elapsed.Minutes())%60)
	case delta > 0 && delta < 24*time.Hour:
		return fmt.Sprintf("starts in %dh %02dm", int(delta.Hours()), int(delta.Minutes())%60)
	case delta >= 24*time.Hour:
		return fmt.Sprintf("starts in %dd", int(delta.Hours()/24))
	default:
		return "finished"
	}
}

// buildAnalysis produces the advisory block shown alongside an event. None
// of this feeds back into the pipeline.
func (n *Normalizer) buildAnalysis(evt models.Event) *models.Analysis {
	momentum := "neutral"
	favorite := evt.HomeTeam
	switch n.rng.Intn(3) {
	case 0:
		momentum = "home"
	case 1:
		momentum = "away"
		favorite = evt.AwayTeam
	}
	return &models.Analysis{
		Confidence: 55 + n.rng.Intn(41),
		Momentum:   momentum,
		Prediction: fmt.Sprintf("%s favored against %s", favorite, other(evt, favorite)),
	}
}

func other(evt models.Event, team string) string {
	if team == evt.HomeTeam {
		return evt.AwayTeam
	}
	return evt.HomeTeam
}
