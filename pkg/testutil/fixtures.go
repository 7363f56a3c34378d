package testutil

import (
	"time"

	"github.com/oddsdeck/oddsdeck/pkg/models"
)

// NewRawEvent creates a plausible raw provider event commencing the given
// number of hours from now. Defaults are real-looking so it passes
// validation unless a test breaks it on purpose.
func NewRawEvent(id, homeTeam, awayTeam string, hoursUntilStart float64) models.RawOddsEvent {
	return models.RawOddsEvent{
		ID:           id,
		SportKey:     "basketball_nba",
		SportTitle:   "NBA",
		CommenceTime: time.Now().Add(time.Duration(hoursUntilStart * float64(time.Hour))).Format(time.RFC3339),
		HomeTeam:     homeTeam,
		AwayTeam:     awayTeam,
		Bookmakers: []models.Bookmaker{
			NewBookmaker("DraftKings", homeTeam, 1.91, awayTeam, 2.05),
		},
	}
}

// NewBookmaker creates a bookmaker with a single h2h market over two priced
// outcomes.
func NewBookmaker(title, name1 string, price1 float64, name2 string, price2 float64) models.Bookmaker {
	return models.Bookmaker{
		Key:   title,
		Title: title,
		Markets: []models.Market{
			{
				Key: "h2h",
				Outcomes: []models.Outcome{
					{Name: name1, Price: price1},
					{Name: name2, Price: price2},
				},
			},
		},
	}
}

// WithDraw appends a Draw outcome to every h2h market of the event.
func WithDraw(raw models.RawOddsEvent, price float64) models.RawOddsEvent {
	for bi := range raw.Bookmakers {
		for mi := range raw.Bookmakers[bi].Markets {
			if raw.Bookmakers[bi].Markets[mi].Key != "h2h" {
				continue
			}
			raw.Bookmakers[bi].Markets[mi].Outcomes = append(
				raw.Bookmakers[bi].Markets[mi].Outcomes,
				models.Outcome{Name: "Draw", Price: price},
			)
		}
	}
	return raw
}

// RawFromEvent rebuilds a raw provider payload from a canonical event so
// generated events can be run back through validation.
func RawFromEvent(evt models.Event, homePrice, awayPrice float64, sportKey, sportTitle string) models.RawOddsEvent {
	return models.RawOddsEvent{
		ID:           evt.ID,
		SportKey:     sportKey,
		SportTitle:   sportTitle,
		CommenceTime: evt.CommenceTime.Format(time.RFC3339),
		HomeTeam:     evt.HomeTeam,
		AwayTeam:     evt.AwayTeam,
		Bookmakers: []models.Bookmaker{
			NewBookmaker("FanDuel", evt.HomeTeam, homePrice, evt.AwayTeam, awayPrice),
		},
	}
}

// Float64Ptr creates a pointer to a float64 literal.
func Float64Ptr(val float64) *float64 {
	return &val
}
