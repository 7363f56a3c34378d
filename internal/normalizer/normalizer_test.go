package normalizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/oddsdeck/oddsdeck/pkg/models"
	"github.com/oddsdeck/oddsdeck/pkg/testutil"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestNormalizer() *Normalizer {
	return New(nil).WithClock(func() time.Time { return fixedNow })
}

func TestNormalize_PicksBestPriceAcrossBookmakers(t *testing.T) {
	n := newTestNormalizer()

	raw := testutil.NewRawEvent("evt1", "Boston Celtics", "Miami Heat", 5)
	raw.CommenceTime = fixedNow.Add(5 * time.Hour).Format(time.RFC3339)
	raw.Bookmakers = []models.Bookmaker{
		testutil.NewBookmaker("DraftKings", "Boston Celtics", 1.91, "Miami Heat", 2.05),
		testutil.NewBookmaker("FanDuel", "Boston Celtics", 1.95, "Miami Heat", 2.00),
	}

	evt := n.Normalize(raw, models.RegionUS)

	// 1.95 beats 1.91 for home, 2.05 beats 2.00 for away.
	assert.Equal(t, "-105", evt.MoneylineHome)
	assert.Equal(t, "+105", evt.MoneylineAway)
	assert.Equal(t, "basketball", evt.Sport)
	assert.Equal(t, models.RegionUS, evt.Region)
}

func TestNormalize_MissingOutcomeYieldsNA(t *testing.T) {
	n := newTestNormalizer()

	raw := testutil.NewRawEvent("evt1", "Boston Celtics", "Miami Heat", 5)
	raw.CommenceTime = fixedNow.Add(5 * time.Hour).Format(time.RFC3339)
	raw.Bookmakers = []models.Bookmaker{
		testutil.NewBookmaker("DraftKings", "Boston Celtics", 1.91, "Someone Else", 2.05),
	}

	evt := n.Normalize(raw, models.RegionUS)
	assert.Equal(t, models.OddsNA, evt.MoneylineAway)
}

func TestNormalize_DrawOdds(t *testing.T) {
	cases := []struct {
		name       string
		sportKey   string
		sportTitle string
		wantDraw   string
	}{
		{"draw capable regular season", "soccer_epl", "Premier League", "+230"},
		{"draw capable but playoff", "soccer_uefa_champs_league", "Champions League Playoffs", ""},
		{"draw capable but final", "soccer_epl", "FA Cup Final", ""},
		{"not draw capable", "basketball_nba", "NBA", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := newTestNormalizer()

			raw := testutil.NewRawEvent("evt1", "Arsenal", "Chelsea", 5)
			raw.SportKey = tc.sportKey
			raw.SportTitle = tc.sportTitle
			raw.CommenceTime = fixedNow.Add(5 * time.Hour).Format(time.RFC3339)
			raw = testutil.WithDraw(raw, 3.30)

			evt := n.Normalize(raw, models.RegionUK)
			assert.Equal(t, tc.wantDraw, evt.MoneylineDraw)
		})
	}
}

func TestNormalize_SpreadAndTotal(t *testing.T) {
	n := newTestNormalizer()

	raw := testutil.NewRawEvent("evt1", "Boston Celtics", "Miami Heat", 5)
	raw.CommenceTime = fixedNow.Add(5 * time.Hour).Format(time.RFC3339)
	raw.Bookmakers[0].Markets = append(raw.Bookmakers[0].Markets,
		models.Market{
			Key: "spreads",
			Outcomes: []models.Outcome{
				{Name: "Boston Celtics", Price: 1.91, Point: testutil.Float64Ptr(-4.5)},
				{Name: "Miami Heat", Price: 1.91, Point: testutil.Float64Ptr(4.5)},
			},
		},
		models.Market{
			Key: "totals",
			Outcomes: []models.Outcome{
				{Name: "Over", Price: 1.87, Point: testutil.Float64Ptr(215.5)},
				{Name: "Under", Price: 1.95, Point: testutil.Float64Ptr(215.5)},
			},
		},
	)

	evt := n.Normalize(raw, models.RegionUS)
	assert.Equal(t, "-4.5", evt.Spread)
	assert.Equal(t, "215.5", evt.Total)
}

func TestWindows_LiveAndUpcomingAreDisjoint(t *testing.T) {
	cases := []struct {
		name         string
		delta        time.Duration
		wantLive     bool
		wantUpcoming bool
	}{
		{"started 2h ago", -2 * time.Hour, true, false},
		{"started just now", 0, true, false},
		{"started 4h ago", -4 * time.Hour, true, false},
		{"started 5h ago", -5 * time.Hour, false, false},
		{"starts in 30m", 30 * time.Minute, false, false},
		{"starts in exactly 1h", time.Hour, false, false},
		{"starts in 90m", 90 * time.Minute, false, true},
		{"starts in 3 days", 72 * time.Hour, false, true},
		{"starts in exactly 7 days", 168 * time.Hour, false, false},
		{"starts in 8 days", 192 * time.Hour, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantLive, IsLive(tc.delta))
			assert.Equal(t, tc.wantUpcoming, IsUpcoming(tc.delta))
			assert.False(t, IsLive(tc.delta) && IsUpcoming(tc.delta))
		})
	}
}

func TestNormalize_LiveFlagFollowsClock(t *testing.T) {
	n := newTestNormalizer()

	raw := testutil.NewRawEvent("evt1", "Boston Celtics", "Miami Heat", 0)
	raw.CommenceTime = fixedNow.Add(-90 * time.Minute).Format(time.RFC3339)

	evt := n.Normalize(raw, models.RegionUS)
	assert.True(t, evt.IsLive)
	assert.Equal(t, "1h 30m elapsed", evt.TimeLeft)
}

func TestFormatTimeLeft(t *testing.T) {
	assert.Equal(t, "0h 45m elapsed", FormatTimeLeft(-45*time.Minute))
	assert.Equal(t, "starts in 2h 15m", FormatTimeLeft(2*time.Hour+15*time.Minute))
	assert.Equal(t, "starts in 3d", FormatTimeLeft(76*time.Hour))
	assert.Equal(t, "finished", FormatTimeLeft(-30*time.Hour))
}

func TestInferGameType(t *testing.T) {
	assert.Equal(t, models.GameTypeRegular, inferGameType("NBA"))
	assert.Equal(t, models.GameTypePlayoff, inferGameType("NHL Playoffs"))
	assert.Equal(t, models.GameTypeChampionship, inferGameType("PGA Championship"))
	assert.Equal(t, models.GameTypeFinal, inferGameType("Grand Final"))
}
