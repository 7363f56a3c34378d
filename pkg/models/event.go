package models

import "time"

// Region identifies one of the provider's geographic odds regions.
type Region string

const (
	RegionUS Region = "us"
	RegionUK Region = "uk"
	RegionEU Region = "eu"
	RegionAU Region = "au"
)

// AllRegions is the fixed region set every fan-out covers.
func AllRegions() []Region {
	return []Region{RegionUS, RegionUK, RegionEU, RegionAU}
}

// ParseRegion maps a case-insensitive region name to a Region.
func ParseRegion(s string) (Region, bool) {
	switch s {
	case "us", "US":
		return RegionUS, true
	case "uk", "UK":
		return RegionUK, true
	case "eu", "EU":
		return RegionEU, true
	case "au", "AU":
		return RegionAU, true
	}
	return "", false
}

// OddsNA is the sentinel for a moneyline that could not be derived from a
// validated price. Odds fields are either a signed American-odds string or
// this value, never a raw unchecked number.
const OddsNA = "N/A"

// GameType classifies the stage of competition an event belongs to.
type GameType string

const (
	GameTypeRegular      GameType = "Regular Season"
	GameTypePlayoff      GameType = "Playoff"
	GameTypeChampionship GameType = "Championship"
	GameTypeFinal        GameType = "Final"
)

// IsPlayoff reports whether the game type is a knockout stage. Draw odds are
// suppressed for these even in draw-capable sports.
func (g GameType) IsPlayoff() bool {
	return g == GameTypePlayoff || g == GameTypeChampionship || g == GameTypeFinal
}

// Analysis carries advisory display data attached to an event. None of it is
// load-bearing for the pipeline.
type Analysis struct {
	Confidence int    `json:"confidence"`
	Momentum   string `json:"momentum"`
	Prediction string `json:"prediction"`
}

// Event is the canonical, trusted record the pipeline emits. Raw provider
// payloads only become Events after passing validation.
type Event struct {
	ID            string    `json:"id"`
	Sport         string    `json:"sport"`
	League        string    `json:"league"`
	HomeTeam      string    `json:"home_team"`
	AwayTeam      string    `json:"away_team"`
	HomeScore     int       `json:"home_score"`
	AwayScore     int       `json:"away_score"`
	Region        Region    `json:"region"`
	MoneylineHome string    `json:"moneyline_home"`
	MoneylineAway string    `json:"moneyline_away"`
	MoneylineDraw string    `json:"moneyline_draw,omitempty"`
	Spread        string    `json:"spread,omitempty"`
	Total         string    `json:"total,omitempty"`
	Venue         string    `json:"venue,omitempty"`
	CommenceTime  time.Time `json:"commence_time"`
	IsLive        bool      `json:"is_live"`
	TimeLeft      string    `json:"time_left,omitempty"`
	GameType      GameType  `json:"game_type"`
	Analysis      *Analysis `json:"analysis,omitempty"`
}

// Key returns the dedup key for the cache layer. Events are unique within
// (id, region): the same fixture fetched for two regions is two entries.
func (e Event) Key() string {
	return e.ID + ":" + string(e.Region)
}
