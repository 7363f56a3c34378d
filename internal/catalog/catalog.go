package catalog

import (
	"sort"

	"github.com/oddsdeck/oddsdeck/pkg/models"
)

// Capabilities describes what the provider supports for one sport key.
type Capabilities struct {
	SportKey    string
	DisplayName string
	Category    string
	// H2HOnly marks sports where the provider rejects spreads/totals (422).
	H2HOnly bool
	// Unsupported marks keys kept in the catalog for recognition but never
	// fetched (outrights, specials).
	Unsupported bool
	// DrawCapable marks sports whose regulation games can end in a draw.
	DrawCapable bool
	// PreferredRegions narrows the fan-out for sports that only trade in
	// some regions. Empty means all regions.
	PreferredRegions []models.Region
}

// Canonical sport categories. Unknown provider keys map to CategoryOther.
const (
	CategoryFootball   = "football"
	CategoryBasketball = "basketball"
	CategorySoccer     = "soccer"
	CategoryBaseball   = "baseball"
	CategoryHockey     = "hockey"
	CategoryTennis     = "tennis"
	CategoryGolf       = "golf"
	CategoryBoxing     = "boxing"
	CategoryMMA        = "mma"
	CategoryCricket    = "cricket"
	CategoryRugby      = "rugby"
	CategoryOther      = "other"
)

var ukEU = []models.Region{models.RegionUK, models.RegionEU}

// sports is the static allow-list of real provider sport keys. Anything not
// present here is rejected by the validator regardless of payload shape.
var sports = map[string]Capabilities{
	"americanfootball_nfl":        {SportKey: "americanfootball_nfl", DisplayName: "NFL", Category: CategoryFootball},
	"americanfootball_ncaaf":      {SportKey: "americanfootball_ncaaf", DisplayName: "NCAAF", Category: CategoryFootball},
	"basketball_nba":              {SportKey: "basketball_nba", DisplayName: "NBA", Category: CategoryBasketball},
	"basketball_ncaab":            {SportKey: "basketball_ncaab", DisplayName: "NCAAB", Category: CategoryBasketball},
	"basketball_wnba":             {SportKey: "basketball_wnba", DisplayName: "WNBA", Category: CategoryBasketball},
	"basketball_euroleague":       {SportKey: "basketball_euroleague", DisplayName: "Euroleague", Category: CategoryBasketball, PreferredRegions: ukEU},
	"baseball_mlb":                {SportKey: "baseball_mlb", DisplayName: "MLB", Category: CategoryBaseball},
	"icehockey_nhl":               {SportKey: "icehockey_nhl", DisplayName: "NHL", Category: CategoryHockey, DrawCapable: true},
	"icehockey_sweden_hockey_league": {SportKey: "icehockey_sweden_hockey_league", DisplayName: "SHL", Category: CategoryHockey, DrawCapable: true, PreferredRegions: ukEU},
	"soccer_epl":                  {SportKey: "soccer_epl", DisplayName: "Premier League", Category: CategorySoccer, DrawCapable: true, PreferredRegions: ukEU},
	"soccer_uefa_champs_league":   {SportKey: "soccer_uefa_champs_league", DisplayName: "Champions League", Category: CategorySoccer, DrawCapable: true, PreferredRegions: ukEU},
	"soccer_spain_la_liga":        {SportKey: "soccer_spain_la_liga", DisplayName: "La Liga", Category: CategorySoccer, DrawCapable: true, PreferredRegions: ukEU},
	"soccer_germany_bundesliga":   {SportKey: "soccer_germany_bundesliga", DisplayName: "Bundesliga", Category: CategorySoccer, DrawCapable: true, PreferredRegions: ukEU},
	"soccer_italy_serie_a":        {SportKey: "soccer_italy_serie_a", DisplayName: "Serie A", Category: CategorySoccer, DrawCapable: true, PreferredRegions: ukEU},
	"soccer_france_ligue_one":     {SportKey: "soccer_france_ligue_one", DisplayName: "Ligue 1", Category: CategorySoccer, DrawCapable: true, PreferredRegions: ukEU},
	"soccer_usa_mls":              {SportKey: "soccer_usa_mls", DisplayName: "MLS", Category: CategorySoccer, DrawCapable: true},
	"soccer_australia_aleague":    {SportKey: "soccer_australia_aleague", DisplayName: "A-League", Category: CategorySoccer, DrawCapable: true, PreferredRegions: []models.Region{models.RegionAU}},
	"tennis_atp_french_open":      {SportKey: "tennis_atp_french_open", DisplayName: "ATP French Open", Category: CategoryTennis, H2HOnly: true},
	"tennis_atp_wimbledon":        {SportKey: "tennis_atp_wimbledon", DisplayName: "ATP Wimbledon", Category: CategoryTennis, H2HOnly: true},
	"tennis_wta_us_open":          {SportKey: "tennis_wta_us_open", DisplayName: "WTA US Open", Category: CategoryTennis, H2HOnly: true},
	"golf_pga_championship":       {SportKey: "golf_pga_championship", DisplayName: "PGA Championship", Category: CategoryGolf, Unsupported: true},
	"golf_masters_tournament_winner": {SportKey: "golf_masters_tournament_winner", DisplayName: "The Masters", Category: CategoryGolf, Unsupported: true},
	"boxing_boxing":               {SportKey: "boxing_boxing", DisplayName: "Boxing", Category: CategoryBoxing, H2HOnly: true},
	"mma_mixed_martial_arts":      {SportKey: "mma_mixed_martial_arts", DisplayName: "MMA", Category: CategoryMMA, H2HOnly: true},
	"cricket_big_bash":            {SportKey: "cricket_big_bash", DisplayName: "Big Bash", Category: CategoryCricket, H2HOnly: true, PreferredRegions: []models.Region{models.RegionAU, models.RegionUK}},
	"cricket_test_match":          {SportKey: "cricket_test_match", DisplayName: "Test Cricket", Category: CategoryCricket, H2HOnly: true, PreferredRegions: []models.Region{models.RegionAU, models.RegionUK}},
	"rugbyleague_nrl":             {SportKey: "rugbyleague_nrl", DisplayName: "NRL", Category: CategoryRugby, DrawCapable: true, PreferredRegions: []models.Region{models.RegionAU, models.RegionUK}},
	"rugbyunion_six_nations":      {SportKey: "rugbyunion_six_nations", DisplayName: "Six Nations", Category: CategoryRugby, DrawCapable: true, PreferredRegions: ukEU},
	"aussierules_afl":             {SportKey: "aussierules_afl", DisplayName: "AFL", Category: CategoryOther, PreferredRegions: []models.Region{models.RegionAU}},
}

// Lookup returns the capabilities for a sport key.
func Lookup(sportKey string) (Capabilities, bool) {
	caps, ok := sports[sportKey]
	return caps, ok
}

// IsAllowed reports whether the sport key is on the allow-list.
func IsAllowed(sportKey string) bool {
	_, ok := sports[sportKey]
	return ok
}

// Category maps a provider sport key to its canonical category. Unknown keys
// map to "other" rather than failing.
func Category(sportKey string) string {
	if caps, ok := sports[sportKey]; ok {
		return caps.Category
	}
	return CategoryOther
}

// IsDrawCapable reports whether regulation games of this sport can draw.
func IsDrawCapable(sportKey string) bool {
	caps, ok := sports[sportKey]
	return ok && caps.DrawCapable
}

// Fetchable returns the sport keys eligible for odds fetching, excluding
// unsupported entries. Order is stable so batch composition is deterministic.
func Fetchable() []string {
	keys := make([]string, 0, len(sports))
	for key, caps := range sports {
		if !caps.Unsupported {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// RegionsFor returns the regions to fan out for a sport, honoring the
// sport's preference when one is set.
func RegionsFor(sportKey string) []models.Region {
	if caps, ok := sports[sportKey]; ok && len(caps.PreferredRegions) > 0 {
		return caps.PreferredRegions
	}
	return models.AllRegions()
}

// MarketsFor returns the market keys to request for a sport.
func MarketsFor(sportKey string) []string {
	if caps, ok := sports[sportKey]; ok && caps.H2HOnly {
		return []string{"h2h"}
	}
	return []string{"h2h", "spreads", "totals"}
}
