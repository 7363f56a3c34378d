package synthetic

import "github.com/oddsdeck/oddsdeck/pkg/models"

// pool holds the team names the generator draws from for one sport within
// one region. Names must read as real clubs: the validator applies the same
// placeholder rules to generated events as to provider data.
type pool struct {
	sportKey string
	league   string
	teams    []string
}

var regionPools = map[models.Region][]pool{
	models.RegionUS: {
		{
			sportKey: "americanfootball_nfl",
			league:   "NFL",
			teams: []string{
				"Kansas City Chiefs", "Buffalo Bills", "Philadelphia Eagles",
				"San Francisco 49ers", "Dallas Cowboys", "Miami Dolphins",
				"Baltimore Ravens", "Detroit Lions",
			},
		},
		{
			sportKey: "basketball_nba",
			league:   "NBA",
			teams: []string{
				"Boston Celtics", "Denver Nuggets", "Milwaukee Bucks",
				"Phoenix Suns", "Golden State Warriors", "Miami Heat",
				"Los Angeles Lakers", "New York Knicks",
			},
		},
		{
			sportKey: "baseball_mlb",
			league:   "MLB",
			teams: []string{
				"Atlanta Braves", "Los Angeles Dodgers", "Houston Astros",
				"New York Yankees", "Philadelphia Phillies", "San Diego Padres",
			},
		},
		{
			sportKey: "icehockey_nhl",
			league:   "NHL",
			teams: []string{
				"Colorado Avalanche", "Edmonton Oilers", "Toronto Maple Leafs",
				"Vegas Golden Knights", "Carolina Hurricanes", "New York Rangers",
			},
		},
	},
	models.RegionUK: {
		{
			sportKey: "soccer_epl",
			league:   "Premier League",
			teams: []string{
				"Arsenal", "Manchester City", "Liverpool", "Chelsea",
				"Tottenham Hotspur", "Newcastle United", "Aston Villa",
				"Brighton", "West Ham United", "Everton",
			},
		},
		{
			sportKey: "rugbyunion_six_nations",
			league:   "Six Nations",
			teams: []string{
				"England", "France", "Ireland", "Wales", "Scotland", "Italy",
			},
		},
	},
	models.RegionEU: {
		{
			sportKey: "soccer_spain_la_liga",
			league:   "La Liga",
			teams: []string{
				"Real Madrid", "Barcelona", "Atletico Madrid", "Sevilla",
				"Real Sociedad", "Athletic Bilbao", "Valencia", "Villarreal",
			},
		},
		{
			sportKey: "soccer_germany_bundesliga",
			league:   "Bundesliga",
			teams: []string{
				"Bayern Munich", "Borussia Dortmund", "RB Leipzig",
				"Bayer Leverkusen", "Eintracht Frankfurt", "VfB Stuttgart",
			},
		},
		{
			sportKey: "basketball_euroleague",
			league:   "Euroleague",
			teams: []string{
				"Real Madrid Baloncesto", "Panathinaikos", "Olympiacos",
				"Fenerbahce", "Anadolu Efes", "Virtus Bologna",
			},
		},
	},
	models.RegionAU: {
		{
			sportKey: "aussierules_afl",
			league:   "AFL",
			teams: []string{
				"Collingwood Magpies", "Carlton Blues", "Brisbane Lions",
				"Sydney Swans", "Geelong Cats", "Hawthorn Hawks",
				"Port Adelaide Power", "Fremantle Dockers",
			},
		},
		{
			sportKey: "rugbyleague_nrl",
			league:   "NRL",
			teams: []string{
				"Penrith Panthers", "Melbourne Storm", "Brisbane Broncos",
				"Sydney Roosters", "Parramatta Eels", "Cronulla Sharks",
			},
		},
		{
			sportKey: "soccer_australia_aleague",
			league:   "A-League",
			teams: []string{
				"Melbourne Victory", "Sydney FC", "Western Sydney Wanderers",
				"Adelaide United", "Melbourne City", "Central Coast Mariners",
			},
		},
	},
}

var regionVenues = map[models.Region][]string{
	models.RegionUS: {
		"Arrowhead Stadium", "Madison Square Garden", "Crypto.com Arena",
		"Fenway Park", "Lambeau Field", "Chase Center",
	},
	models.RegionUK: {
		"Wembley Stadium", "Old Trafford", "Anfield", "Emirates Stadium",
		"Twickenham", "Villa Park",
	},
	models.RegionEU: {
		"Santiago Bernabeu", "Camp Nou", "Allianz Arena", "Signal Iduna Park",
		"San Siro", "Parc des Princes",
	},
	models.RegionAU: {
		"Melbourne Cricket Ground", "Accor Stadium", "Adelaide Oval",
		"Suncorp Stadium", "Optus Stadium",
	},
}
