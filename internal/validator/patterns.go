package validator

import (
	"regexp"
	"strings"
)

// Placeholder detection tables. Sandbox keys, demo responses and our own
// synthetic generator all emit recognizable filler; the same tables classify
// every source so real and synthetic data are held to one standard.

var (
	// "Team A", "Team 7", "team #3"
	reGenericTeam = regexp.MustCompile(`(?i)^team\s*#?\s*([a-z]|\d+)$`)

	// "US Team 7", "UK Team 3", "EU Team", "AU Team 12"
	reRegionalTeam = regexp.MustCompile(`(?i)^(us|usa|uk|eu|au|aus)\s+team\s*#?\s*\d*$`)

	// "Home Team", "Away Team", "Home Side 2"
	reHomeAwayTeam = regexp.MustCompile(`(?i)^(home|away)\s+(team|side)\s*\d*$`)

	// "Bookmaker 3", "Book #12", "bookie 4"
	reGenericBook = regexp.MustCompile(`(?i)^book(maker|ie)?\s*#?\s*\d*$`)

	// "League 2", "Test League", "League"
	reGenericLeague = regexp.MustCompile(`(?i)^(test\s+|demo\s+|mock\s+|sample\s+|fake\s+)?league\s*#?\s*\d*$`)

	rePurelyNumeric = regexp.MustCompile(`^[\d\s.,#-]+$`)
	reHasLetter     = regexp.MustCompile(`\p{L}`)
)

// placeholderKeywords reject a name when any appears as a substring.
var placeholderKeywords = []string{
	"test", "demo", "mock", "sample", "placeholder", "dummy",
	"example", "fake", "lorem", "ipsum", "undefined", "not available",
}

// genericWords reject a name only on exact match after trimming. These are
// single English words that never stand alone as a real team name.
var genericWords = map[string]bool{
	"team": true, "home": true, "away": true, "draw": true,
	"red": true, "blue": true, "green": true, "yellow": true, "white": true,
	"black": true, "alpha": true, "beta": true, "gamma": true, "delta": true,
	"omega": true, "one": true, "two": true, "three": true, "four": true,
	"first": true, "second": true, "north": true, "south": true,
	"east": true, "west": true, "winner": true, "loser": true,
	"unknown": true, "tbd": true, "tba": true, "n/a": true, "na": true,
	"null": true, "none": true, "foo": true, "bar": true, "baz": true,
}

// keyboardMashes are common left-to-right keyboard sequences seen in manual
// test fixtures.
var keyboardMashes = []string{
	"qwert", "asdf", "zxcv", "qazwsx", "wasd", "hjkl",
	"12345", "abcde", "lkjh", "poiuy", "mnbv",
}

// isPlaceholderTeamName reports whether a trimmed team name matches any
// placeholder pattern, with the first matching pattern as the reason.
func isPlaceholderTeamName(name string) (bool, string) {
	lower := strings.ToLower(strings.TrimSpace(name))

	if reGenericTeam.MatchString(lower) {
		return true, "generic team pattern"
	}
	if reRegionalTeam.MatchString(lower) {
		return true, "regional placeholder team pattern"
	}
	if reHomeAwayTeam.MatchString(lower) {
		return true, "home/away placeholder pattern"
	}
	if genericWords[lower] {
		return true, "generic single word"
	}
	for _, kw := range placeholderKeywords {
		if strings.Contains(lower, kw) {
			return true, "placeholder keyword: " + kw
		}
	}
	if hasRepeatedRun(lower) {
		return true, "repeated character run"
	}
	for _, mash := range keyboardMashes {
		if strings.Contains(lower, mash) {
			return true, "keyboard sequence: " + mash
		}
	}
	return false, ""
}

// hasRepeatedRun reports whether three or more identical characters appear
// in a row ("aaa", "xxxx").
func hasRepeatedRun(s string) bool {
	run := 1
	var prev rune
	for i, r := range s {
		if i > 0 && r == prev {
			run++
			if run >= 3 {
				return true
			}
		} else {
			run = 1
		}
		prev = r
	}
	return false
}

// isPlaceholderBookmaker reports whether a bookmaker display name is filler.
func isPlaceholderBookmaker(title string) (bool, string) {
	lower := strings.ToLower(strings.TrimSpace(title))
	if lower == "" {
		return true, "empty bookmaker name"
	}
	if reGenericBook.MatchString(lower) {
		return true, "generic bookmaker pattern"
	}
	for _, kw := range placeholderKeywords {
		if strings.Contains(lower, kw) {
			return true, "placeholder keyword in bookmaker: " + kw
		}
	}
	return false, ""
}

// isPlaceholderLeague reports whether a sport_title is filler.
func isPlaceholderLeague(title string) (bool, string) {
	lower := strings.ToLower(strings.TrimSpace(title))
	if lower == "" {
		return false, "" // provider omits sport_title for some feeds
	}
	if reGenericLeague.MatchString(lower) {
		return true, "generic league pattern"
	}
	if lower == "unknown league" || lower == "unknown" {
		return true, "unknown league placeholder"
	}
	return false, ""
}
