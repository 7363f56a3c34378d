package validator

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/oddsdeck/oddsdeck/internal/catalog"
	"github.com/oddsdeck/oddsdeck/pkg/models"
)

const (
	minDecimalPrice = 1.01
	maxDecimalPrice = 50.0

	minYear = 2020
	maxYear = 2030

	maxFutureWindow = 366 * 24 * time.Hour
	liveStaleness   = 24 * time.Hour
	upcomingMinLead = time.Hour
	upcomingMaxLead = 7 * 24 * time.Hour
)

// Window selects the temporal tolerance applied to commence_time.
type Window int

const (
	// WindowAny accepts any event inside the general bounds.
	WindowAny Window = iota
	// WindowLive requires the event to have started within the last day.
	WindowLive
	// WindowUpcoming requires a start strictly more than 1h and less than
	// 7 days out.
	WindowUpcoming
)

// Result is the outcome of an authenticity check. Rejections always carry
// reasons so filtered data can be explained, never silently dropped.
type Result struct {
	IsFake  bool
	Reasons []string
}

// Validator classifies raw provider events as real market data or
// placeholder/synthetic filler. One ruleset serves both the live pipeline and
// the synthetic generator's self-check.
type Validator struct {
	log *zap.Logger
	now func() time.Time
}

// New creates a validator. A nil logger disables rejection logging.
func New(log *zap.Logger) *Validator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Validator{log: log, now: time.Now}
}

// WithClock overrides the time source, for tests.
func (v *Validator) WithClock(now func() time.Time) *Validator {
	v.now = now
	return v
}

// Check runs every rule against a raw event. All rules contribute reasons;
// an event is accepted only when none fire.
func (v *Validator) Check(raw models.RawOddsEvent, w Window) Result {
	var reasons []string

	reasons = append(reasons, v.checkTeams(raw)...)
	reasons = append(reasons, v.checkBookmakers(raw)...)
	reasons = append(reasons, v.checkTimestamp(raw, w)...)
	reasons = append(reasons, v.checkSport(raw)...)

	if len(reasons) > 0 {
		v.log.Debug("rejected event",
			zap.String("event_id", raw.ID),
			zap.String("home_team", raw.HomeTeam),
			zap.String("away_team", raw.AwayTeam),
			zap.Strings("reasons", reasons),
		)
		return Result{IsFake: true, Reasons: reasons}
	}
	return Result{}
}

func (v *Validator) checkTeams(raw models.RawOddsEvent) []string {
	var reasons []string

	home := strings.TrimSpace(raw.HomeTeam)
	away := strings.TrimSpace(raw.AwayTeam)

	sides := []struct {
		side string
		name string
	}{{"home", home}, {"away", away}}

	for _, s := range sides {
		side, name := s.side, s.name
		if name == "" {
			reasons = append(reasons, side+" team name is empty")
			continue
		}
		if len(name) < 2 {
			reasons = append(reasons, side+" team name too short")
			continue
		}
		if !reHasLetter.MatchString(name) || rePurelyNumeric.MatchString(name) {
			reasons = append(reasons, side+" team name has no letters")
			continue
		}
		if fake, why := isPlaceholderTeamName(name); fake {
			reasons = append(reasons, side+" team: "+why)
		}
	}

	if home != "" && home == away {
		reasons = append(reasons, "home and away teams are identical")
	}

	return reasons
}

func (v *Validator) checkBookmakers(raw models.RawOddsEvent) []string {
	var reasons []string

	if len(raw.Bookmakers) == 0 {
		return []string{"no bookmakers"}
	}

	var prices []float64
	validPrice := false

	for _, bk := range raw.Bookmakers {
		if fake, why := isPlaceholderBookmaker(bk.Title); fake {
			reasons = append(reasons, why)
		}
		for _, mk := range bk.Markets {
			for _, out := range mk.Outcomes {
				prices = append(prices, out.Price)
				if out.Price > minDecimalPrice && out.Price <= maxDecimalPrice {
					validPrice = true
				}
			}
		}
	}

	if !validPrice {
		reasons = append(reasons, fmt.Sprintf("no outcome priced in (%.2f, %.2f]", minDecimalPrice, maxDecimalPrice))
	}

	if why, suspicious := suspiciousUniformity(prices); suspicious {
		reasons = append(reasons, why)
	}

	return reasons
}

// suspiciousUniformity flags price sets real markets never produce: every
// outcome priced identically, or more than two outcomes all at exact
// integer odds.
func suspiciousUniformity(prices []float64) (string, bool) {
	if len(prices) < 2 {
		return "", false
	}

	allSame := true
	allInteger := true
	for _, p := range prices {
		if p != prices[0] {
			allSame = false
		}
		if p != float64(int64(p)) {
			allInteger = false
		}
	}

	if allSame {
		return "all outcome prices identical", true
	}
	if allInteger && len(prices) > 2 {
		return "all outcome prices are exact integers", true
	}
	return "", false
}

func (v *Validator) checkTimestamp(raw models.RawOddsEvent, w Window) []string {
	commence, err := time.Parse(time.RFC3339, raw.CommenceTime)
	if err != nil {
		return []string{"unparseable commence_time: " + raw.CommenceTime}
	}

	year := commence.Year()
	if year < minYear || year > maxYear {
		return []string{fmt.Sprintf("commence_time year %d outside [%d, %d]", year, minYear, maxYear)}
	}

	now := v.now()
	delta := commence.Sub(now)

	if delta > maxFutureWindow {
		return []string{"commence_time more than a year in the future"}
	}

	switch w {
	case WindowLive:
		if delta < -liveStaleness {
			return []string{"commence_time too far in the past for a live event"}
		}
	case WindowUpcoming:
		if delta <= upcomingMinLead {
			return []string{"commence_time within the next hour or already started"}
		}
		if delta >= upcomingMaxLead {
			return []string{"commence_time more than 7 days out"}
		}
	default:
		if delta < -liveStaleness {
			return []string{"commence_time too far in the past"}
		}
	}

	return nil
}

func (v *Validator) checkSport(raw models.RawOddsEvent) []string {
	var reasons []string

	if !catalog.IsAllowed(raw.SportKey) {
		reasons = append(reasons, "unknown sport_key: "+raw.SportKey)
	}
	if fake, why := isPlaceholderLeague(raw.SportTitle); fake {
		reasons = append(reasons, why)
	}

	return reasons
}
