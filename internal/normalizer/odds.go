package normalizer

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/oddsdeck/oddsdeck/pkg/models"
)

var (
	decOne     = decimal.NewFromInt(1)
	decTwo     = decimal.NewFromInt(2)
	decHundred = decimal.NewFromInt(100)
)

// DecimalToAmerican converts decimal odds to a signed American odds string.
// d >= 2.0 maps to +round((d-1)*100); d < 2.0 maps to -round(100/(d-1)).
// Zero or absent prices yield the "N/A" sentinel. decimal.Decimal keeps the
// conversion exact for two-decimal source prices instead of drifting through
// float arithmetic.
func DecimalToAmerican(price float64) string {
	if price <= 0 {
		return models.OddsNA
	}

	d := decimal.NewFromFloat(price)
	if d.LessThanOrEqual(decOne) {
		return models.OddsNA
	}

	if d.GreaterThanOrEqual(decTwo) {
		american := d.Sub(decOne).Mul(decHundred).Round(0)
		return fmt.Sprintf("+%s", american.String())
	}

	american := decHundred.Div(d.Sub(decOne)).Round(0)
	return fmt.Sprintf("-%s", american.String())
}

// AmericanToDecimal converts signed American odds back to decimal odds.
func AmericanToDecimal(american int) float64 {
	if american == 0 {
		return 0
	}
	a := decimal.NewFromInt(int64(american))
	if american > 0 {
		d := a.Div(decHundred).Add(decOne)
		f, _ := d.Round(4).Float64()
		return f
	}
	d := decHundred.Div(a.Neg()).Add(decOne)
	f, _ := d.Round(4).Float64()
	return f
}

// ImpliedProbability returns the probability implied by decimal odds.
func ImpliedProbability(price float64) float64 {
	if price <= 0 {
		return 0
	}
	p, _ := decOne.Div(decimal.NewFromFloat(price)).Round(6).Float64()
	return p
}
