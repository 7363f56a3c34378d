package normalizer

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oddsdeck/oddsdeck/pkg/models"
)

func TestDecimalToAmerican(t *testing.T) {
	cases := []struct {
		price float64
		want  string
	}{
		{2.10, "+110"},
		{2.00, "+100"},
		{3.50, "+250"},
		{11.00, "+1000"},
		{1.91, "-110"},
		{1.50, "-200"},
		{1.25, "-400"},
		{1.01, "-10000"},
		{1.667, "-150"},
		{0, models.OddsNA},
		{-1.5, models.OddsNA},
		{1.0, models.OddsNA},
		{0.95, models.OddsNA},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, DecimalToAmerican(tc.price), "price %v", tc.price)
	}
}

func TestAmericanToDecimal(t *testing.T) {
	cases := []struct {
		american int
		want     float64
	}{
		{110, 2.10},
		{100, 2.00},
		{250, 3.50},
		{-110, 1.9091},
		{-200, 1.50},
		{-400, 1.25},
		{0, 0},
	}

	for _, tc := range cases {
		assert.InDelta(t, tc.want, AmericanToDecimal(tc.american), 0.0001, "american %d", tc.american)
	}
}

// Conversion must preserve which side is favored: a lower decimal price always
// maps to a numerically lower American line.
func TestDecimalToAmerican_PreservesOrdering(t *testing.T) {
	prices := []float64{1.05, 1.30, 1.50, 1.91, 1.99, 2.00, 2.05, 2.50, 5.00, 20.0}
	for i := 1; i < len(prices); i++ {
		lo := AmericanToDecimal(mustParseAmerican(t, DecimalToAmerican(prices[i-1])))
		hi := AmericanToDecimal(mustParseAmerican(t, DecimalToAmerican(prices[i])))
		assert.Less(t, lo, hi, "%v vs %v", prices[i-1], prices[i])
	}
}

func TestImpliedProbability(t *testing.T) {
	assert.InDelta(t, 0.5, ImpliedProbability(2.0), 0.0001)
	assert.InDelta(t, 0.6667, ImpliedProbability(1.5), 0.0001)
	assert.Zero(t, ImpliedProbability(0))
}

func mustParseAmerican(t *testing.T, s string) int {
	t.Helper()
	v, err := strconv.Atoi(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return v
}
