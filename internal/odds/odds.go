// Package odds reads sportsbook player-prop offers and converts prices to probabilities.
package odds

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInvalidOdds = errors.New("american odds must be <= -100 or >= 100")

var hundred = decimal.NewFromInt(100)

// ImpliedProbability converts American odds into the break-even win probability.
//
//	+150 -> 100 / (150 + 100)  = 0.4
//	-200 -> 200 / (200 + 100)  = 0.666667
func ImpliedProbability(american decimal.Decimal) (decimal.Decimal, error) {
	if american.Abs().LessThan(hundred) {
		return decimal.Zero, ErrInvalidOdds
	}
	if american.IsPositive() {
		return hundred.Div(american.Add(hundred)), nil
	}
	risk := american.Neg()
	return risk.Div(risk.Add(hundred)), nil
}

// DecimalOdds converts American odds into the European decimal price (stake included).
func DecimalOdds(american decimal.Decimal) (decimal.Decimal, error) {
	if american.Abs().LessThan(hundred) {
		return decimal.Zero, ErrInvalidOdds
	}
	if american.IsPositive() {
		return american.Div(hundred).Add(decimal.NewFromInt(1)), nil
	}
	return hundred.Div(american.Neg()).Add(decimal.NewFromInt(1)), nil
}

// Vig is the bookmaker margin of a two-way market: the implied probabilities' sum minus one.
func Vig(over, under decimal.Decimal) (decimal.Decimal, error) {
	po, err := ImpliedProbability(over)
	if err != nil {
		return decimal.Zero, err
	}
	pu, err := ImpliedProbability(under)
	if err != nil {
		return decimal.Zero, err
	}
	return po.Add(pu).Sub(decimal.NewFromInt(1)), nil
}
