package utils

import "github.com/shopspring/decimal"

// RoundMoney rounds to MoneyDecimalPlaces decimal places towards positive
// infinity. Shares rounded this way can only over-total, never under-total;
// the drift is absorbed by the MaxRoundingOffset band.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.RoundCeil(MoneyDecimalPlaces)
}

// RoundMoneyFloat is RoundMoney over float64 values.
func RoundMoneyFloat(v float64) float64 {
	return RoundMoney(decimal.NewFromFloat(v)).InexactFloat64()
}

// WithinOffsetBand reports whether actual falls in [expected, expected+MaxRoundingOffset].
func WithinOffsetBand(actual, expected decimal.Decimal) bool {
	if actual.LessThan(expected) {
		return false
	}
	return actual.Sub(expected).LessThanOrEqual(decimal.NewFromFloat(MaxRoundingOffset))
}
