package shared

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of decimal places stored for every money column
const MoneyPlaces = 2

// IsWholeCents reports whether d fits a money column without rounding.
// Trailing zeros are fine: 4.000 is accepted, 4.005 is not.
func IsWholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyPlaces))
}
