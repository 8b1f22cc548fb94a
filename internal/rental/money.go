package rental

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of decimal places money is kept at (OMR baisa)
const MoneyPlaces = 3

// RoundMoney rounds d half away from zero to MoneyPlaces
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// IsMoney reports whether d has no digits beyond MoneyPlaces
func IsMoney(d decimal.Decimal) bool {
	return d.Equal(RoundMoney(d))
}

func sum(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
