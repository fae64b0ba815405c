package core

import "github.com/shopspring/decimal"

// TotalBalance sums expense amounts with exact decimal arithmetic and
// rounds the result half-up to two fractional digits. An empty input
// yields exactly 0.00, never an absent value.
func TotalBalance(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total.Round(2)
}
