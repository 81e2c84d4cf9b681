package clock

import "github.com/shopspring/decimal"

var sixty = decimal.NewFromInt(60)

// MinutesToHours converts a minute count to decimal hours rounded to two places.
func MinutesToHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(sixty).Round(2)
}
