package cli

import "github.com/shopspring/decimal"

func formatPrice(p float64) string {
	return "$" + decimal.NewFromFloat(p).StringFixed(2)
}
