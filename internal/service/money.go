package service

import "github.com/shopspring/decimal"

// lineTotal returns price*count rounded to cents.
func lineTotal(price float64, count int) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(count))).Round(2)
}

// applyDiscount returns round2(total * (100 - pct) / 100).
func applyDiscount(total float64, pct int) float64 {
	hundred := decimal.NewFromInt(100)
	out := decimal.NewFromFloat(total).
		Mul(hundred.Sub(decimal.NewFromInt(int64(pct)))).
		Div(hundred).
		Round(2)
	f, _ := out.Float64()
	return f
}
