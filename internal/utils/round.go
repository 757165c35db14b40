package utils

import "github.com/shopspring/decimal"

// Round2 rounds to 2 decimal places using decimal arithmetic, avoiding the
// binary-float artifacts of math.Round(x*100)/100.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Round1 rounds to 1 decimal place.
func Round1(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}
