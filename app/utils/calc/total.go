package calc

import "github.com/shopspring/decimal"

func LineTotal(price decimal.Decimal, qty int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(qty)))
}

// GrossAmount is the whole-unit amount charged for total; fractions round up.
func GrossAmount(total decimal.Decimal) int64 {
	return total.Ceil().IntPart()
}
