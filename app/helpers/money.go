package helpers

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var rupiah = accounting.Accounting{Symbol: "Rp ", Precision: 2, Thousand: ".", Decimal: ","}

// FormatRupiah renders an amount as "Rp 1.250.000,00".
func FormatRupiah(amount decimal.Decimal) string {
	return rupiah.FormatMoney(amount)
}
