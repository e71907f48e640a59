package calc_test

import (
	"testing"

	"github.com/Rakhulsr/go-shop/app/utils/calc"
	"github.com/shopspring/decimal"
)

func TestLineTotal(t *testing.T) {
	got := calc.LineTotal(decimal.RequireFromString("19.99"), 3)
	if !got.Equal(decimal.RequireFromString("59.97")) {
		t.Fatalf("got %s", got)
	}
}

func TestGrossAmount(t *testing.T) {
	cases := map[string]int64{"0": 0, "10": 10, "10.01": 11, "149000.50": 149001}
	for in, want := range cases {
		if got := calc.GrossAmount(decimal.RequireFromString(in)); got != want {
			t.Errorf("GrossAmount(%s) = %d, want %d", in, got, want)
		}
	}
}
