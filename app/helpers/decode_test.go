package helpers_test

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/Rakhulsr/go-shop/app/helpers"
	"github.com/shopspring/decimal"
)

type productForm struct {
	Name      string          `mapstructure:"name"`
	Price     decimal.Decimal `mapstructure:"price"`
	Stock     int             `mapstructure:"stock"`
	Available bool            `mapstructure:"is_available"`
	Materials []uint          `mapstructure:"materials"`
}

func TestDecodeForm(t *testing.T) {
	values := url.Values{
		"name":         {"Linen shirt"},
		"price":        {"149000.50"},
		"stock":        {"4"},
		"is_available": {"true"},
		"materials":    {"1", "3"},
		"description":  {""},
	}
	var form productForm
	if err := helpers.DecodeForm(values, &form); err != nil {
		t.Fatal(err)
	}
	if form.Name != "Linen shirt" || form.Stock != 4 || !form.Available {
		t.Fatalf("unexpected form %+v", form)
	}
	if !form.Price.Equal(decimal.RequireFromString("149000.5")) {
		t.Fatalf("unexpected price %s", form.Price)
	}
	if len(form.Materials) != 2 || form.Materials[0] != 1 || form.Materials[1] != 3 {
		t.Fatalf("unexpected materials %v", form.Materials)
	}
}

func TestDecodeFormBlankIsAbsent(t *testing.T) {
	form := productForm{Name: "keep"}
	if err := helpers.DecodeForm(url.Values{"name": {""}}, &form); err != nil {
		t.Fatal(err)
	}
	if form.Name != "keep" {
		t.Fatalf("blank value overwrote field: %q", form.Name)
	}
}

func TestDecodeFormInvalidValues(t *testing.T) {
	var form productForm
	err := helpers.DecodeForm(url.Values{"stock": {"many"}, "price": {"cheap"}}, &form)

	var fields helpers.FieldErrors
	if !errors.As(err, &fields) {
		t.Fatalf("want FieldErrors, got %T: %v", err, err)
	}
	for _, field := range []string{"stock", "price"} {
		msgs := fields[field]
		if len(msgs) != 1 || msgs[0] != "A valid value is required." {
			t.Fatalf("%s: unexpected messages %v", field, msgs)
		}
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	if err := helpers.DecodeJSON(strings.NewReader(`{"name":"Tee"}`), &dst); err != nil || dst.Name != "Tee" {
		t.Fatalf("got %+v, %v", dst, err)
	}
	if err := helpers.DecodeJSON(strings.NewReader(""), &dst); err != nil {
		t.Fatalf("empty body: %v", err)
	}

	err := helpers.DecodeJSON(strings.NewReader(`{"name":`), &dst)
	var perr *helpers.ParseError
	if !errors.As(err, &perr) || !strings.HasPrefix(perr.Detail, "JSON parse error - ") {
		t.Fatalf("want ParseError, got %v", err)
	}
}

func TestParseID(t *testing.T) {
	cases := map[string]uint{"7": 7, "0": 0, "-3": 0, "abc": 0, "": 0}
	for raw, want := range cases {
		if got := helpers.ParseID(raw); got != want {
			t.Errorf("ParseID(%q) = %d, want %d", raw, got, want)
		}
	}
}
