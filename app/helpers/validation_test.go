package helpers_test

import (
	"errors"
	"testing"

	"github.com/Rakhulsr/go-shop/app/helpers"
	"github.com/shopspring/decimal"
)

type signup struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Email    string `json:"email" validate:"omitempty,email"`
	Weight   int    `json:"weight" validate:"gte=0"`
	Postal   uint   `json:"postal_code" validate:"max=99999"`
}

func TestValidateMessages(t *testing.T) {
	v := helpers.NewValidator()
	err := helpers.Validate(v, &signup{Username: "not valid!", Email: "nope", Weight: -1, Postal: 123456})

	var fields helpers.FieldErrors
	if !errors.As(err, &fields) {
		t.Fatalf("want FieldErrors, got %T: %v", err, err)
	}
	want := map[string]string{
		"username":    "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.",
		"email":       "Enter a valid email address.",
		"weight":      "Ensure this value is greater than or equal to 0.",
		"postal_code": "Ensure this value is less than or equal to 99999.",
	}
	for field, msg := range want {
		if got := fields[field]; len(got) != 1 || got[0] != msg {
			t.Errorf("%s: got %v, want %q", field, got, msg)
		}
	}

	err = helpers.Validate(v, &signup{})
	if !errors.As(err, &fields) || fields["username"][0] != "This field is required." {
		t.Fatalf("missing username: got %v", err)
	}

	if err := helpers.Validate(v, &signup{Username: "alice@example.com"}); err != nil {
		t.Fatal(err)
	}
}

func TestPassword(t *testing.T) {
	hash, err := helpers.HashPassword("hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if !helpers.PasswordCompare(hash, "hunter22") || helpers.PasswordCompare(hash, "hunter23") {
		t.Fatal("bcrypt comparison is wrong")
	}
}

func TestFormatRupiah(t *testing.T) {
	if got := helpers.FormatRupiah(decimal.RequireFromString("1250000")); got != "Rp 1.250.000,00" {
		t.Fatalf("got %q", got)
	}
}
