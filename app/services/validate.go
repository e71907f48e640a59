package services

import (
	"github.com/Rakhulsr/go-shop/app/helpers"
	"github.com/pkg/errors"
)

var validate = helpers.NewValidator()

// checker is implemented by inputs with rules the struct tags cannot express.
type checker interface {
	check() error
}

// validateInput runs after the access checks so a caller without rights
// learns nothing about the payload rules.
func validateInput(in interface{}) error {
	if err := helpers.Validate(validate, in); err != nil {
		var fields helpers.FieldErrors
		if errors.As(err, &fields) {
			return &ValidationError{Fields: fields}
		}
		return errors.Wrap(err, "validate input")
	}
	if c, ok := in.(checker); ok {
		return c.check()
	}
	return nil
}
