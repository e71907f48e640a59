package helpers

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a payload field to its messages.
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e[k], "; "))
	}
	return "invalid input: " + strings.Join(parts, ", ")
}

func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// NewValidator reports fields by their json names and knows the username rule.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

// Validate runs the struct rules and returns FieldErrors on failure.
func Validate(v *validator.Validate, input interface{}) error {
	err := v.Struct(input)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok {
		return FormatValidationErrors(errs)
	}
	return err
}

func FormatValidationErrors(errs validator.ValidationErrors) FieldErrors {
	errorMessages := FieldErrors{}
	for _, err := range errs {
		field := err.Field()
		if i := strings.IndexByte(field, '['); i >= 0 {
			field = field[:i]
		}
		errorMessages.Add(field, message(err))
	}
	return errorMessages
}

func message(err validator.FieldError) string {
	numeric := false
	switch err.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		numeric = true
	}

	switch err.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "max":
		if numeric {
			return fmt.Sprintf("Ensure this value is less than or equal to %s.", err.Param())
		}
		return fmt.Sprintf("Ensure this field has no more than %s characters.", err.Param())
	case "min":
		if numeric {
			return fmt.Sprintf("Ensure this value is greater than or equal to %s.", err.Param())
		}
		return fmt.Sprintf("Ensure this field has at least %s characters.", err.Param())
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", err.Param())
	case "lte":
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", err.Param())
	default:
		return fmt.Sprintf("Invalid value for %s.", err.Tag())
	}
}
