package helpers

import (
	"io"
	"net/url"
	"reflect"
	"regexp"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ParseError is a request body that could not be read at all.
type ParseError struct {
	Detail string
}

func (e *ParseError) Error() string { return e.Detail }

func DecodeJSON(body io.Reader, dst interface{}) error {
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if err == io.EOF {
			return nil
		}
		return &ParseError{Detail: "JSON parse error - " + err.Error()}
	}
	return nil
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

func stringToDecimalHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != decimalType {
		return data, nil
	}
	switch from.Kind() {
	case reflect.String:
		s := data.(string)
		if s == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(s)
	case reflect.Float64:
		return decimal.NewFromFloat(data.(float64)), nil
	}
	return data, nil
}

var fieldInError = regexp.MustCompile(`'([^'\[]+)`)

// DecodeForm maps form values onto the mapstructure tags of dst. Repeated
// keys become slices and blank values count as absent.
func DecodeForm(values url.Values, dst interface{}) error {
	input := make(map[string]interface{}, len(values))
	for key, vals := range values {
		if len(vals) == 0 || (len(vals) == 1 && vals[0] == "") {
			continue
		}
		if len(vals) == 1 {
			input[key] = vals[0]
			continue
		}
		input[key] = vals
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       stringToDecimalHook,
		WeaklyTypedInput: true,
		Result:           dst,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(input); err != nil {
		merr, ok := err.(*mapstructure.Error)
		if !ok {
			return &ParseError{Detail: err.Error()}
		}
		fields := FieldErrors{}
		for _, msg := range merr.Errors {
			field := "non_field_errors"
			if m := fieldInError.FindStringSubmatch(msg); m != nil {
				field = m[1]
			}
			fields.Add(field, "A valid value is required.")
		}
		return fields
	}
	return nil
}

// ParseID reads a positive primary key; zero means invalid.
func ParseID(raw string) uint {
	id, err := cast.ToUintE(raw)
	if err != nil {
		return 0
	}
	return id
}
