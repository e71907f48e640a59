package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// NonFieldErrors keys validation messages that concern the payload as a whole.
const NonFieldErrors = "non_field_errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("you do not have permission to perform this action")
	ErrBadCredential = errors.New("unable to log in with provided credentials")

	ErrMethodNotAllowed = errors.New("method not allowed")
)

// ValidationError maps a payload field to its messages.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {message}}}
}

func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func invalidPKMessage(id uint) string {
	return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)
}

func invalidPK(field string, id uint) *ValidationError {
	return NewValidationError(field, invalidPKMessage(id))
}
