package validation

import (
	"fmt"
	"strings"
)

// FieldError points a validation message at the form field it belongs
// to, so re-rendered forms can highlight the right input.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is a validation result. It implements error so services can
// return it through a plain error value; handlers unwrap it with
// errors.As and respond with 422.
type Errors struct {
	Fields []FieldError
}

func (e *Errors) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// Add appends a field error.
func (e *Errors) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Any reports whether any field failed.
func (e *Errors) Any() bool {
	return len(e.Fields) > 0
}

// New creates an Errors with a single field error.
func New(field, message string) *Errors {
	e := &Errors{}
	e.Add(field, message)
	return e
}
