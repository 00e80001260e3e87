package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/currency"
)

// FieldError describes a single failed validation rule, tagged with the
// JSON path of the offending field so that clients can map it back to a
// form field.
type FieldError struct {
	Field   string `json:"field" example:"totalAmount"`               // JSON path of the field that failed validation
	Message string `json:"message" example:"must be a positive number"` // Human readable description of the failure
}

// FieldErrors is the list of all validation failures for a request.
//
// It implements the error interface so that model hooks can return it and
// controllers can unwrap it with errors.As to render per-field messages.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	messages := make([]string, 0, len(e))
	for _, fieldError := range e {
		messages = append(messages, fmt.Sprintf("%s: %s", fieldError.Field, fieldError.Message))
	}

	return strings.Join(messages, "; ")
}

func (e *FieldErrors) add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// orNil returns the FieldErrors as error, or nil when no rule failed.
// gorm treats any non-nil return value from a hook as a failure, so an
// empty slice must become an untyped nil here.
func (e FieldErrors) orNil() error {
	if len(e) == 0 {
		return nil
	}

	return e
}

// fieldPath builds the JSON path for an element of a list field.
func fieldPath(field string, index int) string {
	return fmt.Sprintf("%s[%d]", field, index)
}

var currencyCodeFormat = regexp.MustCompile(`^[A-Z]{3}$`)

// validateCurrencyCode checks that a currency code is exactly three
// uppercase letters and a known ISO 4217 code.
func validateCurrencyCode(e *FieldErrors, field, code string) {
	if !currencyCodeFormat.MatchString(code) {
		e.add(field, "must be a 3-letter uppercase currency code")
		return
	}

	if _, err := currency.ParseISO(code); err != nil {
		e.add(field, fmt.Sprintf("%q is not a known ISO 4217 currency", code))
	}
}

// FieldErrorsFromBinding translates go-playground/validator errors raised
// by gin's binding into FieldErrors. Errors that did not come from binding
// validation are returned unchanged.
func FieldErrorsFromBinding(err error) (FieldErrors, bool) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil, false
	}

	var fieldErrors FieldErrors
	for _, fieldError := range validationErrors {
		fieldErrors.add(fieldError.Field(), bindingErrorText(fieldError))
	}

	return fieldErrors, true
}

func bindingErrorText(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("cannot be longer than %s", e.Param())
	case "min":
		return fmt.Sprintf("must be longer than %s", e.Param())
	case "len":
		return fmt.Sprintf("must be %s characters long", e.Param())
	}

	return "is not valid"
}
