package v1

import (
	"errors"
	"net/http"

	"github.com/wanderplan/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"An ID specified in the query string was not a valid UUID"`
}

// status returns the appropriate HTTP status for an engine or database error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

// fieldErrorsOf extracts per-field validation errors so clients can map
// them back to form fields. Returns nil for every other error.
func fieldErrorsOf(err error) []models.FieldError {
	var fieldErrors models.FieldErrors
	if errors.As(err, &fieldErrors) {
		return fieldErrors
	}

	if fieldErrors, ok := models.FieldErrorsFromBinding(err); ok {
		return fieldErrors
	}

	return nil
}

// Cleanup errors
var errCleanupConfirmation = errors.New("the confirmation for the cleanup API call was incorrect")
