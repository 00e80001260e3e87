package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")

	// ErrCategoryAllocationNotUnique is raised when a budget gets a second
	// allocation for the same category.
	ErrCategoryAllocationNotUnique = errors.New("there is already an allocation for this category in the budget")

	// ErrMissingRate is returned when a currency conversion has no rate to
	// work with. Callers fall back to the unconverted amount and surface a
	// warning instead of failing the whole computation.
	ErrMissingRate = errors.New("no exchange rate is known for this currency")
)
