// Package services implements the application core: search, favorites and
// pins, place sharing, moderation, and the content lifecycle. Every exported
// operation returns a success value or a structured *errs.Error; nothing
// panics or leaks raw infrastructure errors across this boundary.
package services

import (
	"errors"
	"fmt"

	"geovista-api/errs"
	"geovista-api/repositories"
)

// recoverGuard converts a panic inside a service function into an INTERNAL
// error, preserving the contract that service calls return instead of throw.
// Use with a named error return: defer recoverGuard(&err).
func recoverGuard(err *error) {
	if r := recover(); r != nil {
		*err = errs.Internal("An unexpected error occurred", fmt.Errorf("panic: %v", r))
	}
}

// fetchErr wraps a repository read failure. Typed business errors pass
// through untouched; raw driver errors become FETCH_FAILED with the cause
// attached for diagnostics.
func fetchErr(message string, err error) error {
	var typed *errs.Error
	if errors.As(err, &typed) {
		return typed
	}
	return errs.FetchFailed(message, err)
}

// writeErr wraps a repository write failure the same way as fetchErr, using
// the QUERY_FAILED kind.
func writeErr(message string, err error) error {
	var typed *errs.Error
	if errors.As(err, &typed) {
		return typed
	}
	return errs.QueryFailed(message, err)
}

// contentSortFields is the fixed set of sort fields accepted by region and
// place list/search. Anything else is a VALIDATION error, never a silent
// fallback.
var contentSortFields = map[string]bool{
	"name":           true,
	"created_at":     true,
	"updated_at":     true,
	"visit_count":    true,
	"favorite_count": true,
}

func resolveSort(field string, descending bool) (repositories.Sort, error) {
	if field == "" {
		return repositories.DefaultSort(), nil
	}
	if !contentSortFields[field] {
		return repositories.Sort{}, errs.Validation("Unsupported sort field: " + field)
	}
	return repositories.Sort{Field: field, Descending: descending}, nil
}
