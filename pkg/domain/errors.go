// Package domain holds errors shared across the service layer.
package domain

import "errors"

var (
	// ErrAccessDenied is returned when the acting user may not view or
	// operate on the account in question.
	ErrAccessDenied = errors.New("access denied")
	// ErrInvalidArgument is returned for malformed or unknown references in
	// a query.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnauthorized is returned when no authenticated user is present.
	ErrUnauthorized = errors.New("unauthorized")
)
