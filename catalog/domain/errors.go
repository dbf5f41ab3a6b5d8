package domain

import "errors"

// ErrNotFound is returned when a referenced record or blob does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidArgument is returned for malformed pagination parameters, empty
// tag names, and missing required fields.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrUnauthorized is returned when an authorization decision denies an action.
var ErrUnauthorized = errors.New("unauthorized")

// ErrConflict is returned when a manual catalog insertion duplicates an
// existing storage name, or a unique constraint is violated.
var ErrConflict = errors.New("conflict")
