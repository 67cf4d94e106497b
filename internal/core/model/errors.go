package model

import "errors"

var (
	// ErrNotFound is returned when an entity is required to exist and does not.
	ErrNotFound = errors.New("entity was not found")

	// ErrValidation is returned when a required field is missing or malformed.
	// It is surfaced to the caller immediately and never retried.
	ErrValidation = errors.New("invalid argument")

	// ErrUpstream is returned when a storage or provider collaborator failed.
	// The core performs no retry of its own; retry policy belongs to the
	// collaborator.
	ErrUpstream = errors.New("upstream collaborator unavailable")
)
