package domain

import "errors"

var (
	// ErrEmptyQuery is returned when the trimmed search query is empty. No network call is made.
	ErrEmptyQuery = errors.New("search query is empty")

	// ErrTimeout is returned when a catalog request exceeds its time bound
	ErrTimeout = errors.New("catalog request timed out")

	// ErrNetwork is returned for transport failures, unexpected statuses or unreadable responses
	ErrNetwork = errors.New("catalog request failed")

	// ErrUpstreamStatus is returned when the catalog answers with a non-200
	// status. Errors carrying it also match ErrNetwork.
	ErrUpstreamStatus = errors.New("catalog returned an error status")

	// ErrNoMatches signals a valid, empty search result. It is never a failure state.
	ErrNoMatches = errors.New("no recipes matched the ingredient")

	// ErrDetailsUnavailable is returned when candidates existed but every detail lookup failed
	ErrDetailsUnavailable = errors.New("recipes found but details could not be loaded")

	// ErrRecipeNotFound is returned when a lookup by id yields no record
	ErrRecipeNotFound = errors.New("recipe not found in catalog")

	// ErrPersistence wraps storage read/write failures. It is logged, never surfaced.
	ErrPersistence = errors.New("session persistence failed")

	// ErrKeyNotFound is returned by key-value stores for absent keys
	ErrKeyNotFound = errors.New("key not found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")
)
