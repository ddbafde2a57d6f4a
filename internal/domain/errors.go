package domain

import "errors"

var (
	// ErrExternalServiceUnavailable: a classifier call failed or returned non-success.
	ErrExternalServiceUnavailable = errors.New("external service unavailable")
	// ErrMalformedResponse: a classifier payload matched no known shape.
	ErrMalformedResponse = errors.New("malformed classifier response")
	// ErrPersistence: the analysis write failed.
	ErrPersistence = errors.New("persistence failure")

	ErrEmptyText        = errors.New("entry text is required")
	ErrMissingJournalID = errors.New("journal_id is required")
	ErrUnauthenticated  = errors.New("caller identity is required")
	ErrEntryNotFound    = errors.New("journal entry not found")
)
