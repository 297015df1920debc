package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure, with no infrastructure dependency. All are synchronous
// validation outcomes; none are transient or retryable.

var (
	// ErrNotFound is returned when a referenced id is unknown.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when a required field is missing or malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrQuotaExceeded is returned when a per-user creation limit is reached.
	ErrQuotaExceeded = errors.New("creation quota exceeded")

	// ErrInvalidStatus is returned when finalize receives a non-final status.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInsufficientPoints is returned when a reward costs more than the balance.
	ErrInsufficientPoints = errors.New("insufficient points")

	// ErrInvalidBatchSize is returned when a law batch is outside 10–50 items.
	ErrInvalidBatchSize = errors.New("law batch must contain 10-50 items")
)
