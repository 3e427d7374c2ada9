// Package errors provides common domain error types for the earnings-call analyzer.
//
// This package defines sentinel errors for common domain conditions like "no
// index present" or "index directory locked" that can be used across all
// packages. Using typed errors enables consistent error handling patterns with
// errors.Is() checks.
//
// Parse ambiguity (no boundary match, no date found, empty participant list)
// is deliberately NOT an error anywhere in this codebase; those conditions
// resolve to documented fallback values. Only genuine external failures and
// invalid input surface as errors.
package errors

import "errors"

// Domain errors - common sentinel errors for domain conditions.
var (
	// ErrNoIndex indicates no persisted index artifacts exist yet.
	ErrNoIndex = errors.New("no index present")

	// ErrIndexLocked indicates the index directory is busy and the operation
	// may succeed on retry.
	ErrIndexLocked = errors.New("index directory locked")

	// ErrPartialClear indicates some index artifacts were removed and some
	// were not. The index must be treated as gone, but files may remain.
	ErrPartialClear = errors.New("index partially cleared")

	// ErrExternalService indicates an embedding, completion, or extraction
	// service call failed after retries.
	ErrExternalService = errors.New("external service failure")

	// ErrValidation indicates invalid input or validation failure.
	ErrValidation = errors.New("validation error")
)

// IsNoIndex reports whether any error in err's chain is ErrNoIndex.
func IsNoIndex(err error) bool {
	return errors.Is(err, ErrNoIndex)
}

// IsIndexLocked reports whether any error in err's chain is ErrIndexLocked.
func IsIndexLocked(err error) bool {
	return errors.Is(err, ErrIndexLocked)
}

// IsPartialClear reports whether any error in err's chain is ErrPartialClear.
func IsPartialClear(err error) bool {
	return errors.Is(err, ErrPartialClear)
}

// IsExternalService reports whether any error in err's chain is ErrExternalService.
func IsExternalService(err error) bool {
	return errors.Is(err, ErrExternalService)
}

// IsValidation reports whether any error in err's chain is ErrValidation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
