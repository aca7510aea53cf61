package domain

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

type ValidationKind string

const (
	InvalidFormat     ValidationKind = "invalid_format"
	InvalidDateOrder  ValidationKind = "invalid_date_order"
	InvalidPriceOrder ValidationKind = "invalid_price_order"
	OutOfRange        ValidationKind = "out_of_range"
)

// ValidationError rejects a query before any store is touched.
type ValidationError struct {
	Kind   ValidationKind
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(kind ValidationKind, field, reason string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Reason: reason}
}

type SearchErrorKind string

const StorageUnavailable SearchErrorKind = "storage_unavailable"

// SearchError reports a failed read. Err carries the store error for logs;
// Error() stays generic so it is safe to show to callers.
type SearchError struct {
	Kind SearchErrorKind
	Err  error
}

func (e *SearchError) Error() string { return "search temporarily unavailable" }

func (e *SearchError) Unwrap() error { return e.Err }

func NewStorageError(err error) *SearchError {
	return &SearchError{Kind: StorageUnavailable, Err: err}
}
