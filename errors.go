package main

import (
	"errors"
	"fmt"
)

// Engine errors
var (
	// ErrMissingDate is returned when a source record has no transaction date.
	ErrMissingDate = errors.New("record has no date")

	// ErrMissingDueDate is returned when an invoice or debit note has no due date.
	ErrMissingDueDate = errors.New("record has no due date")

	// ErrZeroAmount is returned when a source record carries a zero amount.
	ErrZeroAmount = errors.New("amount must not be zero")

	// ErrNegativeAmount is returned when a kind that implies its own sign is
	// given a negative magnitude.
	ErrNegativeAmount = errors.New("amount must be positive for this kind")

	// ErrMissingAccount is returned when a source record names no account.
	ErrMissingAccount = errors.New("record has no account")

	// ErrMissingOpeningBalance is returned when a statement is requested
	// without an opening balance. Statements never assume zero.
	ErrMissingOpeningBalance = errors.New("opening balance unavailable")

	// ErrUnknownKind is returned for an unrecognized document kind tag.
	ErrUnknownKind = errors.New("unknown document kind")
)

// ValidationError marks a single malformed source record. The record is
// skipped and reported; the rest of the batch proceeds.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid record: field %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("invalid record: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func newValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

// IncompleteDataError marks a report whose prerequisite aggregate is missing.
// It aborts that single report; other reports are unaffected.
type IncompleteDataError struct {
	AccountID string
	Err       error
}

func (e *IncompleteDataError) Error() string {
	return fmt.Sprintf("incomplete data for account %s: %v", e.AccountID, e.Err)
}

func (e *IncompleteDataError) Unwrap() error {
	return e.Err
}
