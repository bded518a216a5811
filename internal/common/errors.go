// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Input errors.
	ErrEmptyInput     = errors.New("no transactions with valid dates")
	ErrInvalidWeekday = errors.New("invalid week start weekday")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// FormatError reports an input file whose header does not have the expected shape.
// It is fatal for the whole run.
type FormatError struct {
	Source   string
	Columns  int
	Expected int
}

func (e *FormatError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("incorrect format in %s: header has %d columns, expected %d", e.Source, e.Columns, e.Expected)
	}
	return fmt.Sprintf("incorrect format: header has %d columns, expected %d", e.Columns, e.Expected)
}

// ParseError reports a row whose date or money field could not be parsed.
type ParseError struct {
	Err   error
	Field string
	Value string
	Row   int
}

func (e *ParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: cannot parse %s %q: %v", e.Row, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("cannot parse %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MismatchError is returned when a transaction is added to a container
// (category or week) whose predicate it does not satisfy.
type MismatchError struct {
	Container string
	Want      string
	Got       string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("transaction does not belong to %s: want %s, got %s", e.Container, e.Want, e.Got)
}

// WriteError reports a report that could not be written to one sink.
// Other reports keep being written.
type WriteError struct {
	Err    error
	Sink   string
	Report string
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write report %s to %s: %v", e.Report, e.Sink, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsFatal reports whether err must abort the run before any output is written.
func IsFatal(err error) bool {
	var formatErr *FormatError
	var parseErr *ParseError
	return errors.As(err, &formatErr) || errors.As(err, &parseErr) || errors.Is(err, ErrEmptyInput)
}
