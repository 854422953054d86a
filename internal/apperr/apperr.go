// Package apperr defines the typed, machine-readable failures the timer core
// reports. Every expected failure carries a stable Code so callers can branch
// on the condition instead of matching message text.
package apperr

import (
	"errors"
	"fmt"
)

// Code identifies a failure condition
type Code string

const (
	CodeRoutineNotFound  Code = "RoutineNotFound"
	CodeAmbiguousRoutine Code = "AmbiguousRoutine"
	CodeSessionNotFound  Code = "SessionNotFound"
	CodeSessionNotActive Code = "SessionNotActive"
	CodeInvalidState     Code = "InvalidState"
	CodeEndBeforeStart   Code = "EndBeforeStart"
	CodeInvalidTime      Code = "InvalidTimeFormat"
)

// Candidate is one routine a lookup matched, returned with AmbiguousRoutine
// so the caller can disambiguate by identifier.
type Candidate struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
}

// Error is a categorized failure. Candidates is populated only for
// AmbiguousRoutine.
type Error struct {
	Code       Code
	Message    string
	Candidates []Candidate
}

func (e *Error) Error() string {
	return e.Message
}

// New creates an Error with the given code and formatted message
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Ambiguous creates an AmbiguousRoutine error carrying the full candidate list
func Ambiguous(message string, candidates []Candidate) *Error {
	return &Error{Code: CodeAmbiguousRoutine, Message: message, Candidates: candidates}
}

// CodeOf extracts the failure code from err, or "" if err is not a typed
// failure.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether err is a typed failure with the given code
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
