package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can decide whether to retry,
// fix the request, or give up.
type Kind int

const (
	Unexpected Kind = iota
	NotFound
	Validation
	Conflict
	StateError
	Contention
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case Validation:
		return "validation"
	case Conflict:
		return "conflict"
	case StateError:
		return "state_error"
	case Contention:
		return "contention"
	default:
		return "unexpected"
	}
}

// ConflictDetail names one concrete collision behind a Conflict rejection,
// detailed enough to explain the rejection without a follow-up query.
type ConflictDetail struct {
	Date           string `json:"date,omitempty"`
	TimeSlot       string `json:"time_slot,omitempty"`
	Source         string `json:"source"` // "booking" or "subscription"
	RefID          int    `json:"ref_id"`
	UnitsRequested int    `json:"units_requested,omitempty"`
	UnitsOccupied  int    `json:"units_occupied,omitempty"`
	Capacity       int    `json:"capacity,omitempty"`
}

type Error struct {
	Kind      Kind
	Msg       string
	Conflicts []ConflictDetail
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Newf(kind Kind, format string, v ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, v...)}
}

func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// WithConflicts attaches the structured collision list to a Conflict error.
func (e *Error) WithConflicts(details []ConflictDetail) *Error {
	e.Conflicts = details
	return e
}

// KindOf reports the Kind of err, or Unexpected for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unexpected
}

// Details returns the conflict list carried by err, if any.
func Details(err error) []ConflictDetail {
	var e *Error
	if errors.As(err, &e) {
		return e.Conflicts
	}
	return nil
}

func IsNotFound(err error) bool   { return KindOf(err) == NotFound }
func IsValidation(err error) bool { return KindOf(err) == Validation }
func IsConflict(err error) bool   { return KindOf(err) == Conflict }
func IsStateError(err error) bool { return KindOf(err) == StateError }
func IsContention(err error) bool { return KindOf(err) == Contention }
