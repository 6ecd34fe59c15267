package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNullInput is returned when the input reference itself is absent.
	ErrNullInput = errors.New("input is missing")
	// ErrFormat is returned when text does not match the expected grammar.
	ErrFormat = errors.New("invalid format")
	// ErrRange is returned when a numeric field is outside its calendar-valid range.
	ErrRange = errors.New("value out of range")
	// ErrScheduleFormat is returned for malformed schedule entries.
	ErrScheduleFormat = errors.New("invalid schedule entry")
	// ErrInvalidArgument is returned by ParseToCalendarDate for rejected input.
	ErrInvalidArgument = errors.New("invalid argument")
)

// DateError describes a date that failed to parse.
type DateError struct {
	Input string
	Err   error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("date %q: %v", e.Input, e.Err)
}

func (e *DateError) Unwrap() error { return e.Err }

// ScheduleFormatError names the schedule token that could not be parsed.
type ScheduleFormatError struct {
	Token  string
	Reason string
	Err    error
}

func (e *ScheduleFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("schedule %q: %s: %v", e.Token, e.Reason, e.Err)
	}
	return fmt.Sprintf("schedule %q: %s", e.Token, e.Reason)
}

// Is reports ErrScheduleFormat for every ScheduleFormatError.
func (e *ScheduleFormatError) Is(target error) bool {
	return target == ErrScheduleFormat
}

func (e *ScheduleFormatError) Unwrap() error { return e.Err }

func newScheduleFormatError(token, reason string, cause error) *ScheduleFormatError {
	return &ScheduleFormatError{Token: token, Reason: reason, Err: cause}
}
