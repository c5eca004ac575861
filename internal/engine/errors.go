package engine

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField  = errors.New("missing required field")
	ErrMalformedData = errors.New("malformed roast data")
)

// MissingFieldError reports a required RoastRecord field that was absent or null.
type MissingFieldError struct {
	Field string // JSON key
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingField, e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// MalformedDataError reports input that is present but cannot be converted.
type MalformedDataError struct {
	Reason string
}

func (e *MalformedDataError) Error() string {
	if e.Reason == "" {
		return ErrMalformedData.Error()
	}
	return fmt.Sprintf("%s: %s", ErrMalformedData, e.Reason)
}

func (e *MalformedDataError) Unwrap() error { return ErrMalformedData }

func malformedf(format string, args ...any) error {
	return &MalformedDataError{Reason: fmt.Sprintf(format, args...)}
}
