package model

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned when an entry references an unknown emotion
	ErrValidation = errors.New("invalid emotion")
	// ErrNotFound is returned when no questions exist for an emotion
	ErrNotFound = errors.New("no questions for this emotion")
	// ErrMissingField marks a required request field that was absent or null
	ErrMissingField = errors.New("field required")
)

// CorruptionError reports persisted entry data that could not be decoded
type CorruptionError struct {
	Source string
	Err    error
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("corrupt entry data in %s: %v", e.Source, e.Err)
}

func (e *CorruptionError) Unwrap() error {
	return e.Err
}
