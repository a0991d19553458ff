package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyMessage    = errors.New("empty message")
	ErrNotImage        = errors.New("only image files are supported")
	ErrSessionNotFound = errors.New("session not found")
)

// ServiceError is a structured failure returned by the recommendation
// backend. Detail is surfaced verbatim in the assistant's error message.
type ServiceError struct {
	Status int
	Detail string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Detail)
}
