package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTransitionNotAllowed is returned when a strict transition policy rejects a status change
var ErrTransitionNotAllowed = errors.New("status transition not allowed")

// ValidationError describes a single invalid input field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every invalid field of one input
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Invalid returns a ValidationErrors holding a single field error
func Invalid(field, message string) ValidationErrors {
	return ValidationErrors{{Field: field, Message: message}}
}

// NotFoundError is returned when a lookup by id yields nothing
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// NotFound builds a NotFoundError
func NotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// IsNotFound reports whether err wraps a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ShareTargetError is returned when a phone number cannot receive a share link
type ShareTargetError struct {
	Phone string
}

func (e *ShareTargetError) Error() string {
	return fmt.Sprintf("invalid share target %q: phone number needs at least 10 digits", e.Phone)
}
