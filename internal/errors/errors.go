package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for type checking
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")
)

// NotFoundError indicates a resource doesn't exist.
type NotFoundError struct {
	Resource string // "client", "order", "template"
	ID       string // The identifier that wasn't found
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// AlreadyExistsError indicates a resource already exists.
type AlreadyExistsError struct {
	Resource string
	ID       string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Resource, e.ID)
}

func (e *AlreadyExistsError) Unwrap() error {
	return ErrAlreadyExists
}

// ValidationError indicates invalid user input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// Helper constructors for common cases

func ClientNotFound(idOrName string) error {
	return &NotFoundError{Resource: "client", ID: idOrName}
}

func OrderNotFound(id string) error {
	return &NotFoundError{Resource: "order", ID: id}
}

func TemplateNotFound(idOrName string) error {
	return &NotFoundError{Resource: "template", ID: idOrName}
}

func ClientAlreadyExists(id string) error {
	return &AlreadyExistsError{Resource: "client", ID: id}
}

func OrderAlreadyExists(id string) error {
	return &AlreadyExistsError{Resource: "order", ID: id}
}

func InvalidField(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// AmbiguousMatch indicates a lookup matched more than one resource.
func AmbiguousMatch(resource, query string, count int) error {
	return &ValidationError{
		Message: fmt.Sprintf("%q matches %d %ss; use the full ID", query, count, resource),
	}
}

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already-exists error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
