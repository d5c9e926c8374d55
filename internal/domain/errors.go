package domain

import "fmt"

// ValidationError indicates malformed, missing, or out-of-range input.
// The message names the offending field and is safe to show to callers.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// NotFoundError indicates an operation targeted a nonexistent resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NewNotFoundError creates a new NotFoundError for the given resource and identifier.
func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ConflictError indicates a write lost to a concurrent mutation or a
// uniqueness violation.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NewConflictError creates a new ConflictError.
func NewConflictError(message string) error {
	return &ConflictError{Message: message}
}

// ConnectionError indicates a broken live-update channel. It is never fatal:
// the client falls back to reconnecting and polling.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection: %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// NewConnectionError wraps err with the failed channel operation.
func NewConnectionError(op string, err error) error {
	return &ConnectionError{Op: op, Err: err}
}

// StorageError wraps a backend I/O failure. The previous durable state is
// still intact when one of these is returned from a mutation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err with the failed storage operation.
func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
