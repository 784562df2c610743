package errors

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors for common error conditions
var (
	// ErrDimensionMismatch is returned when a vector's length differs from the
	// index's established dimension
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrDuplicateID is returned when inserting an id that is already present
	ErrDuplicateID = errors.New("duplicate id")

	// ErrDocumentNotFound is returned when a document is not found
	ErrDocumentNotFound = errors.New("document not found")

	// ErrAlreadySealed is returned when a write is attempted after the
	// population phase has finished
	ErrAlreadySealed = errors.New("already sealed")

	// ErrNotSealed is returned when a query is attempted before the
	// population phase has finished
	ErrNotSealed = errors.New("not sealed")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// DimensionMismatchError represents a dimension mismatch with context
type DimensionMismatchError struct {
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *DimensionMismatchError) Is(target error) bool {
	return target == ErrDimensionMismatch
}

// NewDimensionMismatchError creates a new DimensionMismatchError
func NewDimensionMismatchError(expected, actual int) *DimensionMismatchError {
	return &DimensionMismatchError{Expected: expected, Actual: actual}
}

// DuplicateIDError represents an insert of an id that is already present
type DuplicateIDError struct {
	ID uuid.UUID
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("id '%s' already present in index", e.ID)
}

func (e *DuplicateIDError) Is(target error) bool {
	return target == ErrDuplicateID
}

// NewDuplicateIDError creates a new DuplicateIDError
func NewDuplicateIDError(id uuid.UUID) *DuplicateIDError {
	return &DuplicateIDError{ID: id}
}

// DocumentNotFoundError represents a document not found error with context
type DocumentNotFoundError struct {
	DocumentID uuid.UUID
}

func (e *DocumentNotFoundError) Error() string {
	return fmt.Sprintf("document with ID '%s' not found", e.DocumentID)
}

func (e *DocumentNotFoundError) Is(target error) bool {
	return target == ErrDocumentNotFound
}

// NewDocumentNotFoundError creates a new DocumentNotFoundError
func NewDocumentNotFoundError(documentID uuid.UUID) *DocumentNotFoundError {
	return &DocumentNotFoundError{DocumentID: documentID}
}

// StateError represents an operation attempted in the wrong lifecycle phase
type StateError struct {
	Operation string
	Sealed    bool
}

func (e *StateError) Error() string {
	if e.Sealed {
		return fmt.Sprintf("operation '%s' not allowed: corpus already sealed", e.Operation)
	}
	return fmt.Sprintf("operation '%s' not allowed: corpus not sealed yet", e.Operation)
}

func (e *StateError) Is(target error) bool {
	if e.Sealed {
		return target == ErrAlreadySealed
	}
	return target == ErrNotSealed
}

// NewAlreadySealedError creates a StateError for a write after sealing
func NewAlreadySealedError(operation string) *StateError {
	return &StateError{Operation: operation, Sealed: true}
}

// NewNotSealedError creates a StateError for a query before sealing
func NewNotSealedError(operation string) *StateError {
	return &StateError{Operation: operation, Sealed: false}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
