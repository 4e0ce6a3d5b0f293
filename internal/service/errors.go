package service

import (
	"errors"
	"fmt"
	"net/http"

	"lifelog/internal/util"
)

// Sentinel errors, match with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrStorage    = errors.New("storage failure")
)

// HTTPError is an error that knows its HTTP status.
type HTTPError interface {
	error
	StatusCode() int
}

type (
	// ValidationError indicates a missing or malformed field.
	ValidationError struct {
		Message string
	}

	// NotFoundError indicates the referenced row does not exist.
	NotFoundError struct {
		Resource string
		ID       string
	}

	// ConflictError indicates the write would duplicate an existing row.
	ConflictError struct {
		Message string
	}

	// StorageError wraps a database or filesystem failure.
	StorageError struct {
		Op  string
		Err error
	}
)

func (e *ValidationError) Error() string { return e.Message }
func (e *NotFoundError) Error() string   { return fmt.Sprintf("%s %s not found", e.Resource, e.ID) }
func (e *ConflictError) Error() string   { return e.Message }
func (e *StorageError) Error() string    { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }
func (e *NotFoundError) StatusCode() int   { return http.StatusNotFound }
func (e *ConflictError) StatusCode() int   { return http.StatusBadRequest }
func (e *StorageError) StatusCode() int    { return http.StatusInternalServerError }

// BusinessCode separates a duplicate from a validation failure; both answer 400.
func (e *ConflictError) BusinessCode() int { return util.CodeConflict }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
func (e *NotFoundError) Is(target error) bool   { return target == ErrNotFound }
func (e *ConflictError) Is(target error) bool   { return target == ErrConflict }
func (e *StorageError) Is(target error) bool    { return target == ErrStorage }
func (e *StorageError) Unwrap() error           { return e.Err }

func validationErr(err error) error {
	return &ValidationError{Message: err.Error()}
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
