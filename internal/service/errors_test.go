package service

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		err      error
		sentinel error
		status   int
	}{
		{&ValidationError{Message: "bad"}, ErrValidation, http.StatusBadRequest},
		{&NotFoundError{Resource: "record", ID: "1"}, ErrNotFound, http.StatusNotFound},
		{&ConflictError{Message: "dup"}, ErrConflict, http.StatusBadRequest},
		{storageErr("insert", errors.New("disk full")), ErrStorage, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		wrapped := fmt.Errorf("op: %w", tt.err)
		if !errors.Is(wrapped, tt.sentinel) {
			t.Errorf("errors.Is(%v, %v) = false", wrapped, tt.sentinel)
		}
		var he HTTPError
		if !errors.As(wrapped, &he) {
			t.Fatalf("errors.As(%v, HTTPError) = false", wrapped)
		}
		if he.StatusCode() != tt.status {
			t.Errorf("StatusCode() = %d, want %d", he.StatusCode(), tt.status)
		}
	}
}

func TestStorageErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := storageErr("save media", cause)
	if !errors.Is(err, cause) {
		t.Error("StorageError should unwrap to its cause")
	}
	if err.Error() != "save media: disk full" {
		t.Errorf("Error() = %q", err.Error())
	}
}
