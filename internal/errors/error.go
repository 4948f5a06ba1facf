// Package errors provides custom error types for product-related operations.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrProductNotFound signals that no product matches an id-scoped read, update or delete.
var ErrProductNotFound = errors.New("product not found")

// FieldError describes one rejected field of a document.
type FieldError struct {
	Path    string
	Message string
}

// ValidationError is returned when a document violates the product schema.
// Its message follows the document-model convention:
//
//	Product validation failed: description: Path `description` is required.
type ValidationError struct {
	Model  string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Path + ": " + f.Message
	}
	return fmt.Sprintf("%s validation failed: %s", e.Model, strings.Join(parts, ", "))
}

// RequiredField builds the message reported for a missing required path.
func RequiredField(path string) FieldError {
	return FieldError{Path: path, Message: fmt.Sprintf("Path `%s` is required.", path)}
}

// CastError is returned when an identifier cannot be converted to the store's key type.
type CastError struct {
	Model string
	Kind  string
	Value string
	Path  string
	Err   error
}

func (e *CastError) Error() string {
	return fmt.Sprintf("Cast to %s failed for value %q (type string) at path %q for model %q", e.Kind, e.Value, e.Path, e.Model)
}

func (e *CastError) Unwrap() error {
	return e.Err
}
