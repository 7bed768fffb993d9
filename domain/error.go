// Package domain defines error types for the cart engine.
package domain

import (
	"errors"
	"fmt"
)

// EntryNotFoundError is returned when a cart entry with the given
// product id is not present in the cart.
type EntryNotFoundError struct {
	ProductID string
}

// Error implements the error interface for EntryNotFoundError
func (e *EntryNotFoundError) Error() string {
	return fmt.Sprintf("cart entry not found: product_id=%s", e.ProductID)
}

// Is allows proper error type checking with errors.Is()
func (e *EntryNotFoundError) Is(target error) bool {
	_, ok := target.(*EntryNotFoundError)
	return ok
}

// InvalidProductError is returned when a catalog record fails the
// checks a cart snapshot depends on.
type InvalidProductError struct {
	Field  string
	Reason string
	Value  interface{}
}

// Error implements the error interface for InvalidProductError
func (e *InvalidProductError) Error() string {
	return fmt.Sprintf("invalid product: field=%s, reason=%s, value=%v", e.Field, e.Reason, e.Value)
}

// Is allows proper error type checking with errors.Is()
func (e *InvalidProductError) Is(target error) bool {
	_, ok := target.(*InvalidProductError)
	return ok
}

// NewEntryNotFoundError creates a new EntryNotFoundError
func NewEntryNotFoundError(productID string) error {
	return &EntryNotFoundError{ProductID: productID}
}

// NewInvalidProductError creates a new InvalidProductError
func NewInvalidProductError(field, reason string, value interface{}) error {
	return &InvalidProductError{
		Field:  field,
		Reason: reason,
		Value:  value,
	}
}

// IsEntryNotFoundError checks if an error is an EntryNotFoundError
func IsEntryNotFoundError(err error) bool {
	var enf *EntryNotFoundError
	return errors.As(err, &enf)
}

// IsInvalidProductError checks if an error is an InvalidProductError
func IsInvalidProductError(err error) bool {
	var ipe *InvalidProductError
	return errors.As(err, &ipe)
}
