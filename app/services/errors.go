package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Failure kinds. Match them with errors.Is; use errors.As with the typed
// errors below for details.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrIntegrityConflict = errors.New("integrity conflict")
	ErrTransactionFailed = errors.New("transaction failed")
	ErrNotFound          = errors.New("not found")
)

// ValidationError lists caller-correctable problems by field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

// InsufficientStockError names the product that could not cover the order
// and how many units it had.
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d", e.ProductName, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// ConflictError reports a uniqueness violation on Field.
type ConflictError struct {
	Entity string
	Field  string
	Value  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Entity, e.Field, e.Value)
}

func (e *ConflictError) Is(target error) bool { return target == ErrIntegrityConflict }

// TransactionError wraps the storage error behind a rolled-back write.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("%s: transaction failed: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }

func (e *TransactionError) Is(target error) bool { return target == ErrTransactionFailed }

// NotFoundError names the missing record.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
