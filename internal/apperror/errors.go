// Package apperror holds the business error taxonomy shared by every use case.
package apperror

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidationError reports a bad unit value, price inconsistency or a missing
// required field.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Detail
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Detail)
}

func Validation(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Detail: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

type InsufficientStockError struct {
	ProductID string
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: required %s, available %s",
		e.ProductID, e.Required, e.Available)
}

func InsufficientStock(productID string, required, available decimal.Decimal) error {
	return &InsufficientStockError{ProductID: productID, Required: required, Available: available}
}

// IllegalStateError rejects a status transition. Shortfalls is set when the
// transition needed stock that was not there.
type IllegalStateError struct {
	Detail     string
	Shortfalls []InsufficientStockError
}

func (e *IllegalStateError) Error() string {
	if len(e.Shortfalls) == 0 {
		return "illegal state: " + e.Detail
	}
	parts := make([]string, len(e.Shortfalls))
	for i, s := range e.Shortfalls {
		parts[i] = fmt.Sprintf("%s (required %s, available %s)", s.ProductID, s.Required, s.Available)
	}
	return fmt.Sprintf("illegal state: %s: %s", e.Detail, strings.Join(parts, "; "))
}

func IllegalState(format string, args ...interface{}) error {
	return &IllegalStateError{Detail: fmt.Sprintf(format, args...)}
}

// StockShortfall builds the error returned when completing an order finds
// too little stock. Shortfalls are sorted by product.
func StockShortfall(detail string, shortfalls []InsufficientStockError) error {
	sort.Slice(shortfalls, func(i, j int) bool { return shortfalls[i].ProductID < shortfalls[j].ProductID })
	return &IllegalStateError{Detail: detail, Shortfalls: shortfalls}
}

// ConflictError reports a duplicate barcode or (name, supplier) pair, or a
// removal blocked by existing references.
type ConflictError struct {
	Detail string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Detail
}

func Conflict(format string, args ...interface{}) error {
	return &ConflictError{Detail: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsInsufficientStock(err error) bool {
	var e *InsufficientStockError
	return errors.As(err, &e)
}

func IsIllegalState(err error) bool {
	var e *IllegalStateError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}
