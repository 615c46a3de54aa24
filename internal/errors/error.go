// Package errors provides the storage sentinels and the domain error type of the product service.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

var ErrProductNotFound = errors.New("product not found")
var ErrProductConflict = errors.New("product with the same sku or name already exists")
var ErrFailedToFindProduct = errors.New("failed to find product")
var ErrCreateProduct = errors.New("failed to create product")

var ErrTransactionBegin = errors.New("failed to begin transaction")
var ErrTransactionCommit = errors.New("failed to commit transaction")
var ErrTransactionRollback = errors.New("failed to rollback transaction")

// Kind classifies a domain failure. The set is closed.
type Kind int

const (
	KindUnclassified Kind = iota
	KindValidationFailed
	KindAlreadyExists
	KindNotFound
	KindPublishFailed
)

func (k Kind) String() string {
	switch k {
	case KindValidationFailed:
		return "validation_failed"
	case KindAlreadyExists:
		return "already_exists"
	case KindNotFound:
		return "not_found"
	case KindPublishFailed:
		return "publish_failed"
	default:
		return "unclassified"
	}
}

// Error is the domain failure returned by the product service.
// Only the fields relevant to Kind are set.
type Error struct {
	Kind Kind
	// Violations lists every failed validation rule.
	Violations []string
	SKU        string
	Name       string
	// Message is the triggering message of an unclassified failure.
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindValidationFailed:
		return "product validation failed: " + strings.Join(e.Violations, "; ")
	case KindAlreadyExists:
		return fmt.Sprintf("product already exists: sku %s or name %s", e.SKU, e.Name)
	case KindNotFound:
		return fmt.Sprintf("product not found: sku %s", e.SKU)
	case KindPublishFailed:
		return fmt.Sprintf("publish product event for sku %s: %v", e.SKU, e.Err)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Err)
		}
		return e.Message
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func ValidationFailed(violations []string) *Error {
	return &Error{Kind: KindValidationFailed, Violations: violations}
}

func AlreadyExists(sku, name string, cause error) *Error {
	return &Error{Kind: KindAlreadyExists, SKU: sku, Name: name, Err: cause}
}

func NotFound(sku string) *Error {
	return &Error{Kind: KindNotFound, SKU: sku, Err: ErrProductNotFound}
}

func PublishFailed(sku string, cause error) *Error {
	return &Error{Kind: KindPublishFailed, SKU: sku, Err: cause}
}

func Unclassified(message string, cause error) *Error {
	return &Error{Kind: KindUnclassified, Message: message, Err: cause}
}

// KindOf returns the Kind of the first *Error in err's chain, KindUnclassified otherwise.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnclassified
}

// As returns the first *Error in err's chain, wrapping any other error as unclassified.
func As(err error) *Error {
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return Unclassified(err.Error(), err)
}
