package printvendor

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a vendor API failure for retry policy
type ErrorKind string

const (
	// ErrKindAuth means the credentials are wrong. Fatal: retrying
	// with the same credentials cannot succeed.
	ErrKindAuth ErrorKind = "AUTH"
	// ErrKindValidation means the vendor rejected the request shape
	// or identifiers. Fatal: requires operator intervention.
	ErrKindValidation ErrorKind = "VALIDATION"
	// ErrKindTransient means a 5xx or timeout. Safe to retry via
	// webhook redelivery.
	ErrKindTransient ErrorKind = "TRANSIENT"
)

// VendorError wraps a non-2xx vendor response with the HTTP status and
// raw body attached for diagnostics
type VendorError struct {
	Kind       ErrorKind
	StatusCode int
	Body       string
	Cause      error
}

func (e *VendorError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("vendor API error (%d, %s): %s", e.StatusCode, e.Kind, e.Body)
	}
	return fmt.Sprintf("vendor API error (%s): %v", e.Kind, e.Cause)
}

func (e *VendorError) Unwrap() error {
	return e.Cause
}

// classify maps an HTTP status to an error kind
func classify(statusCode int) ErrorKind {
	switch {
	case statusCode == 401 || statusCode == 403:
		return ErrKindAuth
	case statusCode >= 500:
		return ErrKindTransient
	default:
		return ErrKindValidation
	}
}

// IsAuthFailure reports whether err is a fatal credential failure
func IsAuthFailure(err error) bool {
	var ve *VendorError
	return errors.As(err, &ve) && ve.Kind == ErrKindAuth
}

// IsTransient reports whether err is safe to retry
func IsTransient(err error) bool {
	var ve *VendorError
	return errors.As(err, &ve) && ve.Kind == ErrKindTransient
}

// IsDuplicateOrder reports whether the vendor rejected a submission
// because an order with the same external id already exists. Callers
// treat this as already-submitted, not as a failure.
func IsDuplicateOrder(err error) bool {
	var ve *VendorError
	if !errors.As(err, &ve) || ve.Kind != ErrKindValidation {
		return false
	}
	return strings.Contains(ve.Body, "external_id")
}
