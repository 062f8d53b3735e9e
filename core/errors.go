package core

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError reports that a referenced entity does not exist. Existence is
// always checked before ownership, so callers never learn whether a missing
// id would otherwise have been forbidden.
type NotFoundError struct {
	Kind Kind
	ID   int64
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// ForbiddenError reports that an authenticated user is neither the owner of
// the target entity nor an admin.
type ForbiddenError struct {
	Kind Kind
	ID   int64
}

// Error implements the error interface.
func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("access to %s %d denied", e.Kind, e.ID)
}

// ValidationError lists the required fields missing from a submitted
// operation. The message is intended for direct display, so it reads as a
// sentence: "Name and agent are required."
type ValidationError struct {
	Fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	var msg string
	if len(e.Fields) == 1 {
		msg = e.Fields[0] + " is required."
	} else {
		msg = strings.Join(e.Fields[:len(e.Fields)-1], ", ") + " and " + e.Fields[len(e.Fields)-1] + " are required."
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// VendorError wraps a transport or provider-side failure from a vendor
// adapter. It is returned as data so the orchestrator can surface the
// provider detail to the conversation owner instead of crashing the request.
type VendorError struct {
	Vendor string
	Err    error
}

// Error implements the error interface.
func (e *VendorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Vendor, e.Err)
}

// Unwrap exposes the underlying provider error.
func (e *VendorError) Unwrap() error { return e.Err }

// IntegrityError reports stored data violating a documented invariant, such
// as a conversation with no bound agent. It always indicates a bug and must
// not be papered over.
type IntegrityError struct {
	Msg string
}

// Error implements the error interface.
func (e *IntegrityError) Error() string {
	return "integrity violation: " + e.Msg
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var t *NotFoundError
	return errors.As(err, &t)
}

// IsForbidden reports whether err is (or wraps) a ForbiddenError.
func IsForbidden(err error) bool {
	var t *ForbiddenError
	return errors.As(err, &t)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var t *ValidationError
	return errors.As(err, &t)
}

// IsVendor reports whether err is (or wraps) a VendorError.
func IsVendor(err error) bool {
	var t *VendorError
	return errors.As(err, &t)
}

// IsIntegrity reports whether err is (or wraps) an IntegrityError.
func IsIntegrity(err error) bool {
	var t *IntegrityError
	return errors.As(err, &t)
}
