// Package apperrors defines the domain errors returned by the service layer.
package apperrors

import (
	"errors"
	"strings"
)

// FieldError is one failed rule on one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned before any store call when input breaks its schema.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "Validation failed: " + strings.Join(msgs, ", ")
}

// HasField reports whether the named field failed validation.
func (e *ValidationError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// NotFoundError means the identifier (combination) matched no record.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// AccessDeniedError means the caller is authenticated but lacks the required role.
type AccessDeniedError struct {
	Message string
}

func (e *AccessDeniedError) Error() string { return e.Message }

// UnauthenticatedError means credentials, OTP or session were rejected.
type UnauthenticatedError struct {
	Message string
}

func (e *UnauthenticatedError) Error() string { return e.Message }

// RateLimitedError means the caller must wait before retrying, e.g. an OTP is still active.
type RateLimitedError struct {
	Message string
}

func (e *RateLimitedError) Error() string { return e.Message }

// OperationFailedError wraps any other backend failure, keeping its message.
type OperationFailedError struct {
	Op  string
	Err error
}

func (e *OperationFailedError) Error() string {
	if e.Err == nil {
		return "Failed to " + e.Op
	}
	return "Failed to " + e.Op + ": " + e.Err.Error()
}

func (e *OperationFailedError) Unwrap() error { return e.Err }

func NewNotFound(msg string) error        { return &NotFoundError{Message: msg} }
func NewAccessDenied(msg string) error    { return &AccessDeniedError{Message: msg} }
func NewUnauthenticated(msg string) error { return &UnauthenticatedError{Message: msg} }
func NewRateLimited(msg string) error     { return &RateLimitedError{Message: msg} }

// OperationFailed builds an OperationFailedError for op ("submit booking", "fetch report", ...).
func OperationFailed(op string, err error) error {
	return &OperationFailedError{Op: op, Err: err}
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsAccessDenied(err error) bool {
	var target *AccessDeniedError
	return errors.As(err, &target)
}

func IsUnauthenticated(err error) bool {
	var target *UnauthenticatedError
	return errors.As(err, &target)
}

func IsRateLimited(err error) bool {
	var target *RateLimitedError
	return errors.As(err, &target)
}

func IsOperationFailed(err error) bool {
	var target *OperationFailedError
	return errors.As(err, &target)
}
