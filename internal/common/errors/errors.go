package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode identifies a caller-visible failure kind.
type ErrorCode string

const (
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeBadRequest   ErrorCode = "BAD_REQUEST"

	ErrCodeUserNotFound     ErrorCode = "USER_NOT_FOUND"
	ErrCodeWishNotFound     ErrorCode = "WISH_NOT_FOUND"
	ErrCodeWishlistNotFound ErrorCode = "WISHLIST_NOT_FOUND"
	ErrCodeNotMember        ErrorCode = "NOT_A_MEMBER"

	ErrCodeInvalidTransition ErrorCode = "INVALID_STATE_TRANSITION"
	ErrCodeAlreadyBooked     ErrorCode = "ALREADY_BOOKED"
	ErrCodeAlreadyMember     ErrorCode = "ALREADY_MEMBER"
	ErrCodePermissionDenied  ErrorCode = "PERMISSION_DENIED"
	ErrCodePrivateWishlist   ErrorCode = "PRIVATE_WISHLIST"
	ErrCodeOwnerCannotLeave  ErrorCode = "OWNER_CANNOT_LEAVE"

	// ErrCodeStoreFailure marks unexpected entity store failures
	// (connectivity, corruption). Never a business-rule rejection.
	ErrCodeStoreFailure ErrorCode = "STORE_FAILURE"
)

// AppError is the typed application error carried from services to the
// HTTP error handler.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether the error is any of the "not found" kinds.
func (e *AppError) IsNotFound() bool {
	return e.Code == ErrCodeUserNotFound ||
		e.Code == ErrCodeWishNotFound ||
		e.Code == ErrCodeWishlistNotFound ||
		e.Code == ErrCodeNotMember
}

// IsConflict reports whether the error is a lost conditional write or an
// illegal status edge.
func (e *AppError) IsConflict() bool {
	return e.Code == ErrCodeInvalidTransition ||
		e.Code == ErrCodeAlreadyBooked ||
		e.Code == ErrCodeAlreadyMember ||
		e.Code == ErrCodeOwnerCannotLeave
}

// IsInternal reports whether the error should be treated as a server fault.
func (e *AppError) IsInternal() bool {
	return e.Code == ErrCodeInternal || e.Code == ErrCodeStoreFailure
}

// WithDetail attaches structured context to the error.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new application error.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Wrap attaches a cause to a new application error.
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

// NewStoreFailure wraps an unexpected entity store error.
func NewStoreFailure(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStoreFailure, fmt.Sprintf("store operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// NewValidationError creates a field validation error.
func NewValidationError(field, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("validation failed for field '%s': %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

// AsAppError unwraps err to an AppError if there is one in the chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the error code of err, or ErrCodeInternal for plain errors.
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}
