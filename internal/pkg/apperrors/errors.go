package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrUnknownAction    = errors.New("unknown action")
	ErrBadRequest       = errors.New("bad request")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrInvalidFormat      = errors.New("invalid token format")
	ErrPermissionDenied   = errors.New("permission denied")
)

// Student account errors
var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrStudentNoExists    = errors.New("student number already exists")

	// Sign-in gate errors, surfaced by the status engine
	ErrAccountPending     = errors.New("account is pending approval")
	ErrAccountRejected    = errors.New("account has been rejected")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrAccountOnHold      = errors.New("account is on hold")
	ErrEnrollmentRequired = errors.New("identity enrollment required")
)

// Document request errors
var (
	ErrRequestNotFound     = errors.New("request not found")
	ErrUnsupportedDocument = errors.New("unsupported document type")
)

// Admin errors
var (
	ErrAdminNotFound = errors.New("admin not found")
)

// Password reset errors
var (
	ErrResetTokenNotFound = errors.New("password reset token not found")
	ErrResetTokenExpired  = errors.New("password reset token expired")
	ErrResetTokenUsed     = errors.New("password reset token has already been used")
)

// Audit errors
var (
	// ErrAuditWrite marks a failure to append the audit trail for a privileged
	// mutation. It is never swallowed: loss of trail is a compliance issue.
	ErrAuditWrite = errors.New("audit log write failed")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// NewValidationError creates a validation error with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}
