package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrNotFound              = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")

	// Authorization errors, one per denial reason so the HTTP layer
	// can surface a specific message instead of a generic 403
	ErrRoleMismatch        = errors.New("role not permitted for this action")
	ErrCrossTenant         = errors.New("resource belongs to another college")
	ErrPendingVerification = errors.New("account is pending verification")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUsernameExists     = errors.New("username already exists")
)

// College errors
var (
	ErrCollegeNotFound        = errors.New("college not found")
	ErrCollegeAlreadyExists   = errors.New("college with this name already exists")
	ErrInvalidCollegeIDFormat = errors.New("invalid college ID format")
)

// Registry errors
var (
	ErrRegistryMismatch  = errors.New("register number or email not found in the college registry")
	ErrAlreadyRegistered = errors.New("this student is already registered")
)

// Note errors
var (
	ErrNoteNotFound   = errors.New("note not found")
	ErrDuplicateTitle = errors.New("a note with this title already exists for this topic")
	ErrStorageFailure = errors.New("storage backend failure")
)

// Syllabus errors
var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrSemesterNotFound = errors.New("semester not found")
	ErrSubjectNotFound  = errors.New("subject not found")
	ErrUnitNotFound     = errors.New("unit not found")
	ErrTopicNotFound    = errors.New("topic not found")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with an underlying error
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

// NewValidationError creates a field-scoped validation error
func NewValidationError(field, reason string) *CustomError {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: reason,
		Details: map[string]interface{}{"field": field},
	}
}

// NewNotFoundError creates a not-found error with a message
func NewNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrNotFound,
		Message: message,
	}
}
