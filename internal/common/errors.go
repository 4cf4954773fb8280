package common

import "errors"

// AppError represents an error with an attached code and structured details.
type AppError struct {
	Code    string
	Message string
	Err     error
	Details any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Code
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, err error, details any) *AppError {
	return &AppError{Code: code, Message: message, Err: err, Details: details}
}

// IsAppError checks whether the error is an AppError.
func IsAppError(err error) bool {
	var target *AppError
	return errors.As(err, &target)
}

// ErrorCode returns the code of the first AppError in err's chain, or fallback.
func ErrorCode(err error, fallback string) string {
	var target *AppError
	if errors.As(err, &target) && target.Code != "" {
		return target.Code
	}
	return fallback
}
