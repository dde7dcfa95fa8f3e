// Package errors defines the application error taxonomy.
package errors

import "fmt"

type ErrorType string

// Domain/Business Logic Errors - errors related to business rules and validation
const (
	ValidationError ErrorType = "VALIDATION_ERROR"
	NotFoundError   ErrorType = "NOT_FOUND_ERROR"
)

// Infrastructure Errors - errors related to external systems and services
const (
	DatabaseError     ErrorType = "DATABASE_ERROR"
	ExternalAPIError  ErrorType = "EXTERNAL_API_ERROR"
	NotificationError ErrorType = "NOTIFICATION_ERROR"
	AgentError        ErrorType = "AGENT_ERROR"
)

// System/Configuration Errors - errors related to system setup and configuration
const (
	ConfigurationError ErrorType = "CONFIGURATION_ERROR"
	UnavailableError   ErrorType = "UNAVAILABLE_ERROR"
)

type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
	}
}

func Wrap(errorType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

func NewValidationError(message string) *AppError {
	return New(ValidationError, message)
}

func NewNotFoundError(message string) *AppError {
	return New(NotFoundError, message)
}

func NewDatabaseError(message string, cause error) *AppError {
	return Wrap(DatabaseError, message, cause)
}

func NewExternalAPIError(message string, cause error) *AppError {
	return Wrap(ExternalAPIError, message, cause)
}

func NewNotificationError(message string, cause error) *AppError {
	return Wrap(NotificationError, message, cause)
}

func NewAgentError(message string, cause error) *AppError {
	return Wrap(AgentError, message, cause)
}

func NewConfigurationError(message string, cause error) *AppError {
	return Wrap(ConfigurationError, message, cause)
}

func NewUnavailableError(message string) *AppError {
	return New(UnavailableError, message)
}

// Helper functions for error type checking
func IsNotFoundError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == NotFoundError
	}
	return false
}

func IsValidationError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == ValidationError
	}
	return false
}

func IsExternalAPIError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == ExternalAPIError
	}
	return false
}

func IsUnavailableError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == UnavailableError
	}
	return false
}
