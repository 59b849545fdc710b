package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for callers that surface it to users.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindPersistence Kind = "persistence"
	KindNotFound    Kind = "not_found"
	KindForbidden   Kind = "forbidden"
)

// GenericPersistenceMessage is shown for every repository failure.
const GenericPersistenceMessage = "Could not save changes, please try again"

// AppError is a user-facing error with a stable code.
type AppError struct {
	Kind        Kind   `json:"kind"`
	Code        string `json:"code"`
	Message     string `json:"message"`
	UserMessage string `json:"userMessage,omitempty"`
	Err         error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Kind, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Kind, e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// GetUserMessage returns the message meant for display.
func (e *AppError) GetUserMessage() string {
	if e.UserMessage != "" {
		return e.UserMessage
	}
	return e.Message
}

// Validation builds an error for input rejected before any repository call.
func Validation(code, message string) *AppError {
	return &AppError{Kind: KindValidation, Code: code, Message: message, UserMessage: message}
}

// Persistence wraps a repository failure. The user message is always generic.
func Persistence(code, message string, err error) *AppError {
	return &AppError{Kind: KindPersistence, Code: code, Message: message, UserMessage: GenericPersistenceMessage, Err: err}
}

func NotFound(code, message string) *AppError {
	return &AppError{Kind: KindNotFound, Code: code, Message: message, UserMessage: message}
}

func Forbidden(code, message string) *AppError {
	return &AppError{Kind: KindForbidden, Code: code, Message: message, UserMessage: message}
}

// KindOf returns the kind of the first AppError in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// IsKind reports whether err carries an AppError of the given kind.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// UserMessage returns the display message for any error.
func UserMessage(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.GetUserMessage()
	}
	return "An unexpected error occurred. Please try again"
}

// Code returns the AppError code, or GENERIC_ERROR.
func Code(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return "GENERIC_ERROR"
}

// HTTPStatus maps an error to a response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
