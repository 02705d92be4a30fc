// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error codes surfaced by the media driver to clients.

package api

import "fmt"

// ErrInvalidArgument is wrapped by constructors rejecting their inputs.
var ErrInvalidArgument = fmt.Errorf("invalid argument")

// ErrorCode is the error code carried in an ON_ERROR response.
// Values are part of the client protocol and must not be reordered.
type ErrorCode int32

const (
	ErrCodeGeneric ErrorCode = iota
	ErrCodeInvalidChannel
	ErrCodeUnknownPublication
	ErrCodeUnknownSubscription
	ErrCodeUnknownCommand
	ErrCodeMalformedCommand
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeGeneric:
		return "GENERIC_ERROR"
	case ErrCodeInvalidChannel:
		return "INVALID_CHANNEL"
	case ErrCodeUnknownPublication:
		return "UNKNOWN_PUBLICATION"
	case ErrCodeUnknownSubscription:
		return "UNKNOWN_SUBSCRIPTION"
	case ErrCodeUnknownCommand:
		return "UNKNOWN_COMMAND"
	case ErrCodeMalformedCommand:
		return "MALFORMED_COMMAND"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int32(c))
	}
}

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (context: %+v)", e.Code, e.Message, e.Context)
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
