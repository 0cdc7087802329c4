package errors

import (
	"fmt"
	"maps"
)

// PlatformError is an error with a code, a retry classification and
// optional context metadata. It supports errors.Is, errors.As and
// errors.Unwrap through Unwrap.
type PlatformError interface {
	error

	// Code returns the error code identifying the failure class.
	Code() ErrorCode

	// Classification reports whether the failure is retryable.
	Classification() ErrorClassification

	// Message returns the human-readable message without the cause.
	Message() string

	// Context returns a copy of the attached metadata, or nil.
	Context() map[string]interface{}

	// Unwrap returns the wrapped cause, or nil.
	Unwrap() error
}

// platformError is the concrete PlatformError. It is unexported so that
// construction goes through New, Wrap and friends.
type platformError struct {
	code           ErrorCode
	classification ErrorClassification
	message        string
	context        map[string]interface{}
	cause          error
}

// Error formats the error as "[CODE] message" or "[CODE] message: cause".
func (e *platformError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.code, e.message)
}

func (e *platformError) Code() ErrorCode {
	return e.code
}

func (e *platformError) Classification() ErrorClassification {
	return e.classification
}

func (e *platformError) Message() string {
	return e.message
}

func (e *platformError) Context() map[string]interface{} {
	if e.context == nil {
		return nil
	}
	return maps.Clone(e.context)
}

func (e *platformError) Unwrap() error {
	return e.cause
}
