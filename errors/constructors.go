package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
)

// New creates a PlatformError with the default classification for code.
//
// Example:
//
//	err := errors.New(errors.CodeNotFound, "file not found")
func New(code ErrorCode, message string) PlatformError {
	return &platformError{
		code:           code,
		classification: classificationFor(code),
		message:        message,
	}
}

// Newf is New with a formatted message.
//
// Example:
//
//	err := errors.Newf(errors.CodeInvalidInput, "invalid ref %q", ref)
func Newf(code ErrorCode, format string, args ...interface{}) PlatformError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps err with a code and message. The cause stays reachable through
// Unwrap. When err already is a PlatformError its classification is kept.
//
// Returns nil if err is nil.
//
// Example:
//
//	if err := storer.SetReference(ref); err != nil {
//	    return errors.Wrap(err, errors.CodeBackend, "failed to update branch")
//	}
func Wrap(err error, code ErrorCode, message string) PlatformError {
	if err == nil {
		return nil
	}
	return &platformError{
		code:           code,
		classification: inheritedClassification(err, code),
		message:        message,
		cause:          err,
	}
}

// Wrapf is Wrap with a formatted message.
//
// Returns nil if err is nil.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) PlatformError {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WrapWithContext wraps err and attaches a copy of ctx as metadata.
//
// Returns nil if err is nil.
//
// Example:
//
//	return errors.WrapWithContext(err, errors.CodeBackend, "git cat-file failed", map[string]interface{}{
//	    "exit_code": execErr.ExitCode,
//	    "stderr":    execErr.Stderr,
//	})
func WrapWithContext(err error, code ErrorCode, message string, ctx map[string]interface{}) PlatformError {
	if err == nil {
		return nil
	}
	return &platformError{
		code:           code,
		classification: inheritedClassification(err, code),
		message:        message,
		context:        maps.Clone(ctx),
		cause:          err,
	}
}

func inheritedClassification(err error, code ErrorCode) ErrorClassification {
	var platformErr PlatformError
	if stderrors.As(err, &platformErr) {
		return platformErr.Classification()
	}
	return classificationFor(code)
}
