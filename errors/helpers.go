package errors

import stderrors "errors"

// Is is errors.Is from the standard library.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As is errors.As from the standard library.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// GetCode returns the code of the outermost PlatformError in err's chain.
// Returns CodeUnknown if err is nil or carries no PlatformError.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeUnknown
	}

	var platformErr PlatformError
	if stderrors.As(err, &platformErr) {
		return platformErr.Code()
	}
	return CodeUnknown
}

// HasCode reports whether any PlatformError in err's chain has code.
// Unlike GetCode it looks past outer wrappers, so a NotFound raised by a
// backend is still detected after the repository wraps it.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		if platformErr, ok := err.(PlatformError); ok && platformErr.Code() == code {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// IsNotFound reports whether err signals a missing file, ref or object.
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}

// IsInvalidState reports whether err signals a session state violation.
func IsInvalidState(err error) bool {
	return HasCode(err, CodeInvalidState)
}

// IsMergeConflict reports whether err is, or wraps, a merge conflict.
func IsMergeConflict(err error) bool {
	_, ok := AsMergeConflict(err)
	return ok
}

// GetClassification returns the classification of the outermost
// PlatformError in err's chain, defaulting to permanent.
func GetClassification(err error) ErrorClassification {
	if err == nil {
		return ClassificationPermanent
	}

	var platformErr PlatformError
	if stderrors.As(err, &platformErr) {
		return platformErr.Classification()
	}
	return ClassificationPermanent
}

// IsRetryable reports whether err is classified as retryable.
func IsRetryable(err error) bool {
	return GetClassification(err).IsRetryable()
}
