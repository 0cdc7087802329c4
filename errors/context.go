package errors

import stderrors "errors"

// WithContext returns a copy of err with key set to value in its context.
// A non-platform error is first converted with CodeUnknown.
// Returns nil if err is nil.
//
// Example:
//
//	err := errors.New(errors.CodeNotFound, "file not found")
//	err = errors.WithContext(err, "path", "docs/readme.md")
func WithContext(err error, key string, value interface{}) PlatformError {
	return WithContextMap(err, map[string]interface{}{key: value})
}

// WithContextMap returns a copy of err with fields merged into its context.
// New fields override existing ones with the same key.
// Returns nil if err is nil.
func WithContextMap(err error, fields map[string]interface{}) PlatformError {
	if err == nil {
		return nil
	}

	base := asPlatform(err)
	merged := make(map[string]interface{}, len(fields))
	for k, v := range base.Context() {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	return &platformError{
		code:           base.Code(),
		classification: base.Classification(),
		message:        base.Message(),
		context:        merged,
		cause:          base.Unwrap(),
	}
}

// WithClassification returns a copy of err with its classification replaced.
// Returns nil if err is nil.
func WithClassification(err error, classification ErrorClassification) PlatformError {
	if err == nil {
		return nil
	}

	base := asPlatform(err)
	return &platformError{
		code:           base.Code(),
		classification: classification,
		message:        base.Message(),
		context:        base.Context(),
		cause:          base.Unwrap(),
	}
}

func asPlatform(err error) PlatformError {
	var platformErr PlatformError
	if stderrors.As(err, &platformErr) {
		return platformErr
	}
	return &platformError{
		code:           CodeUnknown,
		classification: ClassificationPermanent,
		message:        err.Error(),
		cause:          err,
	}
}
