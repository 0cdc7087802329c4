package errors

// ErrorClassification tells a caller whether retrying may help.
// The repository never retries on its own; the classification is informative.
type ErrorClassification string

const (
	// ClassificationRetryable marks transient failures (network, rate limits).
	ClassificationRetryable ErrorClassification = "RETRYABLE"

	// ClassificationPermanent marks failures that will recur on retry.
	ClassificationPermanent ErrorClassification = "PERMANENT"
)

// IsRetryable returns true if the classification indicates retry should be attempted.
func (c ErrorClassification) IsRetryable() bool {
	return c == ClassificationRetryable
}

var defaultClassifications = map[ErrorCode]ErrorClassification{
	CodeNetwork:   ClassificationRetryable,
	CodeRateLimit: ClassificationRetryable,
	CodeTimeout:   ClassificationRetryable,

	CodeNotFound:       ClassificationPermanent,
	CodeAlreadyExists:  ClassificationPermanent,
	CodeConflict:       ClassificationPermanent,
	CodeInvalidState:   ClassificationPermanent,
	CodeMergeConflict:  ClassificationPermanent,
	CodeUnauthorized:   ClassificationPermanent,
	CodeForbidden:      ClassificationPermanent,
	CodeInvalidInput:   ClassificationPermanent,
	CodeInvalidConfig:  ClassificationPermanent,
	CodeBackend:        ClassificationPermanent,
	CodeInternal:       ClassificationPermanent,
	CodeNotImplemented: ClassificationPermanent,
	CodeUnknown:        ClassificationPermanent,
}

// classificationFor returns the default classification for code.
// Unknown codes are treated as permanent.
func classificationFor(code ErrorCode) ErrorClassification {
	if class, ok := defaultClassifications[code]; ok {
		return class
	}
	return ClassificationPermanent
}
