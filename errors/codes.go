package errors

// ErrorCode identifies a class of failure.
// Codes are strings so they read well in logs and serialize naturally.
type ErrorCode string

const (
	// Resource errors.

	// CodeNotFound indicates a file, reference or object does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeAlreadyExists indicates a branch or object already exists.
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// CodeConflict indicates a reference moved underneath the caller, such as
	// a non-fast-forward update.
	CodeConflict ErrorCode = "CONFLICT"

	// Repository state errors.

	// CodeInvalidState indicates the session state forbids the operation
	// (dirty index, nothing to merge, nothing to commit).
	CodeInvalidState ErrorCode = "INVALID_STATE"

	// CodeMergeConflict indicates paths were changed incompatibly on both
	// sides of a merge.
	CodeMergeConflict ErrorCode = "MERGE_CONFLICT"

	// Permission errors.

	// CodeUnauthorized indicates missing or invalid credentials.
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// CodeForbidden indicates the credentials lack permission.
	CodeForbidden ErrorCode = "FORBIDDEN"

	// Validation errors.

	// CodeInvalidInput indicates a malformed argument, path or ref.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates the configuration file is invalid.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// Backend errors.

	// CodeBackend indicates the storage engine or hosted API failed.
	// The native exit code or HTTP status is attached as context.
	CodeBackend ErrorCode = "BACKEND_ERROR"

	// CodeNetwork indicates a transport failure talking to a remote.
	CodeNetwork ErrorCode = "NETWORK_ERROR"

	// CodeRateLimit indicates the hosted API rate limit was exceeded.
	CodeRateLimit ErrorCode = "RATE_LIMIT_EXCEEDED"

	// CodeTimeout indicates the caller's deadline expired.
	CodeTimeout ErrorCode = "TIMEOUT"

	// System errors.

	// CodeInternal indicates an unexpected internal failure.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeNotImplemented indicates the backend cannot perform the operation.
	CodeNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// CodeUnknown indicates an unclassified error.
	CodeUnknown ErrorCode = "UNKNOWN"
)
