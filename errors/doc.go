// Package errors provides the structured error type shared by every gitview
// package.
//
// Every failure surfaced by a backend or by the repository core is a
// PlatformError carrying an ErrorCode, a retry classification, a message and
// optional context metadata. The codes line up with the failure classes a
// caller of the repository is expected to branch on:
//
//   - CodeNotFound: a file, reference or commit does not exist
//   - CodeInvalidState: the session state forbids the operation, for example
//     merging with a dirty index
//   - CodeMergeConflict: a merge would touch paths changed on both sides; the
//     concrete error is a *MergeConflictError that lists the paths
//   - CodeBackend: the storage engine or hosted API reported a failure; the
//     native exit code or HTTP status is attached as context
//
// The package stays compatible with the standard library (errors.Is,
// errors.As, errors.Unwrap) so wrapped causes remain reachable.
//
// # Usage
//
//	sha, err := repo.Merge(ctx, "feature", "")
//	if conflict, ok := errors.AsMergeConflict(err); ok {
//	    for _, path := range conflict.Paths() {
//	        fmt.Println("conflict:", path)
//	    }
//	}
//
//	if errors.IsNotFound(err) {
//	    // missing file or ref
//	}
//
// Errors render as "[CODE] message" or "[CODE] message: cause" and can be
// serialized for machine consumption with ToJSON.
package errors
