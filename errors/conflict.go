package errors

import (
	stderrors "errors"
	"fmt"
	"slices"
	"strings"
)

// MergeConflictError reports the paths changed incompatibly on both sides of
// a merge. It satisfies PlatformError with CodeMergeConflict.
type MergeConflictError struct {
	branch string
	paths  []string
}

// NewMergeConflict creates a MergeConflictError for merging branch.
// Paths are sorted and deduplicated.
func NewMergeConflict(branch string, paths []string) *MergeConflictError {
	sorted := slices.Clone(paths)
	slices.Sort(sorted)
	return &MergeConflictError{
		branch: branch,
		paths:  slices.Compact(sorted),
	}
}

// AsMergeConflict extracts a *MergeConflictError from err's chain.
func AsMergeConflict(err error) (*MergeConflictError, bool) {
	var conflict *MergeConflictError
	if stderrors.As(err, &conflict) {
		return conflict, true
	}
	return nil, false
}

// Branch returns the branch whose merge conflicted.
func (e *MergeConflictError) Branch() string {
	return e.branch
}

// Paths returns a copy of the conflicting paths in sorted order.
func (e *MergeConflictError) Paths() []string {
	return slices.Clone(e.paths)
}

func (e *MergeConflictError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", CodeMergeConflict, e.Message(), strings.Join(e.paths, ", "))
}

func (e *MergeConflictError) Code() ErrorCode {
	return CodeMergeConflict
}

func (e *MergeConflictError) Classification() ErrorClassification {
	return ClassificationPermanent
}

func (e *MergeConflictError) Message() string {
	return fmt.Sprintf("merging %s conflicts on %d path(s)", e.branch, len(e.paths))
}

func (e *MergeConflictError) Context() map[string]interface{} {
	return map[string]interface{}{
		"branch": e.branch,
		"paths":  e.Paths(),
	}
}

func (e *MergeConflictError) Unwrap() error {
	return nil
}
