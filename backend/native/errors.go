package native

import (
	stderrors "errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage"
	"github.com/jmgilman/gitview/errors"
)

// wrapError classifies err and prefixes it with context. The original
// go-git error is dropped in favor of the classified one when a mapping
// exists; otherwise it is kept as a CodeBackend cause.
func wrapError(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, classifyError(err))
}

//nolint:gocyclo,cyclop // flat mapping table
func classifyError(err error) error {
	var platformErr errors.PlatformError
	if stderrors.As(err, &platformErr) {
		return err
	}

	switch {
	case stderrors.Is(err, gogit.ErrRepositoryNotExists):
		return errors.New(errors.CodeNotFound, "repository does not exist")
	case stderrors.Is(err, transport.ErrRepositoryNotFound):
		return errors.New(errors.CodeNotFound, "remote repository not found")
	case stderrors.Is(err, plumbing.ErrReferenceNotFound):
		return errors.New(errors.CodeNotFound, "reference not found")
	case stderrors.Is(err, plumbing.ErrObjectNotFound):
		return errors.New(errors.CodeNotFound, "object not found")
	case stderrors.Is(err, gogit.ErrRemoteNotFound):
		return errors.New(errors.CodeNotFound, "remote not found")
	case stderrors.Is(err, transport.ErrEmptyRemoteRepository):
		return errors.New(errors.CodeNotFound, "remote repository is empty")

	case stderrors.Is(err, gogit.ErrRepositoryAlreadyExists):
		return errors.New(errors.CodeAlreadyExists, "repository already exists")
	case stderrors.Is(err, gogit.ErrBranchExists):
		return errors.New(errors.CodeAlreadyExists, "branch already exists")

	case stderrors.Is(err, storage.ErrReferenceHasChanged):
		return errors.New(errors.CodeConflict, "reference has changed concurrently")
	case stderrors.Is(err, gogit.ErrNonFastForwardUpdate):
		return errors.New(errors.CodeConflict, "non-fast-forward update")

	case stderrors.Is(err, transport.ErrAuthenticationRequired):
		return errors.New(errors.CodeUnauthorized, "authentication required")
	case stderrors.Is(err, transport.ErrAuthorizationFailed):
		return errors.New(errors.CodeUnauthorized, "authorization failed")
	}

	return errors.Wrap(err, errors.CodeBackend, "object store operation failed")
}

func invalidInput(format string, args ...interface{}) error {
	return errors.Newf(errors.CodeInvalidInput, format, args...)
}
