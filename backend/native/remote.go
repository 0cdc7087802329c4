package native

import (
	"context"
	stderrors "errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/jmgilman/gitview/backend"
)

// Fetch downloads objects and refs from a remote. With a branch only that
// branch's remote-tracking ref is updated.
func (b *Backend) Fetch(ctx context.Context, opts backend.RemoteOptions) error {
	fetchOpts := &gogit.FetchOptions{
		RemoteName: opts.RemoteName(),
		Auth:       b.auth,
		Force:      opts.Force,
	}
	if opts.Branch != "" {
		fetchOpts.RefSpecs = []config.RefSpec{config.RefSpec(fmt.Sprintf(
			"+%s:%s",
			plumbing.NewBranchReferenceName(opts.Branch),
			backend.RemoteBranch(opts.RemoteName(), opts.Branch),
		))}
	}

	err := b.repo.FetchContext(ctx, fetchOpts)
	if err != nil && !stderrors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return wrapError(err, "failed to fetch from remote")
	}
	return nil
}

// Push uploads a branch (or the remote's configured refspecs when no branch
// is given) to a remote.
func (b *Backend) Push(ctx context.Context, opts backend.RemoteOptions) error {
	pushOpts := &gogit.PushOptions{
		RemoteName: opts.RemoteName(),
		Auth:       b.auth,
		Force:      opts.Force,
	}
	if opts.Branch != "" {
		name := plumbing.NewBranchReferenceName(opts.Branch)
		spec := fmt.Sprintf("%s:%s", name, name)
		if opts.Force {
			spec = "+" + spec
		}
		pushOpts.RefSpecs = []config.RefSpec{config.RefSpec(spec)}
	}

	err := b.repo.PushContext(ctx, pushOpts)
	if err != nil && !stderrors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return wrapError(err, "failed to push to remote")
	}
	return nil
}

// Pull fetches a branch and fast-forwards the local branch to it. The
// object store has no worktree to merge into, so diverged histories are
// reported as a conflict instead of being merged.
func (b *Backend) Pull(ctx context.Context, opts backend.RemoteOptions) error {
	if opts.Branch == "" {
		head, err := b.Head(ctx)
		if err != nil {
			return err
		}
		opts.Branch = head
	}
	if err := b.Fetch(ctx, opts); err != nil {
		return err
	}
	return backend.FastForward(ctx, b, opts.Branch, backend.RemoteBranch(opts.RemoteName(), opts.Branch), opts.Force)
}
