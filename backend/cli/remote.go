//nolint:contextcheck // Context is passed through Executor.WithContext, which the linter cannot follow
package cli

import (
	"context"
	"fmt"

	"github.com/jmgilman/gitview/backend"
)

// Fetch downloads objects and refs from a remote.
func (b *Backend) Fetch(ctx context.Context, opts backend.RemoteOptions) error {
	args := []string{"fetch", "--quiet"}
	if opts.Force {
		args = append(args, "--force")
	}
	args = append(args, opts.RemoteName())
	if opts.Branch != "" {
		args = append(args, fmt.Sprintf("+refs/heads/%s:%s", opts.Branch, backend.RemoteBranch(opts.RemoteName(), opts.Branch)))
	}
	_, err := b.output(ctx, "failed to fetch from remote", args...)
	return err
}

// Push uploads a branch, or whatever push.default selects when no branch
// is given.
func (b *Backend) Push(ctx context.Context, opts backend.RemoteOptions) error {
	args := []string{"push", "--quiet"}
	if opts.Force {
		args = append(args, "--force")
	}
	args = append(args, opts.RemoteName())
	if opts.Branch != "" {
		args = append(args, fmt.Sprintf("refs/heads/%s:refs/heads/%s", opts.Branch, opts.Branch))
	}
	_, err := b.output(ctx, "failed to push to remote", args...)
	return err
}

// Pull fetches a branch and fast-forwards the local branch to it without
// touching any worktree.
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
