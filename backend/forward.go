package backend

import (
	"context"
	"fmt"

	"github.com/jmgilman/gitview/errors"
)

// FastForward points branch at the commit target resolves to, as the last
// step of a pull. An unborn branch simply adopts target. A branch that is
// already ahead of target is left alone. Diverged histories are refused
// with CodeConflict unless force is set, in which case the branch is reset
// to target.
func FastForward(ctx context.Context, b Backend, branch, target string, force bool) error {
	remote, err := b.Dereference(ctx, target)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", target, err)
	}

	local, err := b.Dereference(ctx, "refs/heads/"+branch)
	if errors.IsNotFound(err) {
		return b.UpdateBranch(ctx, branch, remote, EmptySha)
	}
	if err != nil {
		return err
	}
	if local == remote {
		return nil
	}

	base, err := b.MergeBase(ctx, local, remote)
	if err != nil {
		return err
	}
	switch {
	case base == remote:
		return nil
	case base == local || force:
		return b.UpdateBranch(ctx, branch, remote, local)
	default:
		return errors.WithContext(
			errors.New(errors.CodeConflict, "local and remote branches have diverged"),
			"branch", branch,
		)
	}
}

// RemoteBranch returns the remote-tracking ref name for a branch.
func RemoteBranch(remote, branch string) string {
	return fmt.Sprintf("refs/remotes/%s/%s", remote, branch)
}
