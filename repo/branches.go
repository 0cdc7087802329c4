package repo

import (
	"context"

	"github.com/jmgilman/gitview/backend"
	"github.com/jmgilman/gitview/errors"
)

// Branches returns the local branch names, sorted.
func (r *Repository) Branches(ctx context.Context) ([]string, error) {
	return r.backend.ListBranches(ctx)
}

// Tags returns the tag names, sorted.
func (r *Repository) Tags(ctx context.Context) ([]string, error) {
	return r.backend.ListTags(ctx)
}

// CreateBranch creates name at the commit from resolves to. An empty from
// means the head of the current branch.
func (r *Repository) CreateBranch(ctx context.Context, name, from string) error {
	if name == "" {
		return errors.New(errors.CodeInvalidInput, "branch name is required")
	}

	start, err := r.Commit(ctx, from)
	if err != nil {
		return err
	}
	if err := r.backend.CreateBranch(ctx, name, start.sha); err != nil {
		return err
	}

	r.logger.Info("created branch", "branch", name, "sha", start.sha.String())
	return nil
}

// RenameBranch renames a branch. Renaming the current branch keeps the
// session on it under its new name.
func (r *Repository) RenameBranch(ctx context.Context, oldName, newName string) error {
	if oldName == "" || newName == "" {
		return errors.New(errors.CodeInvalidInput, "branch names are required")
	}
	if err := r.backend.RenameBranch(ctx, oldName, newName); err != nil {
		return err
	}
	if r.branch == oldName {
		r.branch = newName
	}

	r.logger.Info("renamed branch", "branch", oldName, "to", newName)
	return nil
}

// DeleteBranch deletes a branch other than the current one. Without force
// a branch with unmerged commits is refused.
func (r *Repository) DeleteBranch(ctx context.Context, name string, force bool) error {
	if name == "" {
		return errors.New(errors.CodeInvalidInput, "branch name is required")
	}
	if name == r.branch {
		return errors.WithContext(
			errors.New(errors.CodeInvalidState, "cannot delete the current branch"),
			"branch", name,
		)
	}
	if err := r.backend.DeleteBranch(ctx, name, force); err != nil {
		return err
	}

	r.logger.Info("deleted branch", "branch", name, "force", force)
	return nil
}

// CheckoutBranch makes name the current branch, both for the session and
// for the backend's HEAD. The index must be empty.
func (r *Repository) CheckoutBranch(ctx context.Context, name string) error {
	if name == "" {
		return errors.New(errors.CodeInvalidInput, "branch name is required")
	}
	if err := r.requireClean(); err != nil {
		return err
	}
	if _, err := r.backend.Dereference(ctx, "refs/heads/"+name); err != nil {
		return err
	}
	if err := r.backend.SetHead(ctx, name); err != nil {
		return err
	}

	r.branch = name
	r.logger.Info("checked out branch", "branch", name)
	return nil
}

// Push sends the current branch, or opts.Branch, to a remote.
func (r *Repository) Push(ctx context.Context, opts backend.RemoteOptions) error {
	if opts.Branch == "" {
		opts.Branch = r.branch
	}
	r.logger.Debug("pushing", "op", "push", "branch", opts.Branch, "remote", opts.RemoteName())
	return r.backend.Push(ctx, opts)
}

// Pull fetches the current branch, or opts.Branch, and fast-forwards it.
func (r *Repository) Pull(ctx context.Context, opts backend.RemoteOptions) error {
	if opts.Branch == "" {
		opts.Branch = r.branch
	}
	r.logger.Debug("pulling", "op", "pull", "branch", opts.Branch, "remote", opts.RemoteName())
	return r.backend.Pull(ctx, opts)
}

// Fetch updates remote-tracking refs. An empty opts.Branch fetches every
// branch.
func (r *Repository) Fetch(ctx context.Context, opts backend.RemoteOptions) error {
	r.logger.Debug("fetching", "op", "fetch", "branch", opts.Branch, "remote", opts.RemoteName())
	return r.backend.Fetch(ctx, opts)
}
