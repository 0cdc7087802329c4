package native

import (
	"context"
	"fmt"
	"slices"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/jmgilman/gitview/backend"
	"github.com/jmgilman/gitview/errors"
)

// Head returns the branch HEAD points at, even if that branch is unborn.
func (b *Backend) Head(_ context.Context) (string, error) {
	ref, err := b.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return "", wrapError(err, "failed to read HEAD")
	}
	if ref.Type() != plumbing.SymbolicReference {
		return "", errors.New(errors.CodeInvalidState, "HEAD is detached")
	}
	return ref.Target().Short(), nil
}

// SetHead points HEAD at branch.
func (b *Backend) SetHead(_ context.Context, branch string) error {
	if branch == "" {
		return invalidInput("branch name is required")
	}
	head := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(branch))
	if err := b.repo.Storer.SetReference(head); err != nil {
		return wrapError(err, "failed to update HEAD")
	}
	return nil
}

// Dereference resolves a Sha, a branch or tag short name, or a full ref
// name to a commit.
func (b *Backend) Dereference(_ context.Context, ref string) (backend.Sha, error) {
	if ref == "" {
		return backend.EmptySha, invalidInput("reference is required")
	}
	hash, err := b.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return backend.EmptySha, wrapError(err, fmt.Sprintf("failed to resolve %q", ref))
	}
	return backend.Sha(hash.String()), nil
}

// UpdateBranch points branch at sha. A non-empty expected value turns the
// update into a compare-and-swap.
func (b *Backend) UpdateBranch(_ context.Context, branch string, sha, expected backend.Sha) error {
	if branch == "" {
		return invalidInput("branch name is required")
	}
	hash, err := toHash(sha)
	if err != nil {
		return err
	}

	name := plumbing.NewBranchReferenceName(branch)
	ref := plumbing.NewHashReference(name, hash)
	if expected.IsZero() {
		err = b.repo.Storer.SetReference(ref)
	} else {
		old, hashErr := toHash(expected)
		if hashErr != nil {
			return hashErr
		}
		err = b.repo.Storer.CheckAndSetReference(ref, plumbing.NewHashReference(name, old))
	}
	if err != nil {
		return wrapError(err, fmt.Sprintf("failed to update branch %q", branch))
	}
	return nil
}

// ListBranches returns the local branch names, sorted.
func (b *Backend) ListBranches(_ context.Context) ([]string, error) {
	iter, err := b.repo.Branches()
	if err != nil {
		return nil, wrapError(err, "failed to list branches")
	}
	return collectNames(iter)
}

// ListTags returns the tag names, sorted.
func (b *Backend) ListTags(_ context.Context) ([]string, error) {
	iter, err := b.repo.Tags()
	if err != nil {
		return nil, wrapError(err, "failed to list tags")
	}
	return collectNames(iter)
}

func collectNames(iter storer.ReferenceIter) ([]string, error) {
	defer iter.Close()

	var names []string
	err := iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, wrapError(err, "failed to iterate references")
	}
	slices.Sort(names)
	return names, nil
}

// CreateBranch creates branch pointing at from.
func (b *Backend) CreateBranch(_ context.Context, branch string, from backend.Sha) error {
	if branch == "" {
		return invalidInput("branch name is required")
	}
	commit, err := b.commitObject(from)
	if err != nil {
		return err
	}

	name := plumbing.NewBranchReferenceName(branch)
	if _, err := b.repo.Reference(name, false); err == nil {
		return errors.WithContext(errors.New(errors.CodeAlreadyExists, "branch already exists"), "branch", branch)
	}

	if err := b.repo.Storer.SetReference(plumbing.NewHashReference(name, commit.Hash)); err != nil {
		return wrapError(err, fmt.Sprintf("failed to create branch %q", branch))
	}
	return nil
}

// RenameBranch moves oldName to newName, carrying HEAD along if it pointed
// at oldName.
func (b *Backend) RenameBranch(ctx context.Context, oldName, newName string) error {
	if oldName == "" || newName == "" {
		return invalidInput("both branch names are required")
	}

	oldRef, err := b.repo.Reference(plumbing.NewBranchReferenceName(oldName), false)
	if err != nil {
		return wrapError(err, fmt.Sprintf("failed to find branch %q", oldName))
	}
	newRefName := plumbing.NewBranchReferenceName(newName)
	if _, err := b.repo.Reference(newRefName, false); err == nil {
		return errors.WithContext(errors.New(errors.CodeAlreadyExists, "branch already exists"), "branch", newName)
	}

	if err := b.repo.Storer.SetReference(plumbing.NewHashReference(newRefName, oldRef.Hash())); err != nil {
		return wrapError(err, fmt.Sprintf("failed to create branch %q", newName))
	}
	if err := b.repo.Storer.RemoveReference(oldRef.Name()); err != nil {
		return wrapError(err, fmt.Sprintf("failed to remove branch %q", oldName))
	}

	if head, err := b.Head(ctx); err == nil && head == oldName {
		return b.SetHead(ctx, newName)
	}
	return nil
}

// DeleteBranch removes branch. The branch HEAD points at cannot be deleted,
// and without force a branch that is not merged into HEAD is refused.
func (b *Backend) DeleteBranch(ctx context.Context, branch string, force bool) error {
	if branch == "" {
		return invalidInput("branch name is required")
	}

	name := plumbing.NewBranchReferenceName(branch)
	ref, err := b.repo.Reference(name, false)
	if err != nil {
		return wrapError(err, fmt.Sprintf("failed to find branch %q", branch))
	}

	head, err := b.Head(ctx)
	if err != nil {
		return err
	}
	if head == branch {
		return errors.WithContext(errors.New(errors.CodeInvalidState, "cannot delete the current branch"), "branch", branch)
	}

	if !force {
		merged, err := b.isMergedInto(ref.Hash(), head)
		if err != nil {
			return err
		}
		if !merged {
			return errors.WithContext(errors.New(errors.CodeInvalidState, "branch is not fully merged"), "branch", branch)
		}
	}

	if err := b.repo.Storer.RemoveReference(name); err != nil {
		return wrapError(err, fmt.Sprintf("failed to delete branch %q", branch))
	}
	return nil
}

func (b *Backend) isMergedInto(hash plumbing.Hash, target string) (bool, error) {
	targetRef, err := b.repo.Reference(plumbing.NewBranchReferenceName(target), true)
	if err != nil {
		// unborn target: nothing can be merged into it
		return false, nil
	}

	commit, err := b.repo.CommitObject(hash)
	if err != nil {
		return false, wrapError(err, "failed to read branch commit")
	}
	targetCommit, err := b.repo.CommitObject(targetRef.Hash())
	if err != nil {
		return false, wrapError(err, "failed to read HEAD commit")
	}

	merged, err := commit.IsAncestor(targetCommit)
	if err != nil {
		return false, wrapError(err, "failed to check ancestry")
	}
	return merged, nil
}
