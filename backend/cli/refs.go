//nolint:contextcheck // Context is passed through Executor.WithContext, which the linter cannot follow
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmgilman/gitview/backend"
	"github.com/jmgilman/gitview/errors"
	"github.com/jmgilman/gitview/internal/gitfmt"
)

const refFormat = "--format=%(objectname) %(refname)"

// Head returns the branch HEAD points at.
func (b *Backend) Head(ctx context.Context) (string, error) {
	out, err := b.output(ctx, "failed to read HEAD", "symbolic-ref", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// SetHead points HEAD at branch.
func (b *Backend) SetHead(ctx context.Context, branch string) error {
	if branch == "" {
		return invalidInput("branch name is required")
	}
	_, err := b.output(ctx, "failed to update HEAD", "symbolic-ref", "HEAD", "refs/heads/"+branch)
	return err
}

// Dereference resolves ref to a commit with `git rev-parse --verify`.
func (b *Backend) Dereference(ctx context.Context, ref string) (backend.Sha, error) {
	if ref == "" {
		return backend.EmptySha, invalidInput("reference is required")
	}

	result, err := b.git(ctx).Run("rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err != nil {
		// --quiet exits 1 without output when ref does not resolve
		if result != nil && result.ExitCode == 1 && strings.TrimSpace(result.Stderr) == "" {
			return backend.EmptySha, errors.WithContext(
				errors.New(errors.CodeNotFound, "reference not found"),
				"ref", ref,
			)
		}
		return backend.EmptySha, wrapError(err, result, fmt.Sprintf("failed to resolve %q", ref))
	}
	return backend.Sha(strings.TrimSpace(result.Stdout)), nil
}

// UpdateBranch points branch at sha with `git update-ref`, which performs
// the compare-and-swap itself when expected is given.
func (b *Backend) UpdateBranch(ctx context.Context, branch string, sha, expected backend.Sha) error {
	if branch == "" {
		return invalidInput("branch name is required")
	}
	if err := checkSha(sha); err != nil {
		return err
	}

	args := []string{"update-ref", "refs/heads/" + branch, string(sha)}
	if !expected.IsZero() {
		if err := checkSha(expected); err != nil {
			return err
		}
		args = append(args, string(expected))
	}
	_, err := b.output(ctx, fmt.Sprintf("failed to update branch %q", branch), args...)
	return err
}

// ListBranches returns the local branch names, sorted.
func (b *Backend) ListBranches(ctx context.Context) ([]string, error) {
	out, err := b.output(ctx, "failed to list branches", "for-each-ref", refFormat, "refs/heads/")
	if err != nil {
		return nil, err
	}
	return gitfmt.ParseRefs(out, "refs/heads/"), nil
}

// ListTags returns the tag names, sorted.
func (b *Backend) ListTags(ctx context.Context) ([]string, error) {
	out, err := b.output(ctx, "failed to list tags", "for-each-ref", refFormat, "refs/tags/")
	if err != nil {
		return nil, err
	}
	return gitfmt.ParseRefs(out, "refs/tags/"), nil
}

// CreateBranch creates branch pointing at from.
func (b *Backend) CreateBranch(ctx context.Context, branch string, from backend.Sha) error {
	if branch == "" {
		return invalidInput("branch name is required")
	}
	if err := checkSha(from); err != nil {
		return err
	}
	_, err := b.output(ctx, fmt.Sprintf("failed to create branch %q", branch),
		"branch", "--no-track", branch, string(from))
	return err
}

// RenameBranch renames a branch. git moves HEAD along when needed.
func (b *Backend) RenameBranch(ctx context.Context, oldName, newName string) error {
	if oldName == "" || newName == "" {
		return invalidInput("both branch names are required")
	}
	_, err := b.output(ctx, fmt.Sprintf("failed to rename branch %q", oldName), "branch", "-m", oldName, newName)
	return err
}

// DeleteBranch removes branch. The branch HEAD points at is refused up
// front since bare repositories would otherwise allow it.
func (b *Backend) DeleteBranch(ctx context.Context, branch string, force bool) error {
	if branch == "" {
		return invalidInput("branch name is required")
	}
	head, err := b.Head(ctx)
	if err != nil {
		return err
	}
	if head == branch {
		return errors.WithContext(errors.New(errors.CodeInvalidState, "cannot delete the current branch"), "branch", branch)
	}

	flag := "-d"
	if force {
		flag = "-D"
	}
	_, err = b.output(ctx, fmt.Sprintf("failed to delete branch %q", branch), "branch", flag, branch)
	return err
}
