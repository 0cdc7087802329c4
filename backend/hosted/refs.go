package hosted

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/go-github/v67/github"
	"github.com/jmgilman/gitview/backend"
	"github.com/jmgilman/gitview/errors"
)

// Head returns the session's HEAD branch, which starts out as the
// repository's default branch.
func (b *Backend) Head(ctx context.Context) (string, error) {
	b.mu.RLock()
	head := b.head
	b.mu.RUnlock()
	if head != "" {
		return head, nil
	}

	repo, resp, err := b.client.Repositories.Get(ctx, b.owner, b.repo)
	if err != nil {
		return "", wrapError(err, resp, "failed to get repository")
	}
	return repo.GetDefaultBranch(), nil
}

// SetHead makes branch the session's HEAD. The branch must exist.
func (b *Backend) SetHead(ctx context.Context, branch string) error {
	if branch == "" {
		return invalidInput("branch name is required")
	}
	if _, err := b.ref(ctx, "heads/"+branch); err != nil {
		return err
	}

	b.mu.Lock()
	b.head = branch
	b.mu.Unlock()
	return nil
}

// Dereference resolves a Sha, HEAD, a branch or tag short name, or a full
// ref name to a commit. A well-formed Sha is returned as is.
func (b *Backend) Dereference(ctx context.Context, ref string) (backend.Sha, error) {
	if ref == "" {
		return backend.EmptySha, invalidInput("reference is required")
	}
	if sha := backend.Sha(ref); sha.IsValid() {
		return sha, nil
	}

	if ref == "HEAD" {
		head, err := b.Head(ctx)
		if err != nil {
			return backend.EmptySha, err
		}
		ref = "refs/heads/" + head
	}

	candidates := []string{"heads/" + ref, "tags/" + ref}
	if strings.HasPrefix(ref, "refs/") {
		candidates = []string{strings.TrimPrefix(ref, "refs/")}
	}

	for _, name := range candidates {
		r, err := b.ref(ctx, name)
		if errors.IsNotFound(err) {
			continue
		}
		if err != nil {
			return backend.EmptySha, err
		}
		return b.peel(ctx, r)
	}

	return backend.EmptySha, errors.WithContext(
		errors.New(errors.CodeNotFound, "reference not found"),
		"ref", ref,
	)
}

// peel follows annotated tags down to the commit they point at.
func (b *Backend) peel(ctx context.Context, r *github.Reference) (backend.Sha, error) {
	obj := r.GetObject()
	for obj.GetType() == "tag" {
		tag, resp, err := b.client.Git.GetTag(ctx, b.owner, b.repo, obj.GetSHA())
		if err != nil {
			return backend.EmptySha, wrapError(err, resp, "failed to read tag")
		}
		obj = tag.GetObject()
	}
	return backend.Sha(obj.GetSHA()), nil
}

func (b *Backend) ref(ctx context.Context, name string) (*github.Reference, error) {
	r, resp, err := b.client.Git.GetRef(ctx, b.owner, b.repo, name)
	if err != nil {
		return nil, wrapError(err, resp, fmt.Sprintf("failed to read ref %s", name))
	}
	return r, nil
}

// UpdateBranch points branch at sha. The API has no atomic compare-and-swap,
// so the expected value is checked with a read immediately before a forced
// update.
func (b *Backend) UpdateBranch(ctx context.Context, branch string, sha, expected backend.Sha) error {
	if branch == "" {
		return invalidInput("branch name is required")
	}
	if err := checkSha(sha); err != nil {
		return err
	}

	current, err := b.ref(ctx, "heads/"+branch)
	switch {
	case errors.IsNotFound(err) && expected.IsZero():
		_, resp, createErr := b.client.Git.CreateRef(ctx, b.owner, b.repo, &github.Reference{
			Ref:    github.String("refs/heads/" + branch),
			Object: &github.GitObject{SHA: github.String(string(sha))},
		})
		return wrapError(createErr, resp, fmt.Sprintf("failed to create branch %q", branch))
	case err != nil:
		return err
	}

	if !expected.IsZero() && backend.Sha(current.GetObject().GetSHA()) != expected {
		return errors.WithContextMap(
			errors.New(errors.CodeConflict, "branch has moved"),
			map[string]interface{}{
				"branch":   branch,
				"expected": string(expected),
				"actual":   current.GetObject().GetSHA(),
			},
		)
	}

	current.Object = &github.GitObject{SHA: github.String(string(sha))}
	_, resp, err := b.client.Git.UpdateRef(ctx, b.owner, b.repo, current, true)
	return wrapError(err, resp, fmt.Sprintf("failed to update branch %q", branch))
}

// ListBranches returns the branch names, sorted.
func (b *Backend) ListBranches(ctx context.Context) ([]string, error) {
	var names []string
	err := paginate(func(opts github.ListOptions) (*github.Response, error) {
		branches, resp, err := b.client.Repositories.ListBranches(ctx, b.owner, b.repo, &github.BranchListOptions{ListOptions: opts})
		if err != nil {
			return resp, wrapError(err, resp, "failed to list branches")
		}
		for _, br := range branches {
			names = append(names, br.GetName())
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(names)
	return names, nil
}

// ListTags returns the tag names, sorted.
func (b *Backend) ListTags(ctx context.Context) ([]string, error) {
	var names []string
	err := paginate(func(opts github.ListOptions) (*github.Response, error) {
		tags, resp, err := b.client.Repositories.ListTags(ctx, b.owner, b.repo, &opts)
		if err != nil {
			return resp, wrapError(err, resp, "failed to list tags")
		}
		for _, tag := range tags {
			names = append(names, tag.GetName())
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(names)
	return names, nil
}

// CreateBranch creates branch at from.
func (b *Backend) CreateBranch(ctx context.Context, branch string, from backend.Sha) error {
	if branch == "" {
		return invalidInput("branch name is required")
	}
	if err := checkSha(from); err != nil {
		return err
	}

	_, err := b.ref(ctx, "heads/"+branch)
	if err == nil {
		return errors.WithContext(errors.New(errors.CodeAlreadyExists, "branch already exists"), "branch", branch)
	}
	if !errors.IsNotFound(err) {
		return err
	}

	_, resp, err := b.client.Git.CreateRef(ctx, b.owner, b.repo, &github.Reference{
		Ref:    github.String("refs/heads/" + branch),
		Object: &github.GitObject{SHA: github.String(string(from))},
	})
	return wrapError(err, resp, fmt.Sprintf("failed to create branch %q", branch))
}

// RenameBranch renames a branch on GitHub, carrying the session HEAD along.
func (b *Backend) RenameBranch(ctx context.Context, oldName, newName string) error {
	if oldName == "" || newName == "" {
		return invalidInput("both branch names are required")
	}
	if _, err := b.ref(ctx, "heads/"+newName); err == nil {
		return errors.WithContext(errors.New(errors.CodeAlreadyExists, "branch already exists"), "branch", newName)
	}

	_, resp, err := b.client.Repositories.RenameBranch(ctx, b.owner, b.repo, oldName, newName)
	if err != nil {
		return wrapError(err, resp, fmt.Sprintf("failed to rename branch %q", oldName))
	}

	b.mu.Lock()
	if b.head == oldName {
		b.head = newName
	}
	b.mu.Unlock()
	return nil
}

// DeleteBranch deletes a branch. Without force the branch must be merged
// into HEAD.
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

	if !force {
		cmp, resp, err := b.client.Repositories.CompareCommits(ctx, b.owner, b.repo, head, branch, nil)
		if err != nil {
			return wrapError(err, resp, fmt.Sprintf("failed to compare %q with %q", branch, head))
		}
		if cmp.GetAheadBy() > 0 {
			return errors.WithContext(errors.New(errors.CodeInvalidState, "branch is not fully merged"), "branch", branch)
		}
	}

	resp, err := b.client.Git.DeleteRef(ctx, b.owner, b.repo, "heads/"+branch)
	return wrapError(err, resp, fmt.Sprintf("failed to delete branch %q", branch))
}
