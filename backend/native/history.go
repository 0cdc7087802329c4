package native

import (
	"context"
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/jmgilman/gitview/backend"
)

// Log walks history from ref, newest first. Without a path it follows first
// parents only; with a path it visits every ancestor that changed the path
// (or anything below it, for a directory).
func (b *Backend) Log(ctx context.Context, ref string, opts backend.LogOptions) ([]backend.Sha, error) {
	start, err := b.Dereference(ctx, ref)
	if err != nil {
		return nil, err
	}

	if opts.Path == "" {
		return b.firstParents(ctx, plumbing.NewHash(string(start)), opts.Limit)
	}

	path := strings.Trim(opts.Path, "/")
	iter, err := b.repo.Log(&gogit.LogOptions{
		From: plumbing.NewHash(string(start)),
		PathFilter: func(p string) bool {
			return p == path || strings.HasPrefix(p, path+"/")
		},
	})
	if err != nil {
		return nil, wrapError(err, fmt.Sprintf("failed to read history of %q", opts.Path))
	}
	return collect(ctx, iter, opts.Limit, func(*object.Commit) bool { return true })
}

// SearchLog returns commits reachable from ref whose message contains term.
func (b *Backend) SearchLog(ctx context.Context, ref, term string) ([]backend.Sha, error) {
	start, err := b.Dereference(ctx, ref)
	if err != nil {
		return nil, err
	}

	iter, err := b.repo.Log(&gogit.LogOptions{From: plumbing.NewHash(string(start))})
	if err != nil {
		return nil, wrapError(err, "failed to read history")
	}
	return collect(ctx, iter, 0, func(c *object.Commit) bool {
		return strings.Contains(c.Message, term)
	})
}

// MergeBase returns the best common ancestor of a and b.
func (b *Backend) MergeBase(_ context.Context, a, c backend.Sha) (backend.Sha, error) {
	left, err := b.commitObject(a)
	if err != nil {
		return backend.EmptySha, err
	}
	right, err := b.commitObject(c)
	if err != nil {
		return backend.EmptySha, err
	}

	bases, err := left.MergeBase(right)
	if err != nil {
		return backend.EmptySha, wrapError(err, "failed to compute merge base")
	}
	if len(bases) == 0 {
		return backend.EmptySha, nil
	}
	return backend.Sha(bases[0].Hash.String()), nil
}

func (b *Backend) firstParents(ctx context.Context, hash plumbing.Hash, limit int) ([]backend.Sha, error) {
	var shas []backend.Sha
	for limit <= 0 || len(shas) < limit {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		commit, err := b.repo.CommitObject(hash)
		if err != nil {
			return nil, wrapError(err, fmt.Sprintf("failed to read commit %s", hash))
		}
		shas = append(shas, backend.Sha(commit.Hash.String()))
		if commit.NumParents() == 0 {
			break
		}
		hash = commit.ParentHashes[0]
	}
	return shas, nil
}

func collect(ctx context.Context, iter object.CommitIter, limit int, keep func(*object.Commit) bool) ([]backend.Sha, error) {
	defer iter.Close()

	var shas []backend.Sha
	err := iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if keep(c) {
			shas = append(shas, backend.Sha(c.Hash.String()))
		}
		if limit > 0 && len(shas) >= limit {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, wrapError(err, "failed to walk history")
	}
	return shas, nil
}
