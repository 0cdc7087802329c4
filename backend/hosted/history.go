package hosted

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/google/go-github/v67/github"
	"github.com/jmgilman/gitview/backend"
)

// Log lists commits reachable from ref, newest first. Without a path it
// walks first parents one commit at a time since the API has no
// first-parent listing; commits come from the object cache when possible.
func (b *Backend) Log(ctx context.Context, ref string, opts backend.LogOptions) ([]backend.Sha, error) {
	start, err := b.Dereference(ctx, ref)
	if err != nil {
		return nil, err
	}

	if opts.Path == "" {
		return b.firstParents(ctx, start, opts.Limit)
	}

	var shas []backend.Sha
	err = b.listCommits(ctx, &github.CommitsListOptions{
		SHA:  string(start),
		Path: strings.Trim(opts.Path, "/"),
	}, func(c *github.RepositoryCommit) bool {
		shas = append(shas, backend.Sha(c.GetSHA()))
		return opts.Limit <= 0 || len(shas) < opts.Limit
	})
	return shas, err
}

// SearchLog returns commits reachable from ref whose message contains term.
func (b *Backend) SearchLog(ctx context.Context, ref, term string) ([]backend.Sha, error) {
	start, err := b.Dereference(ctx, ref)
	if err != nil {
		return nil, err
	}

	var shas []backend.Sha
	err = b.listCommits(ctx, &github.CommitsListOptions{SHA: string(start)}, func(c *github.RepositoryCommit) bool {
		if strings.Contains(c.GetCommit().GetMessage(), term) {
			shas = append(shas, backend.Sha(c.GetSHA()))
		}
		return true
	})
	return shas, err
}

// MergeBase returns the merge base GitHub reports when comparing a and c.
func (b *Backend) MergeBase(ctx context.Context, a, c backend.Sha) (backend.Sha, error) {
	if err := checkSha(a); err != nil {
		return backend.EmptySha, err
	}
	if err := checkSha(c); err != nil {
		return backend.EmptySha, err
	}

	cmp, resp, err := b.client.Repositories.CompareCommits(ctx, b.owner, b.repo, string(a), string(c), nil)
	if err != nil {
		// unrelated histories are reported as a 404 with this message
		var ghErr *github.ErrorResponse
		if stderrors.As(err, &ghErr) && resp != nil && resp.StatusCode == http.StatusNotFound &&
			strings.Contains(ghErr.Message, "common ancestor") {
			return backend.EmptySha, nil
		}
		return backend.EmptySha, wrapError(err, resp, "failed to compute merge base")
	}
	return backend.Sha(cmp.GetMergeBaseCommit().GetSHA()), nil
}

func (b *Backend) firstParents(ctx context.Context, sha backend.Sha, limit int) ([]backend.Sha, error) {
	var shas []backend.Sha
	for limit <= 0 || len(shas) < limit {
		rc, err := b.repositoryCommit(ctx, sha)
		if err != nil {
			return nil, err
		}
		shas = append(shas, sha)
		if len(rc.Parents) == 0 {
			break
		}
		sha = backend.Sha(rc.Parents[0].GetSHA())
	}
	return shas, nil
}

// listCommits pages through ListCommits until visit returns false.
func (b *Backend) listCommits(ctx context.Context, opts *github.CommitsListOptions, visit func(*github.RepositoryCommit) bool) error {
	opts.ListOptions = github.ListOptions{PerPage: 100}
	for {
		commits, resp, err := b.client.Repositories.ListCommits(ctx, b.owner, b.repo, opts)
		if err != nil {
			return wrapError(err, resp, "failed to list commits")
		}
		for _, c := range commits {
			if !visit(c) {
				return nil
			}
		}
		if resp.NextPage == 0 {
			return nil
		}
		opts.Page = resp.NextPage
	}
}
