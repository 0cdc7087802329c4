//nolint:contextcheck // Context is passed through Executor.WithContext, which the linter cannot follow
package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/jmgilman/gitview/backend"
	"github.com/jmgilman/gitview/internal/gitfmt"
)

// Log walks history from ref, newest first. Without a path it follows first
// parents only.
func (b *Backend) Log(ctx context.Context, ref string, opts backend.LogOptions) ([]backend.Sha, error) {
	start, err := b.Dereference(ctx, ref)
	if err != nil {
		return nil, err
	}

	args := []string{"log", "--format=%H"}
	if opts.Limit > 0 {
		args = append(args, "-n", strconv.Itoa(opts.Limit))
	}
	if opts.Path == "" {
		args = append(args, "--first-parent", string(start))
	} else {
		args = append(args, string(start), "--", strings.Trim(opts.Path, "/"))
	}

	out, err := b.output(ctx, "failed to read history", args...)
	if err != nil {
		return nil, err
	}
	return gitfmt.ParseShaList(out), nil
}

// SearchLog returns commits reachable from ref whose message contains term.
func (b *Backend) SearchLog(ctx context.Context, ref, term string) ([]backend.Sha, error) {
	start, err := b.Dereference(ctx, ref)
	if err != nil {
		return nil, err
	}
	out, err := b.output(ctx, "failed to search history",
		"log", "--format=%H", "--fixed-strings", "--grep="+term, string(start))
	if err != nil {
		return nil, err
	}
	return gitfmt.ParseShaList(out), nil
}

// MergeBase returns the best common ancestor of a and c.
func (b *Backend) MergeBase(ctx context.Context, a, c backend.Sha) (backend.Sha, error) {
	if err := checkSha(a); err != nil {
		return backend.EmptySha, err
	}
	if err := checkSha(c); err != nil {
		return backend.EmptySha, err
	}

	result, err := b.git(ctx).Run("merge-base", string(a), string(c))
	if err != nil {
		// exit 1 with no output: unrelated histories
		if result != nil && result.ExitCode == 1 && strings.TrimSpace(result.Stderr) == "" {
			return backend.EmptySha, nil
		}
		return backend.EmptySha, wrapError(err, result, "failed to compute merge base")
	}
	return backend.Sha(strings.TrimSpace(result.Stdout)), nil
}
