package repo

import (
	"context"
	"sort"

	"github.com/jmgilman/gitview/backend"
	"github.com/jmgilman/gitview/errors"
)

// Revert stages the inverse of the commit ref resolves to: files it added
// are removed, files it removed are restored and files it modified get
// their previous content back. Paths changed again since that commit are
// reported as a merge conflict. The index must be empty. A non-empty msg
// commits the result.
func (r *Repository) Revert(ctx context.Context, ref, msg string) (backend.Sha, error) {
	if err := r.requireClean(); err != nil {
		return backend.EmptySha, err
	}

	target, err := r.Commit(ctx, ref)
	if err != nil {
		return backend.EmptySha, err
	}
	md, err := target.Metadata(ctx)
	if err != nil {
		return backend.EmptySha, err
	}

	var parent *Tree
	if len(md.Parents) > 0 {
		if parent, err = r.treeOf(ctx, md.Parents[0]); err != nil {
			return backend.EmptySha, err
		}
	}
	after, err := r.treeOf(ctx, target.sha)
	if err != nil {
		return backend.EmptySha, err
	}
	head, err := r.headTree(ctx)
	if err != nil {
		return backend.EmptySha, err
	}

	inverse, err := diffTrees(ctx, after, parent)
	if err != nil {
		return backend.EmptySha, err
	}
	if len(inverse) == 0 {
		return backend.EmptySha, errors.WithContext(
			errors.New(errors.CodeInvalidState, "nothing to revert"),
			"sha", target.sha.String(),
		)
	}
	forward, err := diffTrees(ctx, parent, after)
	if err != nil {
		return backend.EmptySha, err
	}
	since, err := diffTrees(ctx, after, head)
	if err != nil {
		return backend.EmptySha, err
	}

	var conflicts []string
	for p := range inverse {
		if _, ok := since[p]; ok {
			conflicts = append(conflicts, p)
		}
	}
	if len(conflicts) > 0 {
		return backend.EmptySha, errors.NewMergeConflict(target.sha.Short(), sortedCopy(conflicts))
	}

	r.stageChanges(inverse, forward)
	r.logger.Debug("staged revert", "branch", r.branch, "sha", target.sha.String(), "files", len(inverse))
	return r.commitIfMessage(ctx, msg)
}

// Undo stages whatever it takes to make the current branch's tree equal to
// the tree of the commit ref resolves to. The index must be empty. A
// non-empty msg commits the result.
func (r *Repository) Undo(ctx context.Context, ref, msg string) (backend.Sha, error) {
	if err := r.requireClean(); err != nil {
		return backend.EmptySha, err
	}

	target, err := r.Commit(ctx, ref)
	if err != nil {
		return backend.EmptySha, err
	}
	want, err := r.treeOf(ctx, target.sha)
	if err != nil {
		return backend.EmptySha, err
	}
	head, err := r.headTree(ctx)
	if err != nil {
		return backend.EmptySha, err
	}

	changes, err := diffTrees(ctx, head, want)
	if err != nil {
		return backend.EmptySha, err
	}
	if len(changes) == 0 {
		return backend.EmptySha, errors.WithContext(
			errors.New(errors.CodeInvalidState, "nothing to undo"),
			"sha", target.sha.String(),
		)
	}
	existing, err := diffTrees(ctx, want, head)
	if err != nil {
		return backend.EmptySha, err
	}

	r.stageChanges(changes, existing)
	r.logger.Debug("staged undo", "branch", r.branch, "sha", target.sha.String(), "files", len(changes))
	return r.commitIfMessage(ctx, msg)
}

// stageChanges records changes in the index. current holds the state each
// path has on the branch today, which decides between add and modify.
func (r *Repository) stageChanges(changes, current map[string]*change) {
	for p, c := range changes {
		switch {
		case c == nil:
			r.index[p] = IndexEntry{Op: OpDeleted}
		case current[p] != nil:
			r.index[p] = IndexEntry{Op: OpModified, Sha: c.sha, Mode: c.mode}
		default:
			r.index[p] = IndexEntry{Op: OpAdded, Sha: c.sha, Mode: c.mode}
		}
	}
}

func sortedCopy(paths []string) []string {
	out := append([]string(nil), paths...)
	sort.Strings(out)
	return out
}
