package repo

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/jmgilman/gitview/backend"
	"github.com/jmgilman/gitview/diff"
	"github.com/jmgilman/gitview/errors"
	"github.com/pmezard/go-difflib/difflib"
)

// mergePlan is the outcome of a three-way comparison between the current
// branch (ours) and another branch (theirs).
type mergePlan struct {
	branch    string
	ours      backend.Sha
	theirs    backend.Sha
	oursTree  *Tree
	ourSide   map[string]*change
	theirSide map[string]*change
	conflicts []string
}

// planMerge compares both branches against their merge base. A path is in
// conflict when both sides changed it and ended up with different content,
// or when one side changed it and the other changed something below it.
func (r *Repository) planMerge(ctx context.Context, branch string) (*mergePlan, error) {
	if branch == "" {
		return nil, errors.New(errors.CodeInvalidInput, "branch name is required")
	}

	ours, err := r.head(ctx)
	if err != nil {
		return nil, err
	}
	if ours.IsZero() {
		return nil, r.unbornError()
	}
	theirs, err := r.backend.Dereference(ctx, branch)
	if err != nil {
		return nil, err
	}
	if ours == theirs {
		return nil, nothingToMerge(branch)
	}

	r.logger.Debug("computing merge base", "op", "merge-base", "branch", r.branch, "sha", theirs.String())
	base, err := r.backend.MergeBase(ctx, ours, theirs)
	if err != nil {
		return nil, err
	}
	if base == theirs {
		return nil, nothingToMerge(branch)
	}

	var baseTree *Tree
	if !base.IsZero() {
		if baseTree, err = r.treeOf(ctx, base); err != nil {
			return nil, err
		}
	}
	oursTree, err := r.treeOf(ctx, ours)
	if err != nil {
		return nil, err
	}
	theirsTree, err := r.treeOf(ctx, theirs)
	if err != nil {
		return nil, err
	}
	if baseTree != nil && baseTree.Equal(theirsTree) {
		return nil, nothingToMerge(branch)
	}

	ourSide, err := diffTrees(ctx, baseTree, oursTree)
	if err != nil {
		return nil, err
	}
	theirSide, err := diffTrees(ctx, baseTree, theirsTree)
	if err != nil {
		return nil, err
	}
	if len(theirSide) == 0 {
		return nil, nothingToMerge(branch)
	}

	plan := &mergePlan{
		branch:    branch,
		ours:      ours,
		theirs:    theirs,
		oursTree:  oursTree,
		ourSide:   ourSide,
		theirSide: theirSide,
	}
	plan.conflicts = conflictingPaths(ourSide, theirSide)
	return plan, nil
}

// conflictingPaths returns the sorted paths both sides changed in
// different ways. Besides a path changed unequally on both sides, a change
// at p on one side conflicts with any change below p on the other, since
// one side made p a file while the other kept a directory there. Such
// conflicts are reported on p.
func conflictingPaths(ours, theirs map[string]*change) []string {
	found := map[string]bool{}
	for p, t := range theirs {
		if o, ok := ours[p]; ok && !o.equal(t) {
			found[p] = true
		}
	}
	nestedConflicts(ours, theirs, found)
	nestedConflicts(theirs, ours, found)

	out := make([]string, 0, len(found))
	for p := range found {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// nestedConflicts records every ancestor of a path changed in inner that
// outer changed, unless inner made the same change to that ancestor.
func nestedConflicts(inner, outer map[string]*change, found map[string]bool) {
	for p := range inner {
		for dir := path.Dir(p); dir != "."; dir = path.Dir(dir) {
			o, ok := outer[dir]
			if !ok {
				continue
			}
			if i, same := inner[dir]; same && i.equal(o) {
				continue
			}
			found[dir] = true
		}
	}
}

func (p *mergePlan) conflictError() error {
	if len(p.conflicts) == 0 {
		return nil
	}
	return errors.NewMergeConflict(p.branch, p.conflicts)
}

func nothingToMerge(branch string) error {
	return errors.WithContext(errors.New(errors.CodeInvalidState, "nothing to merge"), "branch", branch)
}

// CanMerge reports whether branch merges cleanly into the current branch.
// A conflicting merge returns false and a *errors.MergeConflictError
// listing the paths. A branch that contributes nothing new returns an
// InvalidState error.
func (r *Repository) CanMerge(ctx context.Context, branch string) (bool, error) {
	plan, err := r.planMerge(ctx, branch)
	if err != nil {
		return false, err
	}
	if err := plan.conflictError(); err != nil {
		return false, err
	}
	return true, nil
}

// MergeConflicts returns, for every conflicting path, the diff from the
// current branch's content to branch's content. It returns nil when the
// merge is clean. Paths whose contents are identical on both sides, such
// as a conflict in file mode alone, have no lines to show and are left out;
// CanMerge reports every conflicting path.
func (r *Repository) MergeConflicts(ctx context.Context, branch string) (diff.Diff, error) {
	plan, err := r.planMerge(ctx, branch)
	if err != nil {
		return nil, err
	}
	if len(plan.conflicts) == 0 {
		return nil, nil
	}

	out := make(diff.Diff, len(plan.conflicts))
	for _, p := range plan.conflicts {
		ours, err := r.sideContent(ctx, plan.ourSide[p])
		if err != nil {
			return nil, err
		}
		theirs, err := r.sideContent(ctx, plan.theirSide[p])
		if err != nil {
			return nil, err
		}

		if ours == theirs {
			continue
		}

		text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        splitLines(ours),
			B:        splitLines(theirs),
			FromFile: "a/" + p,
			ToFile:   "b/" + p,
			Context:  3,
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "failed to diff conflicting file")
		}
		lines, err := diff.ParseHunks(text)
		if err != nil {
			return nil, errors.WithContext(err, "path", p)
		}
		out[p] = lines
	}
	return out, nil
}

func (r *Repository) sideContent(ctx context.Context, c *change) (string, error) {
	if c == nil {
		return "", nil
	}
	content, err := r.backend.CatFile(ctx, c.sha)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// splitLines splits text after each newline, terminating the last line if
// it is not.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if last := lines[len(lines)-1]; !strings.HasSuffix(last, "\n") {
		lines[len(lines)-1] = last + "\n"
	}
	return lines
}

// Merge merges branch into the current branch with a two-parent commit and
// returns it. The index must be empty. When msg is empty the message is
// "Merge {branch} into {current}". Nothing is written if the merge
// conflicts.
func (r *Repository) Merge(ctx context.Context, branch, msg string) (backend.Sha, error) {
	if err := r.requireClean(); err != nil {
		return backend.EmptySha, err
	}
	if r.user == nil {
		return backend.EmptySha, errors.New(errors.CodeInvalidState, "commit author is not set")
	}

	plan, err := r.planMerge(ctx, branch)
	if err != nil {
		return backend.EmptySha, err
	}
	if err := plan.conflictError(); err != nil {
		return backend.EmptySha, err
	}

	// everything only theirs changed, on top of ours
	changes := make(map[string]*change, len(plan.theirSide))
	for p, c := range plan.theirSide {
		if _, ok := plan.ourSide[p]; ok {
			continue
		}
		changes[p] = c
	}

	tree, err := r.writeRoot(ctx, plan.oursTree, changes)
	if err != nil {
		return backend.EmptySha, fmt.Errorf("failed to write merged tree: %w", err)
	}

	if msg == "" {
		msg = fmt.Sprintf("Merge %s into %s", branch, r.branch)
	}
	sha, err := r.commit(ctx, tree, []backend.Sha{plan.ours, plan.theirs}, msg, plan.ours)
	if err != nil {
		return backend.EmptySha, err
	}

	r.logger.Info("merged branch",
		"branch", r.branch,
		"from", branch,
		"sha", sha.String(),
	)
	return sha, nil
}
