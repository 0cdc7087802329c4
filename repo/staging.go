package repo

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/jmgilman/gitview/backend"
	"github.com/jmgilman/gitview/errors"
)

// change is the state of a path after an edit. A nil *change is a deletion.
type change struct {
	sha  backend.Sha
	mode backend.Mode
}

func (c *change) equal(other *change) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.sha == other.sha && c.mode == other.mode
}

// Save commits the index on the current branch and returns the new commit.
// The branch only moves once every object has been written, and it only
// moves if nobody else moved it in the meantime. On any failure the branch
// and the index are left as they were.
func (r *Repository) Save(ctx context.Context, msg string) (backend.Sha, error) {
	if strings.TrimSpace(msg) == "" {
		return backend.EmptySha, errors.New(errors.CodeInvalidInput, "commit message is required")
	}
	if !r.dirty() {
		return backend.EmptySha, errors.New(errors.CodeInvalidState, "nothing to commit")
	}
	if r.user == nil {
		return backend.EmptySha, errors.New(errors.CodeInvalidState, "commit author is not set")
	}

	head, err := r.head(ctx)
	if err != nil {
		return backend.EmptySha, err
	}
	var base *Tree
	if !head.IsZero() {
		if base, err = r.treeOf(ctx, head); err != nil {
			return backend.EmptySha, err
		}
	}

	changes := make(map[string]*change, len(r.index))
	for p, e := range r.index {
		if e.Op == OpDeleted {
			changes[p] = nil
			continue
		}
		changes[p] = &change{sha: e.Sha, mode: e.Mode}
	}

	tree, err := r.writeRoot(ctx, base, changes)
	if err != nil {
		return backend.EmptySha, fmt.Errorf("failed to write tree: %w", err)
	}

	var parents []backend.Sha
	if !head.IsZero() {
		parents = append(parents, head)
	}
	sha, err := r.commit(ctx, tree, parents, msg, head)
	if err != nil {
		return backend.EmptySha, err
	}

	r.logger.Info("saved changes",
		"branch", r.branch,
		"sha", sha.String(),
		"files", len(r.index),
	)
	r.Reset()
	return sha, nil
}

// commit creates a commit and advances the current branch from expected to
// it.
func (r *Repository) commit(ctx context.Context, tree backend.Sha, parents []backend.Sha, msg string, expected backend.Sha) (backend.Sha, error) {
	author := *r.user
	author.When = r.now()

	sha, err := r.backend.CreateCommit(ctx, backend.CommitRequest{
		Tree:    tree,
		Parents: parents,
		Message: msg,
		Author:  author,
	})
	if err != nil {
		return backend.EmptySha, fmt.Errorf("failed to create commit: %w", err)
	}

	r.logger.Debug("advancing branch", "op", "update-ref", "branch", r.branch, "sha", sha.String())
	if err := r.backend.UpdateBranch(ctx, r.branch, sha, expected); err != nil {
		return backend.EmptySha, err
	}
	return sha, nil
}

// writeRoot applies changes on top of base and writes the resulting trees.
// The root is written even when it ends up empty.
func (r *Repository) writeRoot(ctx context.Context, base *Tree, changes map[string]*change) (backend.Sha, error) {
	entries, err := r.applyChanges(ctx, base, changes)
	if err != nil {
		return backend.EmptySha, err
	}
	return r.backend.WriteTree(ctx, entries)
}

// writeTree is writeRoot for nested directories. It writes nothing and
// reports empty when no entries remain.
func (r *Repository) writeTree(ctx context.Context, base *Tree, changes map[string]*change) (backend.Sha, bool, error) {
	entries, err := r.applyChanges(ctx, base, changes)
	if err != nil {
		return backend.EmptySha, false, err
	}
	if len(entries) == 0 {
		return backend.EmptySha, true, nil
	}
	sha, err := r.backend.WriteTree(ctx, entries)
	return sha, false, err
}

// applyChanges returns the entries of base with changes applied. Paths in
// changes are relative to base. Subtrees without changes are reused as is.
func (r *Repository) applyChanges(ctx context.Context, base *Tree, changes map[string]*change) ([]backend.TreeEntry, error) {
	var (
		order   []string
		current = map[string]Entry{}
	)
	if base != nil {
		listing, err := base.Entries(ctx)
		if err != nil {
			return nil, err
		}
		for _, e := range listing {
			order = append(order, e.Name())
			current[e.Name()] = e
		}
	}

	direct := map[string]*change{}
	nested := map[string]map[string]*change{}
	for p, c := range changes {
		name, rest, ok := strings.Cut(p, "/")
		if !ok {
			direct[name] = c
			continue
		}
		if nested[name] == nil {
			nested[name] = map[string]*change{}
		}
		nested[name][rest] = c
	}

	result := map[string]backend.TreeEntry{}
	for name, e := range current {
		result[name] = toTreeEntry(e)
	}

	for name, sub := range nested {
		if c, ok := direct[name]; ok && c != nil {
			// a file replacing a directory wins over edits below it
			continue
		}
		var subBase *Tree
		if t, ok := current[name].(*Tree); ok {
			subBase = t
		}
		sha, empty, err := r.writeTree(ctx, subBase, sub)
		if err != nil {
			return nil, err
		}
		if empty {
			delete(result, name)
		} else {
			result[name] = backend.TreeEntry{Name: name, Mode: backend.ModeDir, Kind: backend.KindTree, Sha: sha}
		}
	}
	for name, c := range direct {
		if _, ok := nested[name]; ok && c == nil {
			continue
		}
		if c == nil {
			delete(result, name)
			continue
		}
		result[name] = backend.TreeEntry{Name: name, Mode: c.mode, Kind: backend.KindBlob, Sha: c.sha}
	}

	// keep the base listing order and append new names sorted
	var added []string
	for name := range result {
		if _, ok := current[name]; !ok {
			added = append(added, name)
		}
	}
	sort.Strings(added)

	entries := make([]backend.TreeEntry, 0, len(result))
	for _, name := range append(order, added...) {
		if e, ok := result[name]; ok {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func toTreeEntry(e Entry) backend.TreeEntry {
	switch v := e.(type) {
	case *Tree:
		return backend.TreeEntry{Name: v.Name(), Mode: backend.ModeDir, Kind: backend.KindTree, Sha: v.sha}
	case *Blob:
		return backend.TreeEntry{Name: v.Name(), Mode: v.mode, Kind: backend.KindBlob, Sha: v.sha}
	}
	panic(fmt.Sprintf("unexpected tree entry %T", e))
}

// diffTrees returns the state of every path that differs between a and b,
// as seen from b. Either tree may be nil, meaning empty. Identical subtrees
// are skipped without being loaded.
func diffTrees(ctx context.Context, a, b *Tree) (map[string]*change, error) {
	out := map[string]*change{}
	if err := diffInto(ctx, "", a, b, out); err != nil {
		return nil, err
	}
	return out, nil
}

func diffInto(ctx context.Context, prefix string, a, b *Tree, out map[string]*change) error {
	if a != nil && b != nil && a.sha == b.sha {
		return nil
	}
	before, err := entryMap(ctx, a)
	if err != nil {
		return err
	}
	after, err := entryMap(ctx, b)
	if err != nil {
		return err
	}

	for name, x := range before {
		p := path.Join(prefix, name)
		y, ok := after[name]
		if !ok {
			if err := diffEntry(ctx, p, x, nil, out); err != nil {
				return err
			}
			continue
		}
		if err := diffEntry(ctx, p, x, y, out); err != nil {
			return err
		}
	}
	for name, y := range after {
		if _, ok := before[name]; ok {
			continue
		}
		if err := diffEntry(ctx, path.Join(prefix, name), nil, y, out); err != nil {
			return err
		}
	}
	return nil
}

func diffEntry(ctx context.Context, p string, x, y Entry, out map[string]*change) error {
	xt, xIsTree := x.(*Tree)
	yt, yIsTree := y.(*Tree)
	xb, xIsBlob := x.(*Blob)
	yb, yIsBlob := y.(*Blob)

	switch {
	case xIsTree || yIsTree:
		if xIsBlob {
			out[p] = nil
		}
		if yIsBlob {
			out[p] = &change{sha: yb.sha, mode: yb.mode}
		}
		var from, to *Tree
		if xIsTree {
			from = xt
		}
		if yIsTree {
			to = yt
		}
		return diffInto(ctx, p, from, to, out)
	case yIsBlob:
		if xIsBlob && xb.sha == yb.sha && xb.mode == yb.mode {
			return nil
		}
		out[p] = &change{sha: yb.sha, mode: yb.mode}
	case xIsBlob:
		out[p] = nil
	}
	return nil
}

func entryMap(ctx context.Context, t *Tree) (map[string]Entry, error) {
	if t == nil {
		return nil, nil
	}
	e, err := t.load(ctx)
	if err != nil {
		return nil, err
	}
	return e.byName, nil
}
