package repo

import (
	"context"
	"path"

	"github.com/jmgilman/gitview/backend"
)

// Entry is a child of a Tree: either a *Blob or a *Tree.
type Entry interface {
	// Sha returns the object identifier.
	Sha() backend.Sha
	// Name returns the last path component.
	Name() string
	// Path returns the path from the repository root.
	Path() string
}

// Tree is a directory snapshot. Entries are loaded on first access and kept
// in the order the backend lists them.
type Tree struct {
	backend backend.Backend
	sha     backend.Sha
	path    string
	// ref is the revision blob histories are read from.
	ref     string
	entries lazy[*treeEntries]
}

type treeEntries struct {
	order  []Entry
	byName map[string]Entry
}

func newTree(b backend.Backend, sha backend.Sha, p, ref string) *Tree {
	return &Tree{backend: b, sha: sha, path: p, ref: ref}
}

// Sha returns the tree's identifier.
func (t *Tree) Sha() backend.Sha { return t.sha }

// Path returns the tree's path from the repository root, "" for the root.
func (t *Tree) Path() string { return t.path }

// Name returns the last component of the tree's path.
func (t *Tree) Name() string { return path.Base(t.path) }

// Equal reports whether t and other identify the same tree object.
func (t *Tree) Equal(other *Tree) bool {
	return other != nil && t.sha == other.sha
}

// Entries returns the tree's children in listing order.
func (t *Tree) Entries(ctx context.Context) ([]Entry, error) {
	e, err := t.load(ctx)
	if err != nil {
		return nil, err
	}
	return append([]Entry(nil), e.order...), nil
}

// Get returns the child named name, or nil if there is none.
func (t *Tree) Get(ctx context.Context, name string) (Entry, error) {
	e, err := t.load(ctx)
	if err != nil {
		return nil, err
	}
	return e.byName[name], nil
}

// Has reports whether the tree has a child named name.
func (t *Tree) Has(ctx context.Context, name string) (bool, error) {
	entry, err := t.Get(ctx, name)
	return entry != nil, err
}

// Names returns the names of the tree's children in listing order.
func (t *Tree) Names(ctx context.Context) ([]string, error) {
	e, err := t.load(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(e.order))
	for i, entry := range e.order {
		names[i] = entry.Name()
	}
	return names, nil
}

func (t *Tree) load(ctx context.Context) (*treeEntries, error) {
	return t.entries.get(func() (*treeEntries, error) {
		listing, err := t.backend.LoadTree(ctx, t.sha)
		if err != nil {
			return nil, err
		}

		e := &treeEntries{
			order:  make([]Entry, 0, len(listing)),
			byName: make(map[string]Entry, len(listing)),
		}
		for _, le := range listing {
			child := path.Join(t.path, le.Name)
			var entry Entry
			if le.Kind == backend.KindTree {
				entry = newTree(t.backend, le.Sha, child, t.ref)
			} else {
				entry = newBlob(t.backend, le.Sha, le.Mode, child, t.ref)
			}
			e.order = append(e.order, entry)
			e.byName[le.Name] = entry
		}
		return e, nil
	})
}
