package repo

import (
	"context"
	"sort"
	"strings"

	"github.com/jmgilman/gitview/backend"
	"github.com/jmgilman/gitview/errors"
)

// Op is the kind of a pending change.
type Op string

const (
	OpAdded    Op = "A"
	OpModified Op = "M"
	OpDeleted  Op = "D"
)

// IndexEntry is a pending change to one path. Sha and Mode are empty for
// deletions.
type IndexEntry struct {
	Op   Op
	Sha  backend.Sha
	Mode backend.Mode
}

// Index returns a copy of the pending changes, path to op.
func (r *Repository) Index() map[string]Op {
	out := make(map[string]Op, len(r.index))
	for p, e := range r.index {
		out[p] = e.Op
	}
	return out
}

// Staged returns the paths with pending changes, sorted.
func (r *Repository) Staged() []string {
	paths := make([]string, 0, len(r.index))
	for p := range r.index {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Reset discards all pending changes.
func (r *Repository) Reset() {
	r.index = make(map[string]IndexEntry)
}

func (r *Repository) dirty() bool {
	return len(r.index) > 0
}

func (r *Repository) requireClean() error {
	if r.dirty() {
		return errors.WithContext(
			errors.New(errors.CodeInvalidState, "dirty index"),
			"staged", len(r.index),
		)
	}
	return nil
}

// Add stages content at p. The change is recorded as a modification when p
// already exists on the branch and as an addition otherwise. A non-empty msg
// commits the index.
func (r *Repository) Add(ctx context.Context, p string, content []byte, msg string) (backend.Sha, error) {
	clean, err := cleanPath(p)
	if err != nil {
		return backend.EmptySha, err
	}

	sha, err := r.backend.WriteBlob(ctx, content)
	if err != nil {
		return backend.EmptySha, err
	}
	if err := r.stage(ctx, clean, sha, 0); err != nil {
		return backend.EmptySha, err
	}
	return r.commitIfMessage(ctx, msg)
}

// Update stages new content for an existing file. Returns a NotFound error
// if p is neither committed nor staged.
func (r *Repository) Update(ctx context.Context, p string, content []byte, msg string) (backend.Sha, error) {
	clean, err := cleanPath(p)
	if err != nil {
		return backend.EmptySha, err
	}

	if _, _, err := r.current(ctx, clean); err != nil {
		return backend.EmptySha, err
	}

	sha, err := r.backend.WriteBlob(ctx, content)
	if err != nil {
		return backend.EmptySha, err
	}
	if err := r.stage(ctx, clean, sha, 0); err != nil {
		return backend.EmptySha, err
	}
	return r.commitIfMessage(ctx, msg)
}

// Remove stages the deletion of p. Removing a directory removes every file
// below it. A path that was only staged is dropped from the index. Returns a
// NotFound error if nothing exists at p.
func (r *Repository) Remove(ctx context.Context, p string, msg string) (backend.Sha, error) {
	clean, err := cleanPath(p)
	if err != nil {
		return backend.EmptySha, err
	}
	if err := r.unstage(ctx, clean); err != nil {
		return backend.EmptySha, err
	}
	return r.commitIfMessage(ctx, msg)
}

// Copy stages the current content of from at to. Staged content takes
// precedence over committed content.
func (r *Repository) Copy(ctx context.Context, from, to string, msg string) (backend.Sha, error) {
	src, dst, err := cleanPair(from, to)
	if err != nil {
		return backend.EmptySha, err
	}

	sha, mode, err := r.current(ctx, src)
	if err != nil {
		return backend.EmptySha, err
	}
	if err := r.stage(ctx, dst, sha, mode); err != nil {
		return backend.EmptySha, err
	}
	return r.commitIfMessage(ctx, msg)
}

// Move stages a copy of from at to followed by the removal of from.
func (r *Repository) Move(ctx context.Context, from, to string, msg string) (backend.Sha, error) {
	src, dst, err := cleanPair(from, to)
	if err != nil {
		return backend.EmptySha, err
	}

	if _, err := r.Copy(ctx, src, dst, ""); err != nil {
		return backend.EmptySha, err
	}
	if _, err := r.Remove(ctx, src, ""); err != nil {
		return backend.EmptySha, err
	}
	return r.commitIfMessage(ctx, msg)
}

func (r *Repository) commitIfMessage(ctx context.Context, msg string) (backend.Sha, error) {
	if msg == "" {
		return backend.EmptySha, nil
	}
	return r.Save(ctx, msg)
}

// stage records sha at p, choosing the op from what p currently holds. A
// zero mode keeps the mode of the file being replaced.
func (r *Repository) stage(ctx context.Context, p string, sha backend.Sha, mode backend.Mode) error {
	op := OpAdded
	if staged, ok := r.index[p]; ok {
		if staged.Op != OpAdded {
			op = OpModified
		}
		if mode == 0 {
			mode = staged.Mode
		}
	} else {
		committed, err := r.committed(ctx, p)
		if err != nil {
			return err
		}
		if committed != nil {
			op = OpModified
			if mode == 0 {
				mode = committed.mode
			}
		}
	}
	if mode == 0 {
		mode = backend.ModeFile
	}

	r.index[p] = IndexEntry{Op: op, Sha: sha, Mode: mode}
	r.logger.Debug("staged change", "op", string(op), "branch", r.branch, "path", p, "sha", sha.String())
	return nil
}

// unstage records the removal of p and of everything below it.
func (r *Repository) unstage(ctx context.Context, p string) error {
	root, err := r.headTree(ctx)
	if err != nil {
		return err
	}

	var committed []string
	if root != nil {
		entry, err := lookup(ctx, root, p)
		if err != nil {
			return err
		}
		switch e := entry.(type) {
		case *Blob:
			committed = []string{p}
		case *Tree:
			if committed, err = files(ctx, e); err != nil {
				return err
			}
		}
	}

	removed := false
	for sp, e := range r.index {
		if sp != p && !strings.HasPrefix(sp, p+"/") {
			continue
		}
		switch e.Op {
		case OpAdded:
			delete(r.index, sp)
			removed = true
		case OpModified:
			r.index[sp] = IndexEntry{Op: OpDeleted}
			removed = true
		}
	}
	for _, cp := range committed {
		if _, ok := r.index[cp]; ok {
			continue
		}
		r.index[cp] = IndexEntry{Op: OpDeleted}
		removed = true
	}

	if !removed {
		return fileNotFound(p)
	}
	r.logger.Debug("staged removal", "branch", r.branch, "path", p)
	return nil
}

// current returns the content p holds once pending changes are applied.
func (r *Repository) current(ctx context.Context, p string) (backend.Sha, backend.Mode, error) {
	if staged, ok := r.index[p]; ok {
		if staged.Op == OpDeleted {
			return backend.EmptySha, 0, fileNotFound(p)
		}
		return staged.Sha, staged.Mode, nil
	}

	blob, err := r.committed(ctx, p)
	if err != nil {
		return backend.EmptySha, 0, err
	}
	if blob == nil {
		return backend.EmptySha, 0, fileNotFound(p)
	}
	return blob.sha, blob.mode, nil
}

// committed returns the file at p on the branch head, or nil.
func (r *Repository) committed(ctx context.Context, p string) (*Blob, error) {
	root, err := r.headTree(ctx)
	if err != nil || root == nil {
		return nil, err
	}
	entry, err := lookup(ctx, root, p)
	if err != nil {
		return nil, err
	}
	blob, _ := entry.(*Blob)
	return blob, nil
}

// files returns the paths of every file below t.
func files(ctx context.Context, t *Tree) ([]string, error) {
	entries, err := t.Entries(ctx)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, entry := range entries {
		switch e := entry.(type) {
		case *Blob:
			out = append(out, e.path)
		case *Tree:
			nested, err := files(ctx, e)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
		}
	}
	return out, nil
}

func cleanPair(from, to string) (string, string, error) {
	src, err := cleanPath(from)
	if err != nil {
		return "", "", err
	}
	dst, err := cleanPath(to)
	if err != nil {
		return "", "", err
	}
	if src == dst {
		return "", "", errors.WithContext(
			errors.New(errors.CodeInvalidInput, "source and destination are the same"),
			"path", src,
		)
	}
	return src, dst, nil
}
