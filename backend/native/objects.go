package native

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/jmgilman/gitview/backend"
	"github.com/jmgilman/gitview/diff"
)

// CatFile returns the content of a blob.
func (b *Backend) CatFile(_ context.Context, sha backend.Sha) ([]byte, error) {
	hash, err := toHash(sha)
	if err != nil {
		return nil, err
	}

	blob, err := b.repo.BlobObject(hash)
	if err != nil {
		return nil, wrapError(err, fmt.Sprintf("failed to read blob %s", sha.Short()))
	}

	r, err := blob.Reader()
	if err != nil {
		return nil, wrapError(err, fmt.Sprintf("failed to open blob %s", sha.Short()))
	}
	defer r.Close()

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, wrapError(err, fmt.Sprintf("failed to read blob %s", sha.Short()))
	}
	return content, nil
}

// LoadTree returns the entries of a tree. Submodule entries are skipped.
func (b *Backend) LoadTree(_ context.Context, sha backend.Sha) ([]backend.TreeEntry, error) {
	hash, err := toHash(sha)
	if err != nil {
		return nil, err
	}

	tree, err := b.repo.TreeObject(hash)
	if err != nil {
		return nil, wrapError(err, fmt.Sprintf("failed to read tree %s", sha.Short()))
	}

	entries := make([]backend.TreeEntry, 0, len(tree.Entries))
	for _, e := range tree.Entries {
		if e.Mode == filemode.Submodule {
			continue
		}
		mode := backend.Mode(e.Mode)
		entries = append(entries, backend.TreeEntry{
			Name: e.Name,
			Mode: mode,
			Kind: mode.Kind(),
			Sha:  backend.Sha(e.Hash.String()),
		})
	}
	return entries, nil
}

// WriteBlob stores content as a blob object.
func (b *Backend) WriteBlob(_ context.Context, content []byte) (backend.Sha, error) {
	obj := b.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(content)))

	w, err := obj.Writer()
	if err != nil {
		return backend.EmptySha, wrapError(err, "failed to open blob writer")
	}
	if _, err := w.Write(content); err != nil {
		_ = w.Close()
		return backend.EmptySha, wrapError(err, "failed to write blob")
	}
	if err := w.Close(); err != nil {
		return backend.EmptySha, wrapError(err, "failed to write blob")
	}

	hash, err := b.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return backend.EmptySha, wrapError(err, "failed to store blob")
	}
	return backend.Sha(hash.String()), nil
}

// WriteTree stores a tree object. Entries are sorted into canonical git
// order before encoding.
func (b *Backend) WriteTree(_ context.Context, entries []backend.TreeEntry) (backend.Sha, error) {
	sorted := slices.Clone(entries)
	slices.SortFunc(sorted, func(x, y backend.TreeEntry) int {
		return strings.Compare(sortKey(x), sortKey(y))
	})

	tree := &object.Tree{Entries: make([]object.TreeEntry, 0, len(sorted))}
	for _, e := range sorted {
		if e.Name == "" || strings.Contains(e.Name, "/") {
			return backend.EmptySha, invalidInput("invalid tree entry name %q", e.Name)
		}
		hash, err := toHash(e.Sha)
		if err != nil {
			return backend.EmptySha, err
		}
		tree.Entries = append(tree.Entries, object.TreeEntry{
			Name: e.Name,
			Mode: filemode.FileMode(e.Mode),
			Hash: hash,
		})
	}

	obj := b.repo.Storer.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		return backend.EmptySha, wrapError(err, "failed to encode tree")
	}
	hash, err := b.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return backend.EmptySha, wrapError(err, "failed to store tree")
	}
	return backend.Sha(hash.String()), nil
}

// CreateCommit stores a commit object. Author and committer are the same
// signature; a zero timestamp means now.
func (b *Backend) CreateCommit(_ context.Context, req backend.CommitRequest) (backend.Sha, error) {
	treeHash, err := toHash(req.Tree)
	if err != nil {
		return backend.EmptySha, err
	}

	when := req.Author.When
	if when.IsZero() {
		when = time.Now()
	}
	sig := object.Signature{Name: req.Author.Name, Email: req.Author.Email, When: when}

	commit := &object.Commit{
		Author:    sig,
		Committer: sig,
		Message:   req.Message,
		TreeHash:  treeHash,
	}
	for _, p := range req.Parents {
		hash, err := toHash(p)
		if err != nil {
			return backend.EmptySha, err
		}
		commit.ParentHashes = append(commit.ParentHashes, hash)
	}

	obj := b.repo.Storer.NewEncodedObject()
	if err := commit.Encode(obj); err != nil {
		return backend.EmptySha, wrapError(err, "failed to encode commit")
	}
	hash, err := b.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return backend.EmptySha, wrapError(err, "failed to store commit")
	}
	return backend.Sha(hash.String()), nil
}

// TreeOf returns the root tree of a commit.
func (b *Backend) TreeOf(_ context.Context, sha backend.Sha) (backend.Sha, error) {
	commit, err := b.commitObject(sha)
	if err != nil {
		return backend.EmptySha, err
	}
	return backend.Sha(commit.TreeHash.String()), nil
}

// CommitMetadata returns a commit's metadata with patches against its first
// parent.
func (b *Backend) CommitMetadata(ctx context.Context, sha backend.Sha) (*backend.RawMetadata, error) {
	commit, err := b.commitObject(sha)
	if err != nil {
		return nil, err
	}

	changes, err := b.changes(ctx, commit)
	if err != nil {
		return nil, err
	}
	patch, err := changes.PatchContext(ctx)
	if err != nil {
		return nil, wrapError(err, fmt.Sprintf("failed to compute patch for %s", sha.Short()))
	}

	md := &backend.RawMetadata{
		Sha:       backend.Sha(commit.Hash.String()),
		Tree:      backend.Sha(commit.TreeHash.String()),
		Author:    commit.Author.Name,
		Email:     commit.Author.Email,
		Timestamp: commit.Author.When.Unix(),
		Message:   strings.TrimRight(commit.Message, "\n"),
		Patches:   make(map[string]string),
	}
	for _, p := range commit.ParentHashes {
		md.Parents = append(md.Parents, backend.Sha(p.String()))
	}
	for _, fp := range diff.Split(patch.String()) {
		md.Patches[fp.Path] = fp.Hunks
	}
	return md, nil
}

// Files returns the paths a commit changed relative to its first parent.
func (b *Backend) Files(ctx context.Context, sha backend.Sha) ([]string, error) {
	commit, err := b.commitObject(sha)
	if err != nil {
		return nil, err
	}

	changes, err := b.changes(ctx, commit)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(changes))
	for _, ch := range changes {
		name := ch.To.Name
		if name == "" {
			name = ch.From.Name
		}
		files = append(files, name)
	}
	return files, nil
}

func (b *Backend) changes(ctx context.Context, commit *object.Commit) (object.Changes, error) {
	to, err := commit.Tree()
	if err != nil {
		return nil, wrapError(err, "failed to load commit tree")
	}

	var from *object.Tree
	if commit.NumParents() > 0 {
		parent, err := commit.Parent(0)
		if err != nil {
			return nil, wrapError(err, "failed to load parent commit")
		}
		if from, err = parent.Tree(); err != nil {
			return nil, wrapError(err, "failed to load parent tree")
		}
	}

	changes, err := object.DiffTreeWithOptions(ctx, from, to, nil)
	if err != nil {
		return nil, wrapError(err, "failed to diff trees")
	}
	return changes, nil
}

func (b *Backend) commitObject(sha backend.Sha) (*object.Commit, error) {
	hash, err := toHash(sha)
	if err != nil {
		return nil, err
	}
	commit, err := b.repo.CommitObject(hash)
	if err != nil {
		return nil, wrapError(err, fmt.Sprintf("failed to read commit %s", sha.Short()))
	}
	return commit, nil
}

func toHash(sha backend.Sha) (plumbing.Hash, error) {
	if !sha.IsValid() {
		return plumbing.ZeroHash, invalidInput("invalid object id %q", sha)
	}
	return plumbing.NewHash(string(sha)), nil
}

// sortKey orders tree entries the way git does: directories compare as if
// their name ended in a slash.
func sortKey(e backend.TreeEntry) string {
	if e.Mode == backend.ModeDir {
		return e.Name + "/"
	}
	return e.Name
}
