package repo

import (
	"context"
	"path"

	"github.com/jmgilman/gitview/backend"
	"github.com/jmgilman/gitview/errors"
)

// Blob is a file's content at one Sha, together with the history of the
// path it was found at.
type Blob struct {
	backend backend.Backend
	sha     backend.Sha
	mode    backend.Mode
	path    string
	ref     string

	content lazy[[]byte]
	history lazy[[]*Commit]
}

func newBlob(b backend.Backend, sha backend.Sha, mode backend.Mode, p, ref string) *Blob {
	return &Blob{backend: b, sha: sha, mode: mode, path: p, ref: ref}
}

// Sha returns the blob's identifier.
func (b *Blob) Sha() backend.Sha { return b.sha }

// Mode returns the file mode the blob was listed with.
func (b *Blob) Mode() backend.Mode { return b.mode }

// Path returns the file's path from the repository root.
func (b *Blob) Path() string { return b.path }

// Name returns the file name.
func (b *Blob) Name() string { return path.Base(b.path) }

// String returns the file's path.
func (b *Blob) String() string { return b.path }

// Equal reports whether b and other identify the same content.
func (b *Blob) Equal(other *Blob) bool {
	return other != nil && b.sha == other.sha
}

// Content returns the file content.
func (b *Blob) Content(ctx context.Context) ([]byte, error) {
	return b.content.get(func() ([]byte, error) {
		return b.backend.CatFile(ctx, b.sha)
	})
}

// History returns the commits that touched the file's path, newest first.
func (b *Blob) History(ctx context.Context) ([]*Commit, error) {
	return b.history.get(func() ([]*Commit, error) {
		shas, err := b.backend.Log(ctx, b.ref, backend.LogOptions{Path: b.path})
		if err != nil {
			return nil, err
		}
		commits := make([]*Commit, len(shas))
		for i, sha := range shas {
			commits[i] = newCommit(b.backend, sha)
		}
		return commits, nil
	})
}

// Latest returns the newest commit that touched the file's path. Its
// metadata answers who last changed the file, and when.
func (b *Blob) Latest(ctx context.Context) (*Commit, error) {
	history, err := b.History(ctx)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, errors.WithContext(errors.New(errors.CodeNotFound, "file has no history"), "path", b.path)
	}
	return history[0], nil
}
