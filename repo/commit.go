package repo

import (
	"context"
	"time"

	"github.com/jmgilman/gitview/backend"
	"github.com/jmgilman/gitview/diff"
)

// Metadata describes a commit.
type Metadata struct {
	Author    string
	Email     string
	Timestamp int64
	Message   string
	Parents   []backend.Sha
	Tree      backend.Sha
	// Diff holds the changes relative to the first parent, keyed by path.
	Diff diff.Diff
}

// Time returns Timestamp as a time.Time.
func (m *Metadata) Time() time.Time {
	return time.Unix(m.Timestamp, 0)
}

// Commit is a point in history. Metadata, tree and changed files are each
// fetched on first access.
type Commit struct {
	backend backend.Backend
	sha     backend.Sha

	metadata lazy[*Metadata]
	tree     lazy[*Tree]
	files    lazy[[]string]
}

func newCommit(b backend.Backend, sha backend.Sha) *Commit {
	return &Commit{backend: b, sha: sha}
}

// Sha returns the commit's identifier.
func (c *Commit) Sha() backend.Sha { return c.sha }

// String returns the commit's Sha.
func (c *Commit) String() string { return string(c.sha) }

// Equal reports whether c and other identify the same commit.
func (c *Commit) Equal(other *Commit) bool {
	return other != nil && c.sha == other.sha
}

// Metadata returns the commit's author, message, parents and diff.
func (c *Commit) Metadata(ctx context.Context) (*Metadata, error) {
	return c.metadata.get(func() (*Metadata, error) {
		raw, err := c.backend.CommitMetadata(ctx, c.sha)
		if err != nil {
			return nil, err
		}
		d, err := diff.ParseFiles(raw.Patches)
		if err != nil {
			return nil, err
		}
		return &Metadata{
			Author:    raw.Author,
			Email:     raw.Email,
			Timestamp: raw.Timestamp,
			Message:   raw.Message,
			Parents:   raw.Parents,
			Tree:      raw.Tree,
			Diff:      d,
		}, nil
	})
}

// Parents returns the commit's parents: none for a root commit, two for a
// merge.
func (c *Commit) Parents(ctx context.Context) ([]*Commit, error) {
	md, err := c.Metadata(ctx)
	if err != nil {
		return nil, err
	}
	parents := make([]*Commit, len(md.Parents))
	for i, p := range md.Parents {
		parents[i] = newCommit(c.backend, p)
	}
	return parents, nil
}

// Tree returns the commit's root tree. Blob histories read through it are
// relative to this commit.
func (c *Commit) Tree(ctx context.Context) (*Tree, error) {
	return c.tree.get(func() (*Tree, error) {
		sha, err := c.backend.TreeOf(ctx, c.sha)
		if err != nil {
			return nil, err
		}
		return newTree(c.backend, sha, "", string(c.sha)), nil
	})
}

// Files returns the paths the commit changed.
func (c *Commit) Files(ctx context.Context) ([]string, error) {
	return c.files.get(func() ([]string, error) {
		return c.backend.Files(ctx, c.sha)
	})
}
