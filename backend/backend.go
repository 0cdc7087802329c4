// Package backend defines the capability surface a storage engine must
// provide to the repository core.
//
// Three implementations exist: native (an in-process object store built on
// go-git), cli (the git binary) and hosted (the GitHub REST API). The core in
// package repo only ever talks to this interface, so staging, saving and
// merging behave identically regardless of where the objects live.
//
// Backends are stateless with respect to the session: the current branch,
// the staging index and the commit author are owned by the caller and passed
// in explicitly.
package backend

import "context"

// Backend is the set of primitives the repository core is built on.
type Backend interface {
	// Head returns the branch HEAD points at.
	Head(ctx context.Context) (string, error)

	// SetHead points HEAD at branch.
	SetHead(ctx context.Context, branch string) error

	// Dereference resolves a Sha, a branch short name or a full ref name to
	// a commit Sha. Returns a NotFound error if ref does not resolve.
	Dereference(ctx context.Context, ref string) (Sha, error)

	// CatFile returns the content of a blob.
	CatFile(ctx context.Context, sha Sha) ([]byte, error)

	// LoadTree returns the entries of a tree in listing order.
	LoadTree(ctx context.Context, sha Sha) ([]TreeEntry, error)

	// TreeOf returns the root tree of a commit.
	TreeOf(ctx context.Context, commit Sha) (Sha, error)

	// CommitMetadata returns the metadata and per-file patches of a commit.
	CommitMetadata(ctx context.Context, sha Sha) (*RawMetadata, error)

	// Files returns the paths changed by a commit relative to its first parent.
	Files(ctx context.Context, sha Sha) ([]string, error)

	// Log returns commit Shas reachable from ref, newest first.
	Log(ctx context.Context, ref string, opts LogOptions) ([]Sha, error)

	// SearchLog returns commits reachable from ref whose message contains term.
	SearchLog(ctx context.Context, ref, term string) ([]Sha, error)

	// MergeBase returns the best common ancestor of a and b, or EmptySha if
	// the histories are unrelated.
	MergeBase(ctx context.Context, a, b Sha) (Sha, error)

	// WriteBlob stores content and returns its Sha.
	WriteBlob(ctx context.Context, content []byte) (Sha, error)

	// WriteTree stores a single tree level. Entries may be in any order.
	WriteTree(ctx context.Context, entries []TreeEntry) (Sha, error)

	// CreateCommit stores a commit object. It does not move any branch.
	CreateCommit(ctx context.Context, req CommitRequest) (Sha, error)

	// UpdateBranch points branch at sha. When expected is non-empty the
	// update only succeeds if the branch currently points at expected.
	UpdateBranch(ctx context.Context, branch string, sha, expected Sha) error

	// ListBranches returns local branch names, sorted.
	ListBranches(ctx context.Context) ([]string, error)

	// ListTags returns tag names, sorted.
	ListTags(ctx context.Context) ([]string, error)

	// CreateBranch creates branch at from. Returns AlreadyExists if taken.
	CreateBranch(ctx context.Context, branch string, from Sha) error

	// RenameBranch renames a branch.
	RenameBranch(ctx context.Context, oldName, newName string) error

	// DeleteBranch removes a branch. Without force an unmerged branch is
	// refused.
	DeleteBranch(ctx context.Context, branch string, force bool) error

	// Push, Pull and Fetch transfer refs and objects with a remote.
	Push(ctx context.Context, opts RemoteOptions) error
	Pull(ctx context.Context, opts RemoteOptions) error
	Fetch(ctx context.Context, opts RemoteOptions) error
}
