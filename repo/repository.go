package repo

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/jmgilman/gitview/backend"
	"github.com/jmgilman/gitview/errors"
)

// DefaultCommitLimit is the number of commits Commits returns when no limit
// is given.
const DefaultCommitLimit = 20

// Repository is a session over a backend: a current branch, a staging
// index and the identity commits are authored with.
type Repository struct {
	backend backend.Backend
	branch  string
	index   map[string]IndexEntry
	user    *backend.Signature
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Repository.
type Option func(*Repository)

// WithBranch sets the initial branch. By default the branch HEAD points at
// is used.
func WithBranch(name string) Option {
	return func(r *Repository) {
		r.branch = name
	}
}

// WithUser sets the commit author.
func WithUser(name, email string) Option {
	return func(r *Repository) {
		r.user = &backend.Signature{Name: name, Email: email}
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClock overrides the time source used to stamp commits.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

// Open creates a session over b.
func Open(ctx context.Context, b backend.Backend, opts ...Option) (*Repository, error) {
	if b == nil {
		return nil, errors.New(errors.CodeInvalidInput, "backend is required")
	}

	r := &Repository{
		backend: b,
		index:   make(map[string]IndexEntry),
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.branch == "" {
		head, err := b.Head(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to determine current branch: %w", err)
		}
		r.branch = head
	}

	return r, nil
}

// Backend returns the backend the repository reads and writes through.
func (r *Repository) Backend() backend.Backend {
	return r.backend
}

// CurrentBranch returns the branch the session operates on.
func (r *Repository) CurrentBranch() string {
	return r.branch
}

// SetBranch switches the session to another branch without touching the
// backend's HEAD or the index.
func (r *Repository) SetBranch(name string) error {
	if name == "" {
		return errors.New(errors.CodeInvalidInput, "branch name is required")
	}
	r.branch = name
	return nil
}

// SetUser sets the identity new commits are authored with.
func (r *Repository) SetUser(name, email string) error {
	if name == "" || email == "" {
		return errors.New(errors.CodeInvalidInput, "user name and email are required")
	}
	r.user = &backend.Signature{Name: name, Email: email}
	return nil
}

// Tree returns the directory at p on the current branch. The root is
// addressed by "" or ".". A path that is missing, or that names a file, or
// that passes through a file, yields a nil Tree and no error. On a branch
// with no commits every non-root path is missing, while asking for the root
// itself returns a NotFound error.
func (r *Repository) Tree(ctx context.Context, p string) (*Tree, error) {
	root, err := r.headTree(ctx)
	if err != nil {
		return nil, err
	}
	if root == nil {
		if trimmed := strings.Trim(p, "/"); trimmed == "" || trimmed == "." {
			return nil, r.unbornError()
		}
		return nil, nil
	}

	entry, err := lookup(ctx, root, p)
	if err != nil {
		return nil, err
	}
	tree, _ := entry.(*Tree)
	return tree, nil
}

// File returns the file at p on the current branch. Returns a NotFound
// error if p does not name a file.
func (r *Repository) File(ctx context.Context, p string) (*Blob, error) {
	clean, err := cleanPath(p)
	if err != nil {
		return nil, err
	}

	root, err := r.headTree(ctx)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fileNotFound(clean)
	}

	entry, err := lookup(ctx, root, clean)
	if err != nil {
		return nil, err
	}
	blob, ok := entry.(*Blob)
	if !ok {
		return nil, fileNotFound(clean)
	}
	return blob, nil
}

// Commit resolves ref to a commit. An empty ref means the head of the
// current branch.
func (r *Repository) Commit(ctx context.Context, ref string) (*Commit, error) {
	if ref == "" {
		ref = r.branchRef()
	}
	sha, err := r.backend.Dereference(ctx, ref)
	if err != nil {
		return nil, err
	}
	return newCommit(r.backend, sha), nil
}

// Commits returns up to limit commits reachable from ref along first
// parents, newest first. An empty ref means the current branch and a
// non-positive limit means DefaultCommitLimit.
func (r *Repository) Commits(ctx context.Context, ref string, limit int) ([]*Commit, error) {
	if ref == "" {
		ref = r.branchRef()
	}
	if limit <= 0 {
		limit = DefaultCommitLimit
	}

	r.logger.Debug("reading history", "op", "log", "ref", ref, "limit", limit)
	shas, err := r.backend.Log(ctx, ref, backend.LogOptions{Limit: limit})
	if err != nil {
		return nil, err
	}
	return r.commits(shas), nil
}

// SearchLog returns the commits on the current branch whose message
// contains term.
func (r *Repository) SearchLog(ctx context.Context, term string) ([]*Commit, error) {
	if term == "" {
		return nil, errors.New(errors.CodeInvalidInput, "search term is required")
	}
	shas, err := r.backend.SearchLog(ctx, r.branchRef(), term)
	if err != nil {
		return nil, err
	}
	return r.commits(shas), nil
}

func (r *Repository) commits(shas []backend.Sha) []*Commit {
	out := make([]*Commit, len(shas))
	for i, sha := range shas {
		out[i] = newCommit(r.backend, sha)
	}
	return out
}

func (r *Repository) branchRef() string {
	return "refs/heads/" + r.branch
}

// head returns the commit the current branch points at, or EmptySha if the
// branch has no commits yet.
func (r *Repository) head(ctx context.Context) (backend.Sha, error) {
	sha, err := r.backend.Dereference(ctx, r.branchRef())
	if errors.IsNotFound(err) {
		return backend.EmptySha, nil
	}
	if err != nil {
		return backend.EmptySha, err
	}
	return sha, nil
}

// headTree returns the root tree of the current branch, or nil if the
// branch has no commits yet.
func (r *Repository) headTree(ctx context.Context) (*Tree, error) {
	head, err := r.head(ctx)
	if err != nil || head.IsZero() {
		return nil, err
	}
	return r.treeOf(ctx, head)
}

func (r *Repository) treeOf(ctx context.Context, commit backend.Sha) (*Tree, error) {
	r.logger.Debug("resolving tree", "op", "tree", "branch", r.branch, "sha", commit.String())
	sha, err := r.backend.TreeOf(ctx, commit)
	if err != nil {
		return nil, err
	}
	return newTree(r.backend, sha, "", r.branchRef()), nil
}

func (r *Repository) unbornError() error {
	return errors.WithContext(
		errors.New(errors.CodeNotFound, "branch has no commits"),
		"branch", r.branch,
	)
}

// lookup walks p from root one segment at a time. It returns nil when a
// segment is missing or is not a directory.
func lookup(ctx context.Context, root *Tree, p string) (Entry, error) {
	p = strings.Trim(p, "/")
	if p == "" || p == "." {
		return root, nil
	}

	var current Entry = root
	for _, segment := range strings.Split(path.Clean(p), "/") {
		dir, ok := current.(*Tree)
		if !ok {
			return nil, nil
		}
		next, err := dir.Get(ctx, segment)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, nil
		}
		current = next
	}
	return current, nil
}

// cleanPath normalizes a file path relative to the repository root.
func cleanPath(p string) (string, error) {
	clean := path.Clean(strings.Trim(p, "/"))
	if clean == "." || clean == "" {
		return "", errors.New(errors.CodeInvalidInput, "file path is required")
	}
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", errors.WithContext(
			errors.New(errors.CodeInvalidInput, "path escapes the repository"),
			"path", p,
		)
	}
	return clean, nil
}

func fileNotFound(p string) error {
	return errors.WithContext(errors.New(errors.CodeNotFound, "file not found"), "path", p)
}
