// Package native implements backend.Backend in-process on top of go-git.
//
// Objects are read from and written to a go-git storer directly, so no git
// binary is required. The repository may live on any billy filesystem,
// which makes memfs-backed repositories a convenient test fixture.
package native

import (
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"github.com/jmgilman/gitview/backend"
)

var _ backend.Backend = (*Backend)(nil)

// Backend is a go-git backed object store.
type Backend struct {
	repo *gogit.Repository
	auth transport.AuthMethod
}

// Option configures Init and Open.
type Option func(*options)

type options struct {
	fs   billy.Filesystem
	bare bool
	auth transport.AuthMethod
}

// WithFilesystem sets the filesystem the repository lives on.
// Defaults to the host filesystem.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithBare creates a bare repository. Only meaningful for Init.
func WithBare() Option {
	return func(o *options) {
		o.bare = true
	}
}

// WithAuth sets the credentials used by Push, Pull and Fetch.
func WithAuth(auth Auth) Option {
	return func(o *options) {
		if method, ok := auth.(transport.AuthMethod); ok {
			o.auth = method
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.fs == nil {
		o.fs = osfs.New("")
	}
	return o
}

// Init creates a new repository at path.
//
// Examples:
//
//	// repository with a .git directory on disk
//	b, err := native.Init("/srv/content")
//
//	// bare repository in memory
//	b, err := native.Init("/content.git", native.WithFilesystem(memfs.New()), native.WithBare())
func Init(path string, opts ...Option) (*Backend, error) {
	o := newOptions(opts)

	if err := o.fs.MkdirAll(path, 0o755); err != nil {
		return nil, wrapError(err, "failed to create repository directory")
	}
	scoped, err := o.fs.Chroot(path)
	if err != nil {
		return nil, wrapError(err, "failed to scope filesystem to path")
	}

	var repo *gogit.Repository
	if o.bare {
		repo, err = gogit.Init(filesystem.NewStorage(scoped, cache.NewObjectLRUDefault()), nil)
	} else {
		dotGit, chrootErr := scoped.Chroot(gogit.GitDirName)
		if chrootErr != nil {
			return nil, wrapError(chrootErr, "failed to create .git filesystem")
		}
		repo, err = gogit.Init(filesystem.NewStorage(dotGit, cache.NewObjectLRUDefault()), scoped)
	}
	if err != nil {
		return nil, wrapError(err, "failed to initialize repository")
	}

	return &Backend{repo: repo, auth: o.auth}, nil
}

// Open opens an existing repository at path. Both bare repositories and
// repositories with a .git directory are recognized.
func Open(path string, opts ...Option) (*Backend, error) {
	o := newOptions(opts)

	scoped, err := o.fs.Chroot(path)
	if err != nil {
		return nil, wrapError(err, "failed to scope filesystem to path")
	}

	storageFs, worktree := scoped, billy.Filesystem(nil)
	if stat, statErr := scoped.Stat(gogit.GitDirName); statErr == nil && stat.IsDir() {
		dotGit, chrootErr := scoped.Chroot(gogit.GitDirName)
		if chrootErr != nil {
			return nil, wrapError(chrootErr, "failed to scope filesystem to .git")
		}
		storageFs, worktree = dotGit, scoped
	}

	repo, err := gogit.Open(filesystem.NewStorage(storageFs, cache.NewObjectLRUDefault()), worktree)
	if err != nil {
		return nil, wrapError(err, "failed to open repository")
	}

	return &Backend{repo: repo, auth: o.auth}, nil
}

// New wraps an already opened go-git repository, such as one backed by
// memory.NewStorage.
func New(repo *gogit.Repository, opts ...Option) *Backend {
	o := newOptions(opts)
	return &Backend{repo: repo, auth: o.auth}
}

// Underlying returns the go-git repository for operations this package
// does not cover.
func (b *Backend) Underlying() *gogit.Repository {
	return b.repo
}
