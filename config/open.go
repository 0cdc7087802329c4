package config

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/jmgilman/gitview/backend"
	"github.com/jmgilman/gitview/backend/cli"
	"github.com/jmgilman/gitview/backend/hosted"
	"github.com/jmgilman/gitview/backend/native"
	"github.com/jmgilman/gitview/errors"
	"github.com/jmgilman/gitview/internal/logging"
	"github.com/jmgilman/gitview/repo"
)

// OpenOption adjusts how Open builds the backend.
type OpenOption func(*openOptions)

type openOptions struct {
	fs     billy.Filesystem
	logger *slog.Logger
	getenv func(string) string
}

// WithFilesystem sets the filesystem the native backend opens its
// repository on. Defaults to the host filesystem.
func WithFilesystem(fs billy.Filesystem) OpenOption {
	return func(o *openOptions) {
		o.fs = fs
	}
}

// WithLogger overrides the logger built from the log section.
func WithLogger(logger *slog.Logger) OpenOption {
	return func(o *openOptions) {
		o.logger = logger
	}
}

// WithGetenv sets how the hosted token is looked up. Defaults to
// os.Getenv.
func WithGetenv(getenv func(string) string) OpenOption {
	return func(o *openOptions) {
		o.getenv = getenv
	}
}

// Logger builds the logger described by the log section, writing to w.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Config{
		Level:  level,
		Format: logging.Format(c.Log.Format),
	}, w)
}

// Open builds the configured backend and opens a repository session on it.
func Open(ctx context.Context, c *Config, opts ...OpenOption) (*repo.Repository, error) {
	o := &openOptions{getenv: os.Getenv}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		logger, err := c.Logger(os.Stderr)
		if err != nil {
			return nil, err
		}
		o.logger = logger
	}

	b, err := c.backend(o)
	if err != nil {
		return nil, err
	}

	repoOpts := []repo.Option{repo.WithLogger(o.logger)}
	if c.Branch != "" {
		repoOpts = append(repoOpts, repo.WithBranch(c.Branch))
	}
	if c.User != nil {
		repoOpts = append(repoOpts, repo.WithUser(c.User.Name, c.User.Email))
	}
	return repo.Open(ctx, b, repoOpts...)
}

// Init creates the configured repository and opens a session on it. Only
// the native and cli backends can create repositories.
func Init(ctx context.Context, c *Config, opts ...OpenOption) (*repo.Repository, error) {
	o := &openOptions{}
	for _, opt := range opts {
		opt(o)
	}

	switch c.Backend {
	case BackendNative:
		var nativeOpts []native.Option
		if o.fs != nil {
			nativeOpts = append(nativeOpts, native.WithFilesystem(o.fs))
		}
		if c.Bare {
			nativeOpts = append(nativeOpts, native.WithBare())
		}
		if _, err := native.Init(c.Path, nativeOpts...); err != nil {
			return nil, err
		}
	case BackendCLI:
		if _, err := cli.Init(c.Path, c.Bare); err != nil {
			return nil, err
		}
	default:
		return nil, errors.WithContext(
			errors.New(errors.CodeNotImplemented, "backend cannot create repositories"),
			"backend", c.Backend,
		)
	}
	return Open(ctx, c, opts...)
}

func (c *Config) backend(o *openOptions) (backend.Backend, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	switch c.Backend {
	case BackendNative:
		var nativeOpts []native.Option
		if o.fs != nil {
			nativeOpts = append(nativeOpts, native.WithFilesystem(o.fs))
		}
		return native.Open(c.Path, nativeOpts...)
	case BackendCLI:
		return cli.New(c.Path)
	default:
		h := c.Hosted
		hostedOpts := []hosted.Option{hosted.WithLogger(o.logger)}
		if token := o.getenv(h.TokenEnv); token != "" {
			hostedOpts = append(hostedOpts, hosted.WithToken(token))
		}
		if h.BaseURL != "" {
			hostedOpts = append(hostedOpts, hosted.WithBaseURL(h.BaseURL))
		}
		if h.CacheSize > 0 {
			hostedOpts = append(hostedOpts, hosted.WithCacheSize(h.CacheSize))
		}
		return hosted.New(h.Owner, h.Repo, hostedOpts...)
	}
}
