// Package hosted implements backend.Backend against the GitHub REST API
// using the go-github SDK.
//
// Objects are read and written through the Git Data API (blobs, trees,
// commits and refs), so saving and merging work without a local clone.
// Objects are immutable, so blobs, trees and commit metadata are kept in
// an LRU cache keyed by Sha.
//
// The hosted backend has no local refs of its own: Push, Pull and Fetch
// succeed without doing anything, and SetHead only changes which branch
// this session treats as HEAD, never the repository's default branch.
package hosted

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/go-github/v67/github"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jmgilman/gitview/backend"
	"github.com/jmgilman/gitview/errors"
)

// DefaultCacheSize is the number of objects kept in the object cache.
const DefaultCacheSize = 1024

// emptyTree is the well-known Sha of the tree with no entries. GitHub
// refuses to create it, but every repository can reference it.
const emptyTree = backend.Sha("4b825dc642cb6eb9a060e54bf8d69288fbee4904")

var _ backend.Backend = (*Backend)(nil)

// Backend talks to one GitHub repository.
type Backend struct {
	client *github.Client
	owner  string
	repo   string
	cache  *lru.Cache[string, any]
	logger *slog.Logger

	mu   sync.RWMutex
	head string
}

// config holds configuration for a Backend.
type config struct {
	client    *github.Client
	token     string
	baseURL   string
	cacheSize int
	logger    *slog.Logger
}

// Option configures a Backend.
type Option func(*config) error

// WithToken sets the authentication token.
func WithToken(token string) Option {
	return func(cfg *config) error {
		if token == "" {
			err := errors.New(errors.CodeInvalidInput, "token cannot be empty")
			return errors.WithContext(err, "field", "token")
		}
		cfg.token = token
		return nil
	}
}

// WithClient sets a custom GitHub client. This allows full control over
// the HTTP client configuration and authentication.
func WithClient(client *github.Client) Option {
	return func(cfg *config) error {
		if client == nil {
			err := errors.New(errors.CodeInvalidInput, "client cannot be nil")
			return errors.WithContext(err, "field", "client")
		}
		cfg.client = client
		return nil
	}
}

// WithBaseURL points the client at a GitHub Enterprise (or test) server.
func WithBaseURL(baseURL string) Option {
	return func(cfg *config) error {
		cfg.baseURL = baseURL
		return nil
	}
}

// WithCacheSize sets how many objects are cached. Defaults to
// DefaultCacheSize.
func WithCacheSize(size int) Option {
	return func(cfg *config) error {
		if size <= 0 {
			err := errors.New(errors.CodeInvalidInput, "cache size must be positive")
			return errors.WithContext(err, "field", "cache_size")
		}
		cfg.cacheSize = size
		return nil
	}
}

// WithLogger sets the logger cache activity is reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) error {
		if logger != nil {
			cfg.logger = logger
		}
		return nil
	}
}

// New returns a Backend for owner/repo.
//
// Example with token authentication:
//
//	b, err := hosted.New("jmgilman", "content", hosted.WithToken(os.Getenv("GITHUB_TOKEN")))
//
// Example with a custom client:
//
//	client := github.NewClient(&http.Client{Timeout: 30 * time.Second})
//	b, err := hosted.New("jmgilman", "content", hosted.WithClient(client))
func New(owner, repo string, opts ...Option) (*Backend, error) {
	if owner == "" || repo == "" {
		err := errors.New(errors.CodeInvalidInput, "owner and repository are required")
		return nil, errors.WithContext(err, "field", "owner/repo")
	}

	cfg := &config{
		cacheSize: DefaultCacheSize,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.client == nil {
		cfg.client = github.NewClient(nil)
		if cfg.token != "" {
			cfg.client = cfg.client.WithAuthToken(cfg.token)
		}
	}
	if cfg.baseURL != "" {
		client, err := cfg.client.WithEnterpriseURLs(cfg.baseURL, cfg.baseURL)
		if err != nil {
			return nil, errors.WithContext(
				errors.Wrap(err, errors.CodeInvalidConfig, "invalid base URL"),
				"base_url", cfg.baseURL,
			)
		}
		cfg.client = client
	}

	cache, err := lru.New[string, any](cfg.cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to create object cache")
	}

	return &Backend{
		client: cfg.client,
		owner:  owner,
		repo:   repo,
		cache:  cache,
		logger: cfg.logger,
	}, nil
}

// wrapError maps a failed API call to an error code by HTTP status.
func wrapError(err error, resp *github.Response, message string) error {
	if err == nil {
		return nil
	}

	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return errors.Wrap(err, errors.CodeRateLimit, message)
	}

	if resp == nil || resp.Response == nil {
		return errors.Wrap(err, errors.CodeNetwork, message)
	}

	var code errors.ErrorCode
	status := resp.StatusCode
	switch status {
	case http.StatusNotFound:
		code = errors.CodeNotFound
	case http.StatusUnauthorized:
		code = errors.CodeUnauthorized
	case http.StatusForbidden:
		code = errors.CodeForbidden
	case http.StatusConflict:
		code = errors.CodeConflict
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		code = errors.CodeInvalidInput
	case http.StatusTooManyRequests:
		code = errors.CodeRateLimit
	default:
		if status >= 500 {
			code = errors.CodeNetwork
		} else {
			code = errors.CodeBackend
		}
	}

	return errors.WithContext(errors.Wrap(err, code, message), "status", status)
}

func invalidInput(format string, args ...interface{}) error {
	return errors.Newf(errors.CodeInvalidInput, format, args...)
}

func checkSha(sha backend.Sha) error {
	if !sha.IsValid() {
		return invalidInput("invalid object id %q", sha)
	}
	return nil
}

// cached returns the value stored under key, loading and storing it on a
// miss.
func cached[T any](b *Backend, key string, load func() (T, error)) (T, error) {
	if v, ok := b.cache.Get(key); ok {
		if typed, ok := v.(T); ok {
			b.logger.Debug("cache hit", "key", key)
			return typed, nil
		}
	}
	b.logger.Debug("cache miss", "key", key)
	v, err := load()
	if err != nil {
		return v, err
	}
	b.cache.Add(key, v)
	return v, nil
}

// paginate calls fetch for each page until the last one.
func paginate(fetch func(opts github.ListOptions) (*github.Response, error)) error {
	opts := github.ListOptions{PerPage: 100}
	for {
		resp, err := fetch(opts)
		if err != nil {
			return err
		}
		if resp == nil || resp.NextPage == 0 {
			return nil
		}
		opts.Page = resp.NextPage
	}
}
