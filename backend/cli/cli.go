//nolint:contextcheck // Context is passed through Executor.WithContext, which the linter cannot follow
package cli

import (
	"context"
	"strings"

	"github.com/jmgilman/gitview/backend"
	"github.com/jmgilman/gitview/errors"
	"github.com/jmgilman/gitview/exec"
)

var _ backend.Backend = (*Backend)(nil)

// gitFlags precede every subcommand. Paths in git's output stay unescaped
// UTF-8 so they match the paths stored in trees.
var gitFlags = []string{"-c", "core.quotepath=off"}

// Backend runs git in a repository directory.
type Backend struct {
	dir     string
	wrapper *exec.CommandWrapper
}

// Option configures a Backend.
type Option func(*Backend) error

// WithExecutor sets the executor git runs through. This is primarily
// useful for testing with a mock executor.
func WithExecutor(executor exec.Executor) Option {
	return func(b *Backend) error {
		if executor == nil {
			err := errors.New(errors.CodeInvalidInput, "executor cannot be nil")
			return errors.WithContext(err, "field", "executor")
		}
		b.wrapper = exec.NewWrapper(executor, "git", gitFlags...)
		return nil
	}
}

// New returns a Backend for the repository at dir. dir may be a worktree
// or a bare repository; it is verified with `git rev-parse --git-dir`.
//
// Example:
//
//	b, err := cli.New("/srv/content")
//	if err != nil {
//	    log.Fatal(err)
//	}
func New(dir string, opts ...Option) (*Backend, error) {
	b := &Backend{
		dir:     dir,
		wrapper: exec.NewWrapper(exec.New(exec.WithInheritEnv()), "git", gitFlags...),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	result, err := b.git(context.Background()).Run("rev-parse", "--git-dir")
	if err != nil {
		return nil, wrapError(err, result, "not a git repository")
	}
	return b, nil
}

// Init runs `git init` in dir and returns a Backend for it.
func Init(dir string, bare bool, opts ...Option) (*Backend, error) {
	b := &Backend{
		dir:     dir,
		wrapper: exec.NewWrapper(exec.New(exec.WithInheritEnv()), "git", gitFlags...),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	args := []string{"init", "--quiet"}
	if bare {
		args = append(args, "--bare")
	}
	result, err := b.wrapper.Clone().WithContext(context.Background()).Run(append(args, dir)...)
	if err != nil {
		return nil, wrapError(err, result, "failed to initialize repository")
	}
	return b, nil
}

// Dir returns the repository directory.
func (b *Backend) Dir() string {
	return b.dir
}

// git returns a fresh executor scoped to the repository. Each call clones
// the wrapper so concurrent operations never share per-run settings.
func (b *Backend) git(ctx context.Context) exec.Executor {
	return b.wrapper.Clone().WithDir(b.dir).WithContext(ctx)
}

// output runs git and returns stdout, wrapping failures with message.
func (b *Backend) output(ctx context.Context, message string, args ...string) (string, error) {
	result, err := b.git(ctx).Run(args...)
	if err != nil {
		return "", wrapError(err, result, message)
	}
	return result.Stdout, nil
}

// stderrCodes maps fragments of git's error output to error codes. The
// first match wins, so more specific fragments come first.
var stderrCodes = []struct {
	fragment string
	code     errors.ErrorCode
}{
	{"but expected", errors.CodeConflict},
	{"non-fast-forward", errors.CodeConflict},
	{"[rejected]", errors.CodeConflict},
	{"not fully merged", errors.CodeInvalidState},
	{"cannot delete branch", errors.CodeInvalidState},
	{"is not a symbolic ref", errors.CodeInvalidState},
	{"already exists", errors.CodeAlreadyExists},
	{"authentication failed", errors.CodeUnauthorized},
	{"could not read username", errors.CodeUnauthorized},
	{"permission denied", errors.CodeForbidden},
	{"could not resolve host", errors.CodeNetwork},
	{"unable to access", errors.CodeNetwork},
	{"not a git repository", errors.CodeNotFound},
	{"does not appear to be a git repository", errors.CodeNotFound},
	{"not a valid object name", errors.CodeNotFound},
	{"unknown revision", errors.CodeNotFound},
	{"bad object", errors.CodeNotFound},
	{"bad revision", errors.CodeNotFound},
	{"not found", errors.CodeNotFound},
	{"couldn't find remote ref", errors.CodeNotFound},
}

// wrapError classifies a failed git invocation by its stderr and attaches
// the exit code and stderr as context.
func wrapError(err error, result *exec.Result, message string) error {
	if err == nil {
		return nil
	}

	code := errors.CodeBackend
	if result != nil {
		stderr := strings.ToLower(result.Stderr)
		for _, m := range stderrCodes {
			if strings.Contains(stderr, m.fragment) {
				code = m.code
				break
			}
		}
	}

	wrapped := errors.Wrap(err, code, message)
	if result != nil && result.Stderr != "" {
		wrapped = errors.WithContextMap(wrapped, map[string]interface{}{
			"stderr":    strings.TrimSpace(result.Stderr),
			"exit_code": result.ExitCode,
		})
	}
	return wrapped
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
