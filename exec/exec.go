package exec

import (
	"context"
	"io"
)

//go:generate go run github.com/matryer/moq@latest -out mocks/executor.go -pkg mocks . Executor

// Executor runs commands. The With* methods configure the next Run.
type Executor interface {
	// WithEnv adds environment variables for the next run.
	WithEnv(env map[string]string) Executor

	// WithDir sets the working directory for the next run.
	WithDir(dir string) Executor

	// WithContext sets the context; cancelling it kills the process.
	WithContext(ctx context.Context) Executor

	// WithStdin feeds r to the process's standard input.
	WithStdin(r io.Reader) Executor

	// WithInheritEnv passes the parent's environment to the process.
	WithInheritEnv() Executor

	// Run executes args[0] with the remaining arguments.
	Run(args ...string) (*Result, error)

	// Clone returns an independent executor with the same global settings.
	Clone() Executor
}

// Result holds the captured output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Option configures global settings on a Command.
type Option func(*Command)

// WithEnv returns an Option that sets global environment variables.
func WithEnv(env map[string]string) Option {
	return func(c *Command) {
		for k, v := range env {
			c.global.env[k] = v
		}
	}
}

// WithDir returns an Option that sets the global working directory.
func WithDir(dir string) Option {
	return func(c *Command) {
		c.global.dir = dir
	}
}

// WithInheritEnv returns an Option that inherits the parent environment on every run.
func WithInheritEnv() Option {
	return func(c *Command) {
		c.global.inheritEnv = true
	}
}
