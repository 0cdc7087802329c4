package exec

import (
	"context"
	"io"
)

// CommandWrapper is an Executor bound to one program. Run(args...) runs the
// program, followed by any fixed leading arguments, followed by args.
type CommandWrapper struct {
	executor Executor
	argv     []string
}

// NewWrapper binds executor to cmd. Leading arguments are placed before
// the per-call arguments of every Run, which suits global flags such as
// git's -c settings.
func NewWrapper(executor Executor, cmd string, leading ...string) *CommandWrapper {
	return &CommandWrapper{
		executor: executor,
		argv:     append([]string{cmd}, leading...),
	}
}

// with swaps in the configured executor and keeps the wrapper chainable.
func (w *CommandWrapper) with(next Executor) Executor {
	w.executor = next
	return w
}

func (w *CommandWrapper) WithEnv(env map[string]string) Executor {
	return w.with(w.executor.WithEnv(env))
}

func (w *CommandWrapper) WithDir(dir string) Executor {
	return w.with(w.executor.WithDir(dir))
}

func (w *CommandWrapper) WithContext(ctx context.Context) Executor {
	return w.with(w.executor.WithContext(ctx))
}

func (w *CommandWrapper) WithStdin(r io.Reader) Executor {
	return w.with(w.executor.WithStdin(r))
}

func (w *CommandWrapper) WithInheritEnv() Executor {
	return w.with(w.executor.WithInheritEnv())
}

func (w *CommandWrapper) Run(args ...string) (*Result, error) {
	full := make([]string, 0, len(w.argv)+len(args))
	full = append(full, w.argv...)
	return w.executor.Run(append(full, args...)...)
}

// Clone returns a wrapper around a clone of the underlying executor.
func (w *CommandWrapper) Clone() Executor {
	return &CommandWrapper{
		executor: w.executor.Clone(),
		argv:     w.argv,
	}
}
