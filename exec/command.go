package exec

import (
	"bytes"
	"context"
	"io"
	"maps"
	"os"
	osexec "os/exec"
)

// settings is one layer of configuration. Command keeps a global layer that
// survives runs and a local layer that is cleared after each Run.
type settings struct {
	env        map[string]string
	dir        string
	inheritEnv bool
}

func newSettings() settings {
	return settings{env: make(map[string]string)}
}

// Command is the os/exec backed Executor.
type Command struct {
	global settings
	local  settings
	ctx    context.Context
	stdin  io.Reader
}

// New creates a Command. Options set global defaults.
func New(opts ...Option) *Command {
	cmd := &Command{
		global: newSettings(),
		local:  newSettings(),
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		opt(cmd)
	}
	return cmd
}

func (c *Command) WithEnv(env map[string]string) Executor {
	for k, v := range env {
		c.local.env[k] = v
	}
	return c
}

func (c *Command) WithDir(dir string) Executor {
	c.local.dir = dir
	return c
}

func (c *Command) WithContext(ctx context.Context) Executor {
	c.ctx = ctx
	return c
}

func (c *Command) WithStdin(r io.Reader) Executor {
	c.stdin = r
	return c
}

func (c *Command) WithInheritEnv() Executor {
	c.local.inheritEnv = true
	return c
}

// Run executes the command. A non-zero exit returns both the Result and an
// *ExecError.
func (c *Command) Run(args ...string) (*Result, error) {
	defer c.reset()

	if len(args) == 0 {
		return nil, &ExecError{Command: args, ExitCode: -1, Err: osexec.ErrNotFound}
	}

	cmd := osexec.CommandContext(c.ctx, args[0], args[1:]...)
	cmd.Dir = c.global.dir
	if c.local.dir != "" {
		cmd.Dir = c.local.dir
	}

	if c.global.inheritEnv || c.local.inheritEnv {
		cmd.Env = os.Environ()
	}
	env := maps.Clone(c.global.env)
	maps.Copy(env, c.local.env)
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Stdin = c.stdin

	err := cmd.Run()
	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: -1,
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err != nil {
		return result, &ExecError{
			Command:  args,
			ExitCode: result.ExitCode,
			Stdout:   result.Stdout,
			Stderr:   result.Stderr,
			Err:      err,
		}
	}
	return result, nil
}

// Clone copies the global settings and context into a fresh Command.
func (c *Command) Clone() Executor {
	clone := New()
	clone.global.dir = c.global.dir
	clone.global.inheritEnv = c.global.inheritEnv
	maps.Copy(clone.global.env, c.global.env)
	clone.ctx = c.ctx
	return clone
}

func (c *Command) reset() {
	c.local = newSettings()
	c.stdin = nil
}
