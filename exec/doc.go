// Package exec runs local commands behind a small fluent interface that can
// be mocked in tests.
//
// Command is the concrete Executor. Settings passed to New are global;
// settings applied through the With* methods are local to the next Run and
// are cleared afterwards:
//
//	cmd := exec.New(exec.WithInheritEnv())
//	result, err := cmd.
//		WithDir("/srv/repo").
//		WithStdin(strings.NewReader("hello\n")).
//		Run("git", "hash-object", "-w", "--stdin")
//
// CommandWrapper prepends a fixed binary to every Run, which keeps call sites
// that invoke the same tool repeatedly short:
//
//	git := exec.NewWrapper(exec.New(), "git")
//	result, err := git.WithDir(path).WithContext(ctx).Run("rev-parse", "HEAD")
//
// A non-zero exit produces an *ExecError that carries the exit code and the
// captured output. The partial Result is returned alongside it.
package exec
