package exec

import (
	"fmt"
	"strings"
)

// ExecError is returned when a process could not be started or exited
// with a non-zero status. Git reports most failures this way, so the
// captured streams travel with the error.
type ExecError struct {
	Command  []string
	ExitCode int // -1 when the process never started
	Stdout   string
	Stderr   string
	Err      error
}

func (e *ExecError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s exited with status %d", strings.Join(e.Command, " "), e.ExitCode)
	if line := e.firstLine(); line != "" {
		fmt.Fprintf(&b, ": %s", line)
	} else if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// firstLine is the first non-empty line of stderr, usually git's
// "fatal:" or "error:" message.
func (e *ExecError) firstLine() string {
	for _, line := range strings.Split(e.Stderr, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
