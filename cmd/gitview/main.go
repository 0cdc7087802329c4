// Command gitview reads and edits a git repository through any of the
// gitview backends without a worktree.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/jmgilman/gitview/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{}
	root := newRootCmd(a)
	if err := root.ExecuteContext(ctx); err != nil {
		printError(os.Stderr, err, a.jsonErrors)
		stop()
		os.Exit(1)
	}
}

// printError writes err as text, or as an errors.ErrorResponse when asJSON
// is set.
func printError(w io.Writer, err error, asJSON bool) {
	if asJSON {
		_ = json.NewEncoder(w).Encode(errors.ToJSON(err))
		return
	}
	fmt.Fprintln(w, "error:", err)
	if conflict, ok := errors.AsMergeConflict(err); ok {
		for _, p := range conflict.Paths() {
			fmt.Fprintln(w, "  conflict:", p)
		}
	}
}
