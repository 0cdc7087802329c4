package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jmgilman/gitview/backend"
	"github.com/jmgilman/gitview/repo"
	"github.com/spf13/cobra"
)

// A CLI invocation holds no index between runs, so every change is
// committed with the required --message.

func messageFlag(cmd *cobra.Command, msg *string) {
	cmd.Flags().StringVarP(msg, "message", "m", "", "commit message")
	_ = cmd.MarkFlagRequired("message")
}

func printSaved(cmd *cobra.Command, r *repo.Repository, sha backend.Sha) {
	fmt.Fprintf(cmd.OutOrStdout(), "[%s %s]\n", r.CurrentBranch(), sha.Short())
}

// readContent returns the file named by from, or stdin when from is "" or
// "-".
func readContent(cmd *cobra.Command, from string) ([]byte, error) {
	if from == "" || from == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(from)
}

// writeCmd builds a command whose body mutates the repository and commits.
func writeCmd(a *app, use, short string, args cobra.PositionalArgs,
	run func(ctx context.Context, cmd *cobra.Command, r *repo.Repository, args []string, msg string) (backend.Sha, error),
) *cobra.Command {
	var msg string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := a.session(ctx)
			if err != nil {
				return err
			}
			sha, err := run(ctx, cmd, r, args, msg)
			if err != nil {
				return err
			}
			printSaved(cmd, r, sha)
			return nil
		},
	}
	messageFlag(cmd, &msg)
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	var from string
	cmd := writeCmd(a, "add <path>", "Add or replace a file with content from --file or stdin", cobra.ExactArgs(1),
		func(ctx context.Context, cmd *cobra.Command, r *repo.Repository, args []string, msg string) (backend.Sha, error) {
			content, err := readContent(cmd, from)
			if err != nil {
				return backend.EmptySha, err
			}
			return r.Add(ctx, args[0], content, msg)
		})
	cmd.Flags().StringVarP(&from, "file", "f", "", "read content from this file instead of stdin")
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var from string
	cmd := writeCmd(a, "update <path>", "Replace an existing file with content from --file or stdin", cobra.ExactArgs(1),
		func(ctx context.Context, cmd *cobra.Command, r *repo.Repository, args []string, msg string) (backend.Sha, error) {
			content, err := readContent(cmd, from)
			if err != nil {
				return backend.EmptySha, err
			}
			return r.Update(ctx, args[0], content, msg)
		})
	cmd.Flags().StringVarP(&from, "file", "f", "", "read content from this file instead of stdin")
	return cmd
}

func newRmCmd(a *app) *cobra.Command {
	return writeCmd(a, "rm <path>", "Remove a file or directory", cobra.ExactArgs(1),
		func(ctx context.Context, _ *cobra.Command, r *repo.Repository, args []string, msg string) (backend.Sha, error) {
			return r.Remove(ctx, args[0], msg)
		})
}

func newMvCmd(a *app) *cobra.Command {
	return writeCmd(a, "mv <from> <to>", "Move a file", cobra.ExactArgs(2),
		func(ctx context.Context, _ *cobra.Command, r *repo.Repository, args []string, msg string) (backend.Sha, error) {
			return r.Move(ctx, args[0], args[1], msg)
		})
}

func newCpCmd(a *app) *cobra.Command {
	return writeCmd(a, "cp <from> <to>", "Copy a file", cobra.ExactArgs(2),
		func(ctx context.Context, _ *cobra.Command, r *repo.Repository, args []string, msg string) (backend.Sha, error) {
			return r.Copy(ctx, args[0], args[1], msg)
		})
}

func newRevertCmd(a *app) *cobra.Command {
	return writeCmd(a, "revert <ref>", "Commit the inverse of a commit", cobra.ExactArgs(1),
		func(ctx context.Context, _ *cobra.Command, r *repo.Repository, args []string, msg string) (backend.Sha, error) {
			return r.Revert(ctx, args[0], msg)
		})
}

func newUndoCmd(a *app) *cobra.Command {
	return writeCmd(a, "undo <ref>", "Commit a tree identical to the given commit's", cobra.ExactArgs(1),
		func(ctx context.Context, _ *cobra.Command, r *repo.Repository, args []string, msg string) (backend.Sha, error) {
			return r.Undo(ctx, args[0], msg)
		})
}
