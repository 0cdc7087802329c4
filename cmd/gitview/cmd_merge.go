package main

import (
	"fmt"
	"strings"

	"github.com/jmgilman/gitview/errors"
	"github.com/spf13/cobra"
)

func newMergeCmd(a *app) *cobra.Command {
	var (
		msg   string
		check bool
	)

	cmd := &cobra.Command{
		Use:   "merge <branch>",
		Short: "Merge a branch into the current branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := a.session(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if check {
				if _, err := r.CanMerge(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(out, "%s merges cleanly into %s\n", args[0], r.CurrentBranch())
				return nil
			}

			sha, err := r.Merge(ctx, args[0], msg)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "[%s %s] merged %s\n", r.CurrentBranch(), sha.Short(), args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&msg, "message", "m", "", "merge commit message")
	cmd.Flags().BoolVar(&check, "check", false, "only report whether the merge would succeed")
	return cmd
}

func newConflictsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts <branch>",
		Short: "Show how conflicting files differ between the current branch and another",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := a.session(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			ok, err := r.CanMerge(ctx, args[0])
			if ok {
				fmt.Fprintln(out, "no conflicts")
				return nil
			}
			conflict, isConflict := errors.AsMergeConflict(err)
			if !isConflict {
				return err
			}

			rendered, err := r.MergeConflicts(ctx, args[0])
			if err != nil {
				return err
			}
			for _, p := range conflict.Paths() {
				fmt.Fprintf(out, "%s\n", p)
				lines, shown := rendered[p]
				if !shown {
					fmt.Fprintln(out, "  (same content, file mode or type differs)")
					continue
				}
				for _, l := range lines {
					fmt.Fprintln(out, strings.TrimSuffix(l.String(), "\n"))
				}
			}
			return conflict
		},
	}
}
