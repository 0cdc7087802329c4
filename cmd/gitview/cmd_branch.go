package main

import (
	"fmt"

	"github.com/jmgilman/gitview/errors"
	"github.com/spf13/cobra"
)

func newBranchCmd(a *app) *cobra.Command {
	var (
		from   string
		rename bool
		del    bool
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "branch [name [new-name]]",
		Short: "List, create, rename or delete branches",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := a.session(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			switch {
			case rename:
				if len(args) != 2 {
					return errors.New(errors.CodeInvalidInput, "rename needs the old and new branch names")
				}
				return r.RenameBranch(ctx, args[0], args[1])
			case del:
				if len(args) != 1 {
					return errors.New(errors.CodeInvalidInput, "delete needs a branch name")
				}
				return r.DeleteBranch(ctx, args[0], force)
			case len(args) == 1:
				return r.CreateBranch(ctx, args[0], from)
			case len(args) == 2:
				return errors.New(errors.CodeInvalidInput, "too many arguments; did you mean --rename?")
			}

			branches, err := r.Branches(ctx)
			if err != nil {
				return err
			}
			for _, b := range branches {
				marker := "  "
				if b == r.CurrentBranch() {
					marker = "* "
				}
				fmt.Fprintln(out, marker+b)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "start the new branch at this ref instead of the current head")
	cmd.Flags().BoolVar(&rename, "rename", false, "rename a branch")
	cmd.Flags().BoolVarP(&del, "delete", "d", false, "delete a branch")
	cmd.Flags().BoolVar(&force, "force", false, "delete even if unmerged")
	cmd.MarkFlagsMutuallyExclusive("rename", "delete")
	return cmd
}

func newCheckoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <branch>",
		Short: "Point HEAD at a branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := a.session(ctx)
			if err != nil {
				return err
			}
			if err := r.CheckoutBranch(ctx, args[0]); err != nil {
				return err
			}
			cmd.Printf("switched to branch %s\n", args[0])
			return nil
		},
	}
}

func newTagCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tag",
		Short: "List tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := a.session(ctx)
			if err != nil {
				return err
			}
			tags, err := r.Tags(ctx)
			if err != nil {
				return err
			}
			for _, t := range tags {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}
