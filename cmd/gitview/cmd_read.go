package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jmgilman/gitview/errors"
	"github.com/jmgilman/gitview/repo"
	"github.com/spf13/cobra"
)

func newLsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ls [path]",
		Short: "List a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := a.session(ctx)
			if err != nil {
				return err
			}

			p := ""
			if len(args) == 1 {
				p = args[0]
			}
			tree, err := r.Tree(ctx, p)
			if err != nil {
				return err
			}
			if tree == nil {
				return errors.WithContext(errors.New(errors.CodeNotFound, "directory not found"), "path", p)
			}

			entries, err := tree.Entries(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				kind := "blob"
				name := e.Name()
				if _, ok := e.(*repo.Tree); ok {
					kind = "tree"
					name += "/"
				}
				fmt.Fprintf(out, "%s %s\t%s\n", kind, e.Sha().Short(), name)
			}
			return nil
		},
	}
}

func newCatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cat <path>",
		Short: "Print a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := a.session(ctx)
			if err != nil {
				return err
			}
			blob, err := r.File(ctx, args[0])
			if err != nil {
				return err
			}
			content, err := blob.Content(ctx)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(content)
			return err
		},
	}
}

func newLogCmd(a *app) *cobra.Command {
	var (
		limit int
		grep  string
	)

	cmd := &cobra.Command{
		Use:   "log [ref | path]",
		Short: "Show history of a branch or a file",
		Long: "Show history of a branch or a file. An argument naming a file on the\n" +
			"current branch shows that file's history, anything else is resolved as a ref.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := a.session(ctx)
			if err != nil {
				return err
			}

			var commits []*repo.Commit
			switch {
			case grep != "":
				commits, err = r.SearchLog(ctx, grep)
			case len(args) == 1:
				commits, err = fileOrRefHistory(cmd, r, args[0], limit)
			default:
				commits, err = r.Commits(ctx, "", limit)
			}
			if err != nil {
				return err
			}

			for _, c := range commits {
				md, err := c.Metadata(ctx)
				if err != nil {
					return err
				}
				printCommitLine(cmd.OutOrStdout(), c, md)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", repo.DefaultCommitLimit, "maximum number of commits")
	cmd.Flags().StringVar(&grep, "grep", "", "only commits whose message contains this text")
	return cmd
}

func fileOrRefHistory(cmd *cobra.Command, r *repo.Repository, arg string, limit int) ([]*repo.Commit, error) {
	ctx := cmd.Context()
	blob, err := r.File(ctx, arg)
	if errors.IsNotFound(err) || errors.HasCode(err, errors.CodeInvalidInput) {
		return r.Commits(ctx, arg, limit)
	}
	if err != nil {
		return nil, err
	}

	history, err := blob.History(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(history) > limit {
		history = history[:limit]
	}
	return history, nil
}

func printCommitLine(w io.Writer, c *repo.Commit, md *repo.Metadata) {
	subject, _, _ := strings.Cut(md.Message, "\n")
	fmt.Fprintf(w, "%s %s %s %s\n",
		c.Sha().Short(),
		md.Time().UTC().Format(time.DateOnly),
		md.Author,
		subject,
	)
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [ref]",
		Short: "Show a commit and its changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := a.session(ctx)
			if err != nil {
				return err
			}

			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}
			c, err := r.Commit(ctx, ref)
			if err != nil {
				return err
			}
			md, err := c.Metadata(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "commit %s\n", c.Sha())
			for _, p := range md.Parents {
				fmt.Fprintf(out, "parent %s\n", p)
			}
			fmt.Fprintf(out, "author %s <%s>\n", md.Author, md.Email)
			fmt.Fprintf(out, "date   %s\n\n", md.Time().UTC().Format(time.RFC3339))
			for _, line := range strings.Split(md.Message, "\n") {
				fmt.Fprintf(out, "    %s\n", line)
			}
			for _, p := range md.Diff.Paths() {
				fmt.Fprintf(out, "\n%s\n", p)
				for _, l := range md.Diff[p] {
					fmt.Fprint(out, l.String())
					if !strings.HasSuffix(l.Text, "\n") {
						fmt.Fprintln(out)
					}
				}
			}
			return nil
		},
	}
}
