package main

import (
	"context"

	"github.com/jmgilman/gitview/backend"
	"github.com/jmgilman/gitview/repo"
	"github.com/spf13/cobra"
)

func remoteCmd(a *app, use, short string, run func(*repo.Repository, context.Context, backend.RemoteOptions) error) *cobra.Command {
	var opts backend.RemoteOptions

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := a.session(ctx)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				opts.Branch = args[0]
			}
			return run(r, ctx, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Remote, "remote", backend.DefaultRemote, "remote name")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "allow non-fast-forward updates")
	return cmd
}

func newPushCmd(a *app) *cobra.Command {
	return remoteCmd(a, "push [branch]", "Push a branch to a remote", (*repo.Repository).Push)
}

func newPullCmd(a *app) *cobra.Command {
	return remoteCmd(a, "pull [branch]", "Fetch a branch and fast-forward it", (*repo.Repository).Pull)
}

func newFetchCmd(a *app) *cobra.Command {
	return remoteCmd(a, "fetch [branch]", "Update remote-tracking branches", (*repo.Repository).Fetch)
}
