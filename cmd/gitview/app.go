package main

import (
	"context"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/jmgilman/gitview/config"
	"github.com/jmgilman/gitview/repo"
	"github.com/spf13/cobra"
)

// app carries the global flags and the repository session the commands
// share.
type app struct {
	configPath string
	branch     string
	jsonErrors bool

	// open is replaced in tests.
	open func(ctx context.Context, cfg *config.Config) (*repo.Repository, error)
	repo *repo.Repository
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "gitview",
		Short:         "File-oriented access to git repositories",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", config.Path(), "config file (env "+config.EnvPath+")")
	flags.StringVarP(&a.branch, "branch", "b", "", "branch to operate on instead of the configured one")
	flags.BoolVar(&a.jsonErrors, "json", false, "print errors as JSON")

	root.AddCommand(
		newInitCmd(a),
		newLsCmd(a),
		newCatCmd(a),
		newLogCmd(a),
		newShowCmd(a),
		newAddCmd(a),
		newUpdateCmd(a),
		newRmCmd(a),
		newMvCmd(a),
		newCpCmd(a),
		newRevertCmd(a),
		newUndoCmd(a),
		newBranchCmd(a),
		newCheckoutCmd(a),
		newTagCmd(a),
		newMergeCmd(a),
		newConflictsCmd(a),
		newPushCmd(a),
		newPullCmd(a),
		newFetchCmd(a),
	)
	return root
}

func (a *app) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx, osfs.New(""), a.configPath)
	if err != nil {
		return nil, err
	}
	if a.branch != "" {
		cfg.Branch = a.branch
	}
	return cfg, nil
}

// session opens the configured repository once per invocation.
func (a *app) session(ctx context.Context) (*repo.Repository, error) {
	if a.repo != nil {
		return a.repo, nil
	}

	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	open := a.open
	if open == nil {
		open = func(ctx context.Context, cfg *config.Config) (*repo.Repository, error) {
			return config.Open(ctx, cfg)
		}
	}

	r, err := open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.repo = r
	return r, nil
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configured repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			r, err := config.Init(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			cmd.Printf("initialized %s repository at %s on branch %s\n", cfg.Backend, cfg.Path, r.CurrentBranch())
			return nil
		},
	}
}
