package sync

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/yupinghuang/casadata-sync/cmd/util"
	"github.com/yupinghuang/casadata-sync/pkg/errors"
	"github.com/yupinghuang/casadata-sync/pkg/rsync"
	casasync "github.com/yupinghuang/casadata-sync/pkg/sync"
)

// Mocked for unit testing.
var newRsyncRunner = func() rsync.Runner {
	return rsync.NewExecRunner()
}

// New creates the root `casadata-sync` command, which performs the sync.
func New(flags *util.ConfigFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "casadata-sync",
		Short: "Sync the CASA data repository into the deployment environment",
		Long: "Mirrors the CASA data repository into the casadata directory of the " +
			"deployment conda environment with rsync.\n\n" +
			"If the environment does not exist, nothing is done and the command " +
			"exits successfully. Otherwise the data directory is created if " +
			"needed, and rsync's exit status becomes the exit status of this command.",
		Args: cobra.NoArgs,

		// A failed sync is reported by rsync itself.
		SilenceUsage:  true,
		SilenceErrors: true,

		Run: func(cmd *cobra.Command, _ []string) {
			if err := run(cmd.Context(), flags); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
}

func run(ctx context.Context, flags *util.ConfigFlags) error {
	cfg, err := flags.Load()
	if err != nil {
		return errors.WithContext(err, "load config")
	}

	_, err = casasync.NewRunner(cfg, newRsyncRunner()).Run(ctx)
	return err
}
