package check

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/yupinghuang/casadata-sync/cmd/util"
	"github.com/yupinghuang/casadata-sync/pkg/errors"
	"github.com/yupinghuang/casadata-sync/pkg/rsync"
	casasync "github.com/yupinghuang/casadata-sync/pkg/sync"
)

// Mocked for unit testing.
var (
	stdout         io.Writer = os.Stdout
	newRsyncRunner           = func() rsync.Runner { return rsync.NewExecRunner() }
	getStatus                = casasync.GetStatus
)

// New creates a new `check` command.
func New(flags *util.ConfigFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report what a sync would do, without changing anything",
		Long: "Prints whether the deployment environment and the data directory " +
			"exist, how much data is already synced, the rsync command that " +
			"would run, and the version of the local rsync client.",
		Args: cobra.NoArgs,
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

	status, err := getStatus(cfg)
	if err != nil {
		return errors.WithContext(err, "get status")
	}

	runner := newRsyncRunner()
	transfer := casasync.NewRunner(cfg, runner).Command()

	fmt.Fprintf(stdout, "Environment: %s (%s)\n", cfg.EnvironmentPath, existence(status.EnvironmentExists))
	fmt.Fprintf(stdout, "Target:      %s (%s)\n", cfg.TargetPath, existence(status.TargetExists))
	if status.TargetExists {
		fmt.Fprintf(stdout, "Synced data: %d files, %s\n",
			status.TargetUsage.Files, units.BytesSize(float64(status.TargetUsage.Bytes)))
	}
	if !status.EnvironmentExists {
		fmt.Fprintln(stdout, "The environment does not exist, so a sync would do nothing.")
	} else {
		fmt.Fprintf(stdout, "A sync would run `%s` in %s\n", transfer, transfer.Dir)
	}

	version, err := rsync.ProbeVersion(ctx, runner, cfg.RsyncBinary)
	if err != nil {
		return errors.NewFriendlyError("Failed to get the version of the rsync "+
			"client %q:\n%s", cfg.RsyncBinary, err)
	}

	fmt.Fprintf(stdout, "rsync:       %s\n", version)
	if version.LessThan(rsync.MinimumVersion) {
		fmt.Fprintf(stdout, "Warning: rsync %s is older than %s, "+
			"the oldest version known to work with %s\n",
			version, rsync.MinimumVersion, cfg.RemoteSource)
	}
	return nil
}

func existence(exists bool) string {
	if exists {
		return "exists"
	}
	return "missing"
}
