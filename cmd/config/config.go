package config

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yupinghuang/casadata-sync/cmd/util"
	"github.com/yupinghuang/casadata-sync/pkg/config"
	"github.com/yupinghuang/casadata-sync/pkg/errors"
)

// Mocked for unit testing.
var stdout io.Writer = os.Stdout

// New creates a new `config` command.
func New(flags *util.ConfigFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Save the sync configuration",
		Long: "Writes the current configuration, including any values set with " +
			"flags, to the sync config file so that later syncs use it " +
			"without flags.",
		Args: cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			if err := writeConfig(flags); err != nil {
				err = errors.WithContext(err, "write config")
				util.HandleFatalError(err)
			}
		},
	}

	// Setup the commands for querying the contents of the sync config.
	type getterSpec struct {
		use, short string
		fn         func(config.Sync) string
	}

	getters := []getterSpec{
		{
			use:   "get-environment-path",
			short: "Get the environment that gates the sync",
			fn:    func(cfg config.Sync) string { return cfg.EnvironmentPath },
		},
		{
			use:   "get-target-path",
			short: "Get the directory the data is synced into",
			fn:    func(cfg config.Sync) string { return cfg.TargetPath },
		},
		{
			use:   "get-remote-source",
			short: "Get the rsync module the data is synced from",
			fn:    func(cfg config.Sync) string { return cfg.RemoteSource },
		},
		{
			use:   "get-rsync-binary",
			short: "Get the rsync client that runs the transfer",
			fn:    func(cfg config.Sync) string { return cfg.RsyncBinary },
		},
	}
	for _, getter := range getters {
		getter := getter
		cmd.AddCommand(&cobra.Command{
			Use:   getter.use,
			Short: getter.short,
			Args:  cobra.NoArgs,
			Run: func(_ *cobra.Command, _ []string) {
				cfg, err := flags.Load()
				if err != nil {
					err = errors.WithContext(err, "read config")
					util.HandleFatalError(err)
					return
				}

				fmt.Fprintln(stdout, getter.fn(cfg))
			},
		})
	}

	return cmd
}

func writeConfig(flags *util.ConfigFlags) error {
	cfg, err := flags.Load()
	if err != nil {
		return errors.WithContext(err, "load config")
	}

	path := flags.Path
	if path == "" {
		path, err = config.GetSyncConfigPath()
		if err != nil {
			return errors.WithContext(err, "get sync config path")
		}
	}

	if err := config.WriteSync(path, cfg); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Wrote config to %s\n", path)
	return nil
}
