package util

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/yupinghuang/casadata-sync/pkg/config"
	"github.com/yupinghuang/casadata-sync/pkg/errors"
)

// Mocked for unit testing.
var (
	exit             = os.Exit
	stderr io.Writer = os.Stderr
)

// HandleFatalError prints `err` and exits. A failed rsync has already
// reported its own error, so only its exit status is passed on.
func HandleFatalError(err error) {
	code := errors.ExitCode(err)

	var exitErr errors.ExitError
	switch {
	case errors.As(err, &exitErr):
		log.WithError(err).Debug("rsync failed")
	default:
		if msg, ok := errors.GetFriendlyMessage(err); ok {
			fmt.Fprintln(stderr, msg)
		} else {
			fmt.Fprintf(stderr, "Error: %s\n", err)
		}
	}
	exit(code)
}

// HandlePanic logs any panic in the calling goroutine, and exits.
func HandlePanic() {
	if r := recover(); r != nil {
		log.WithField("stack", string(debug.Stack())).Errorf("Unexpected panic: %v", r)
		exit(1)
	}
}

// ConfigFlags are the command line flags shared by every command that reads
// the sync config.
type ConfigFlags struct {
	// Path is the sync config file. If empty, config.GetSyncConfigPath is
	// used.
	Path string

	config.Overrides
}

// Bind adds the flags to `flags`.
func (f *ConfigFlags) Bind(flags *pflag.FlagSet) {
	flags.StringVar(&f.Path, "config", "",
		fmt.Sprintf("Path to the sync config. Defaults to $%s, or %s. "+
			"The file is optional.", config.SyncConfigPathEnvKey, config.SyncConfigPath))
	flags.StringVar(&f.EnvironmentPath, "environment-path", "",
		"The environment that must exist for a sync to happen. "+
			"Defaults to "+config.DefaultEnvironmentPath)
	flags.StringVar(&f.TargetPath, "target-path", "",
		"Where the data is synced to. Must be inside the environment. "+
			"Defaults to "+config.DefaultTargetPath)
	flags.StringVar(&f.RemoteSource, "remote-source", "",
		"The rsync module to sync from. Defaults to "+config.DefaultRemoteSource)
	flags.StringVar(&f.RsyncBinary, "rsync-binary", "",
		"The rsync client to run. Defaults to "+config.DefaultRsyncBinary)
}

// Load reads the sync config and applies the flag overrides.
func (f *ConfigFlags) Load() (config.Sync, error) {
	path := f.Path
	if path == "" {
		var err error
		path, err = config.GetSyncConfigPath()
		switch {
		case errors.Is(err, config.ErrUnknownHome):
			// Same as a missing config file, e.g. when run from cron.
			log.WithError(err).Debug("No default sync config path. Using defaults.")
			return f.Overrides.Apply(config.Default())
		case err != nil:
			return config.Sync{}, errors.WithContext(err, "get config path")
		}
	}

	cfg, err := config.ParseSync(path)
	if err != nil {
		return config.Sync{}, err
	}
	return f.Overrides.Apply(cfg)
}
