package cmd

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yupinghuang/casadata-sync/cmd/check"
	configCmd "github.com/yupinghuang/casadata-sync/cmd/config"
	syncCmd "github.com/yupinghuang/casadata-sync/cmd/sync"
	"github.com/yupinghuang/casadata-sync/cmd/util"
	"github.com/yupinghuang/casadata-sync/cmd/version"
)

// verboseLogKey is the environment variable used to enable verbose logging.
// When it's set to `true`, Debug events are logged, rather than just Info and
// above.
const verboseLogKey = "CASADATA_LOG_VERBOSE"

// Execute runs the main CLI process.
func Execute() {
	setLogLevel()

	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		util.HandleFatalError(err)
	}
}

func setLogLevel() {
	if os.Getenv(verboseLogKey) == "true" {
		log.SetLevel(log.DebugLevel)
	}
}

func newRootCommand() *cobra.Command {
	var configFlags util.ConfigFlags
	rootCmd := syncCmd.New(&configFlags)
	configFlags.Bind(rootCmd.PersistentFlags())
	rootCmd.AddCommand(
		check.New(&configFlags),
		configCmd.New(&configFlags),
		version.New(),
	)
	return rootCmd
}
