package sync

import (
	"context"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"

	"github.com/yupinghuang/casadata-sync/pkg/config"
	"github.com/yupinghuang/casadata-sync/pkg/errors"
	"github.com/yupinghuang/casadata-sync/pkg/rsync"
)

// targetDirMode is the mode used for any directories created on the way to
// the target.
const targetDirMode = 0755

// Result describes what a sync did.
type Result struct {
	// Skipped is true if the environment didn't exist, so nothing was done.
	Skipped bool

	// Transferred is true if rsync ran and exited successfully.
	Transferred bool

	// Duration is how long rsync ran for.
	Duration time.Duration
}

// Runner syncs the CASA data repository according to a sync config.
type Runner struct {
	config config.Sync
	rsync  rsync.Runner
	clock  clockwork.Clock
}

// NewRunner returns a Runner that starts rsync with `rsyncRunner`.
func NewRunner(cfg config.Sync, rsyncRunner rsync.Runner) *Runner {
	return &Runner{
		config: cfg,
		rsync:  rsyncRunner,
		clock:  clockwork.NewRealClock(),
	}
}

// Command returns the rsync command the Runner would start.
func (r *Runner) Command() rsync.Command {
	return rsync.NewTransfer(r.config.RsyncBinary, r.config.RemoteSource, r.config.TargetPath)
}

// Run performs the sync. If rsync fails, the returned error carries its
// exit status.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	logger := log.WithField("environment", r.config.EnvironmentPath)

	exists, err := environmentExists(r.config.EnvironmentPath)
	if err != nil {
		return Result{}, errors.WithContext(err, "stat environment path")
	}
	if !exists {
		logger.Debug("Environment does not exist. Skipping sync.")
		return Result{Skipped: true}, nil
	}

	if err := fs.MkdirAll(r.config.TargetPath, targetDirMode); err != nil {
		return Result{}, errors.WithContext(err, "create target directory")
	}

	cmd := r.Command()
	logger = logger.WithField("target", cmd.Dir).WithField("source", r.config.RemoteSource)
	logger.Debug("Starting transfer")

	start := r.clock.Now()
	err = r.rsync.Run(ctx, cmd)
	duration := r.clock.Now().Sub(start)
	if err != nil {
		logger.WithError(err).WithField("duration", duration).Debug("Transfer failed")
		return Result{Duration: duration}, errors.WithContext(err, "run rsync")
	}

	logger.WithField("duration", duration).Debug("Transfer finished")
	if log.IsLevelEnabled(log.DebugLevel) {
		if usage, err := DirectoryUsage(cmd.Dir); err == nil {
			logger.WithField("files", usage.Files).WithField("bytes", usage.Bytes).
				Debug("Target directory usage")
		}
	}
	return Result{Transferred: true, Duration: duration}, nil
}

func environmentExists(path string) (bool, error) {
	_, err := fs.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, err
	}
}
