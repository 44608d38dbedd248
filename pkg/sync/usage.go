package sync

import (
	"os"

	"github.com/spf13/afero"

	"github.com/yupinghuang/casadata-sync/pkg/config"
	"github.com/yupinghuang/casadata-sync/pkg/errors"
)

// Usage is how much data a directory tree holds.
type Usage struct {
	Files int
	Bytes int64
}

// DirectoryUsage totals the files under `path`. Symlinks are counted, but
// not followed. A missing directory has no usage.
func DirectoryUsage(path string) (Usage, error) {
	var usage Usage
	err := afero.Walk(fs, path, func(_ string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if fi.IsDir() {
			return nil
		}

		usage.Files++
		usage.Bytes += fi.Size()
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return Usage{}, nil
		}
		return Usage{}, errors.WithContext(err, "walk")
	}
	return usage, nil
}

// Status is the state of a deployment, as seen without changing it.
type Status struct {
	EnvironmentExists bool
	TargetExists      bool
	TargetUsage       Usage
}

// GetStatus inspects the paths in `cfg`. It never creates anything.
func GetStatus(cfg config.Sync) (Status, error) {
	var status Status
	var err error

	status.EnvironmentExists, err = environmentExists(cfg.EnvironmentPath)
	if err != nil {
		return Status{}, errors.WithContext(err, "stat environment path")
	}

	status.TargetExists, err = afero.DirExists(fs, cfg.TargetPath)
	if err != nil {
		return Status{}, errors.WithContext(err, "stat target path")
	}

	if status.TargetExists {
		status.TargetUsage, err = DirectoryUsage(cfg.TargetPath)
		if err != nil {
			return Status{}, errors.WithContext(err, "get target usage")
		}
	}
	return status, nil
}
