package sync

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yupinghuang/casadata-sync/cmd/util"
	"github.com/yupinghuang/casadata-sync/pkg/config"
	"github.com/yupinghuang/casadata-sync/pkg/errors"
	"github.com/yupinghuang/casadata-sync/pkg/rsync"
)

func testFlags(root string) *util.ConfigFlags {
	return &util.ConfigFlags{
		Path: filepath.Join(root, "missing.yaml"),
		Overrides: config.Overrides{
			EnvironmentPath: filepath.Join(root, "env"),
			TargetPath:      filepath.Join(root, "env", "share", "casa-data"),
		},
	}
}

func TestRunNoEnvironment(t *testing.T) {
	root := t.TempDir()
	mockRsync := rsync.NewMockRunner()
	newRsyncRunner = func() rsync.Runner { return mockRsync }

	err := run(context.Background(), testFlags(root))
	assert.NoError(t, err)
	assert.Empty(t, mockRsync.Calls)

	entries, err := os.ReadDir(root)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunNoEnvironmentWithoutHome(t *testing.T) {
	// As under cron: no $HOME, and nothing on $PATH to look it up with.
	t.Setenv("HOME", "")
	t.Setenv("PATH", "")
	t.Setenv(config.SyncConfigPathEnvKey, "")

	root := t.TempDir()
	flags := testFlags(root)
	flags.Path = ""

	mockRsync := rsync.NewMockRunner()
	newRsyncRunner = func() rsync.Runner { return mockRsync }

	err := run(context.Background(), flags)
	assert.NoError(t, err)
	assert.Equal(t, 0, errors.ExitCode(err))
	assert.Empty(t, mockRsync.Calls)

	entries, err := os.ReadDir(root)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunSyncs(t *testing.T) {
	root := t.TempDir()
	assert.NoError(t, os.Mkdir(filepath.Join(root, "env"), 0755))

	mockRsync := rsync.NewMockRunner()
	newRsyncRunner = func() rsync.Runner { return mockRsync }

	target := filepath.Join(root, "env", "share", "casa-data")
	err := run(context.Background(), testFlags(root))
	assert.NoError(t, err)
	assert.Equal(t, []rsync.Command{
		rsync.NewTransfer(config.DefaultRsyncBinary, config.DefaultRemoteSource, target),
	}, mockRsync.Calls)

	fi, err := os.Stat(target)
	assert.NoError(t, err)
	assert.True(t, fi.IsDir())
}

func TestRunPropagatesExitStatus(t *testing.T) {
	root := t.TempDir()
	assert.NoError(t, os.Mkdir(filepath.Join(root, "env"), 0755))

	// A stand-in rsync that fails the way a refused connection does.
	fakeRsync := filepath.Join(root, "rsync")
	assert.NoError(t, os.WriteFile(fakeRsync, []byte("#!/bin/sh\nexit 10\n"), 0755))

	flags := testFlags(root)
	flags.RsyncBinary = fakeRsync
	newRsyncRunner = func() rsync.Runner { return &rsync.ExecRunner{} }

	err := run(context.Background(), flags)
	assert.Equal(t, 10, errors.ExitCode(err))
	var exitErr errors.ExitError
	assert.True(t, errors.As(err, &exitErr))
	assert.Equal(t, fakeRsync, exitErr.Command)
}

func TestRunInvalidConfig(t *testing.T) {
	root := t.TempDir()
	flags := testFlags(root)
	flags.RemoteSource = "https://casa.nrao.edu/casa-data"

	mockRsync := rsync.NewMockRunner()
	newRsyncRunner = func() rsync.Runner { return mockRsync }

	err := run(context.Background(), flags)
	_, ok := errors.GetFriendlyMessage(err)
	assert.True(t, ok)
	assert.Empty(t, mockRsync.Calls)
}
