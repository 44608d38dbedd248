package util

import (
	"bytes"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"

	"github.com/yupinghuang/casadata-sync/pkg/config"
	"github.com/yupinghuang/casadata-sync/pkg/errors"
)

func TestHandleFatalError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		expCode   int
		expStderr string
	}{
		{
			name:      "Generic error",
			err:       errors.WithContext(errors.New("permission denied"), "create target directory"),
			expCode:   1,
			expStderr: "Error: create target directory: permission denied\n",
		},
		{
			name:      "Friendly error",
			err:       errors.WithContext(errors.NewFriendlyError("Fix %s", "the config"), "load"),
			expCode:   1,
			expStderr: "Fix the config\n",
		},
		{
			name:      "rsync failure",
			err:       errors.WithContext(errors.ExitError{Command: "rsync", Code: 23}, "run rsync"),
			expCode:   23,
			expStderr: "",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			var out bytes.Buffer
			var code int
			stderr = &out
			exit = func(c int) { code = c }

			HandleFatalError(test.err)
			assert.Equal(t, test.expCode, code)
			assert.Equal(t, test.expStderr, out.String())
		})
	}
}

func TestHandlePanic(t *testing.T) {
	code := -1
	exit = func(c int) { code = c }

	func() {
		defer HandlePanic()
		panic("boom")
	}()
	assert.Equal(t, 1, code)
}

func TestConfigFlags(t *testing.T) {
	var flags ConfigFlags
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bind(flagSet)

	assert.NoError(t, flagSet.Parse([]string{
		"--config", "/nonexistent/casadata-sync.yaml",
		"--environment-path", "/opt/env/x",
		"--target-path", "/opt/env/x/data",
	}))

	cfg, err := flags.Load()
	assert.NoError(t, err)
	assert.Equal(t, config.Sync{
		Version:         config.InitialSyncConfigVersion,
		EnvironmentPath: "/opt/env/x",
		TargetPath:      "/opt/env/x/data",
		RemoteSource:    config.DefaultRemoteSource,
		RsyncBinary:     config.DefaultRsyncBinary,
	}, cfg)

	// Moving the environment without the target breaks nesting.
	flags.TargetPath = ""
	_, err = flags.Load()
	assert.Error(t, err)
}

func TestConfigFlagsWithoutHome(t *testing.T) {
	t.Setenv("HOME", "")
	t.Setenv(config.SyncConfigPathEnvKey, "")

	flags := ConfigFlags{Overrides: config.Overrides{RsyncBinary: "/opt/bin/rsync"}}
	cfg, err := flags.Load()
	assert.NoError(t, err)

	exp := config.Default()
	exp.RsyncBinary = "/opt/bin/rsync"
	assert.Equal(t, exp, cfg)
}
