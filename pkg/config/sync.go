package config

import (
	"os"
	"path/filepath"

	"github.com/ghodss/yaml"
	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/yupinghuang/casadata-sync/pkg/errors"
)

const (
	// DefaultEnvironmentPath is the conda environment that the CASA data is
	// installed into. Nothing is synced unless it exists.
	DefaultEnvironmentPath = "/opt/devel/pipeline/envs/deployment"

	// DefaultTargetPath is where casadata looks for its data repository
	// inside the deployment environment.
	DefaultTargetPath = DefaultEnvironmentPath +
		"/lib/python3.8/site-packages/casadata/__data__"

	// DefaultRemoteSource is the NRAO rsync daemon module that serves the
	// CASA data repository.
	DefaultRemoteSource = "rsync://casa-rsync.nrao.edu/casa-data"

	// DefaultRsyncBinary is resolved against $PATH when the transfer starts.
	DefaultRsyncBinary = "rsync"

	// SyncConfigPath is the default path to the optional sync config.
	SyncConfigPath = "~/.casadata-sync.yaml"

	// SyncConfigPathEnvKey overrides SyncConfigPath when set.
	SyncConfigPathEnvKey = "CASADATA_SYNC_CONFIG"

	// InitialSyncConfigVersion is the first version of the sync config.
	// Config files that do not specify a version will default to this
	// version.
	InitialSyncConfigVersion = "v1alpha1"

	// SupportedSyncConfigVersion is the supported version of the sync config
	// of the current binary.
	SupportedSyncConfigVersion = "v1alpha1"
)

// Sync contains the paths and remote used by a sync.
type Sync struct {
	Version         string `json:"version,omitempty"`
	EnvironmentPath string `json:"environmentPath" validate:"required,abspath"`
	TargetPath      string `json:"targetPath" validate:"required,abspath"`
	RemoteSource    string `json:"remoteSource" validate:"required,rsyncsource"`
	RsyncBinary     string `json:"rsyncBinary" validate:"required"`
}

func (c Sync) getVersion() string {
	return c.Version
}

// Default returns the fixed deployment that is synced when no config file
// or flags are given.
func Default() Sync {
	return Sync{
		Version:         InitialSyncConfigVersion,
		EnvironmentPath: DefaultEnvironmentPath,
		TargetPath:      DefaultTargetPath,
		RemoteSource:    DefaultRemoteSource,
		RsyncBinary:     DefaultRsyncBinary,
	}
}

// Overrides are values set on the command line. Empty fields leave the
// config untouched.
type Overrides struct {
	EnvironmentPath string
	TargetPath      string
	RemoteSource    string
	RsyncBinary     string
}

// Apply returns a copy of `cfg` with the non-empty overrides set, and
// validates the result.
func (o Overrides) Apply(cfg Sync) (Sync, error) {
	if o.EnvironmentPath != "" {
		cfg.EnvironmentPath = o.EnvironmentPath
	}
	if o.TargetPath != "" {
		cfg.TargetPath = o.TargetPath
	}
	if o.RemoteSource != "" {
		cfg.RemoteSource = o.RemoteSource
	}
	if o.RsyncBinary != "" {
		cfg.RsyncBinary = o.RsyncBinary
	}

	cfg, err := expandPaths(cfg)
	if err != nil {
		return Sync{}, err
	}

	if err := Validate(cfg, "command line flags"); err != nil {
		return Sync{}, err
	}
	return cfg, nil
}

// ParseSync parses the sync config at `path`. A missing file is not an
// error: the defaults are returned.
func ParseSync(path string) (Sync, error) {
	config := Default()
	if err := parseConfig(path, &config, SupportedSyncConfigVersion); err != nil {
		if _, ok := err.(errors.FileNotFound); ok {
			log.WithField("path", path).Debug("No sync config found. Using defaults.")
			return Default(), nil
		}
		return Sync{}, errors.WithContext(err, "parse")
	}

	config, err := expandPaths(config)
	if err != nil {
		return Sync{}, err
	}

	if err := Validate(config, path); err != nil {
		return Sync{}, err
	}
	return config, nil
}

// WriteSync writes `cfg` to `path`, so that later syncs use it without any
// flags.
func WriteSync(path string, cfg Sync) error {
	cfg.Version = SupportedSyncConfigVersion
	if err := Validate(cfg, "the config to write"); err != nil {
		return err
	}

	yamlBytes, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WithContext(err, "marshal")
	}

	if err := afero.WriteFile(fs, path, yamlBytes, 0644); err != nil {
		return errors.WithContext(err, "write")
	}
	return nil
}

// ErrUnknownHome is returned by GetSyncConfigPath when no path was set
// explicitly and $HOME is empty, so the default path cannot be resolved.
var ErrUnknownHome = errors.New("$HOME is not set")

// GetSyncConfigPath returns the expanded path to the sync config, honoring
// the environment override. The default path is only resolved from $HOME,
// so no processes are started to look up the home directory.
func GetSyncConfigPath() (string, error) {
	if fromEnv := os.Getenv(SyncConfigPathEnvKey); fromEnv != "" {
		return homedirExpand(fromEnv)
	}
	if os.Getenv("HOME") == "" {
		return "", ErrUnknownHome
	}
	return homedirExpand(SyncConfigPath)
}

// homedirExpand will be overridden in mock tests
var homedirExpand = homedir.Expand

func expandPaths(cfg Sync) (Sync, error) {
	var err error
	cfg.EnvironmentPath, err = homedirExpand(cfg.EnvironmentPath)
	if err != nil {
		return Sync{}, errors.WithContext(err, "expand environment path")
	}

	cfg.TargetPath, err = homedirExpand(cfg.TargetPath)
	if err != nil {
		return Sync{}, errors.WithContext(err, "expand target path")
	}

	if cfg.EnvironmentPath != "" {
		cfg.EnvironmentPath = filepath.Clean(cfg.EnvironmentPath)
	}
	if cfg.TargetPath != "" {
		cfg.TargetPath = filepath.Clean(cfg.TargetPath)
	}
	return cfg, nil
}
