package rsync

import (
	"context"
	"regexp"

	goversion "github.com/hashicorp/go-version"

	"github.com/yupinghuang/casadata-sync/pkg/errors"
)

// MinimumVersion is the oldest client known to talk to the CASA rsync
// daemon without protocol warnings.
var MinimumVersion = goversion.Must(goversion.NewVersion("3.0.0"))

// Matches both `rsync  version 3.2.7  protocol version 31` and
// `rsync  version v3.4.1  protocol version 32`.
var versionPattern = regexp.MustCompile(`(?m)^\S*rsync\s+version\s+v?(\d+(?:\.\d+)*\S*)`)

// ProbeVersion asks the client at `binary` for its version.
func ProbeVersion(ctx context.Context, r Runner, binary string) (*goversion.Version, error) {
	out, err := r.Output(ctx, Command{Binary: binary, Args: []string{"--version"}})
	if err != nil {
		return nil, errors.WithContext(err, "run")
	}
	return ParseVersion(out)
}

// ParseVersion extracts the client version from `rsync --version` output.
func ParseVersion(output string) (*goversion.Version, error) {
	match := versionPattern.FindStringSubmatch(output)
	if match == nil {
		return nil, errors.New("no version found in rsync output")
	}

	v, err := goversion.NewVersion(match[1])
	if err != nil {
		return nil, errors.WithContext(err, "parse version")
	}
	return v, nil
}
