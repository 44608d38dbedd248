// Package rsync runs the rsync client on behalf of the sync. Commands are
// always built as argument vectors and never passed through a shell.
package rsync

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/yupinghuang/casadata-sync/pkg/errors"
)

// TransferFlags puts rsync in archive mode (permissions, timestamps and
// symlinks are preserved), with verbose output and compression in transit.
var TransferFlags = []string{"-avz"}

// Command is a single invocation of the rsync client.
type Command struct {
	Binary string
	Args   []string

	// Dir is the working directory of the child process.
	Dir string
}

// NewTransfer returns the command that mirrors `source` into `dir`. The
// destination is always `.`, so the transfer lands in the working directory.
func NewTransfer(binary, source, dir string) Command {
	args := append(append([]string{}, TransferFlags...), source, ".")
	return Command{Binary: binary, Args: args, Dir: dir}
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Binary}, c.Args...), " ")
}

// Runner starts a command and waits for it to exit.
type Runner interface {
	// Run attaches the command to the runner's streams.
	Run(ctx context.Context, cmd Command) error

	// Output returns what the command wrote to stdout.
	Output(ctx context.Context, cmd Command) (string, error)
}

// ExecRunner runs commands as child processes that share this process's
// standard streams.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns an ExecRunner attached to this process's standard
// streams.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run starts `cmd` and waits for it. A non-zero exit status is returned as
// an errors.ExitError with the child's status.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdin = r.Stdin
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr

	log.WithField("dir", cmd.Dir).WithField("command", cmd.String()).Debug("Starting rsync")
	return toExitError(cmd, c.Run())
}

// Output runs `cmd` and captures its stdout. Stderr still goes to the
// runner's stderr.
func (r *ExecRunner) Output(ctx context.Context, cmd Command) (string, error) {
	var stdout bytes.Buffer
	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdout = &stdout
	c.Stderr = r.Stderr

	if err := toExitError(cmd, c.Run()); err != nil {
		return "", err
	}
	return stdout.String(), nil
}

func toExitError(cmd Command, err error) error {
	if exitErr, ok := err.(*exec.ExitError); ok {
		code := exitErr.ExitCode()
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			// Report signals the way a shell does.
			code = 128 + int(status.Signal())
		} else if code < 0 {
			code = 1
		}
		return errors.ExitError{Command: cmd.Binary, Code: code}
	}
	if err != nil {
		return errors.WithContext(err, "start")
	}
	return nil
}
