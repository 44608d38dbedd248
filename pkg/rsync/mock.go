package rsync

import (
	"context"
)

// MockRunner records the commands it's asked to run instead of starting
// them.
type MockRunner struct {
	Calls []Command

	// Outputs and Errors are keyed by Command.String().
	Outputs map[string]string
	Errors  map[string]error

	// OnRun is called for every command before it's recorded. It lets tests
	// inspect the filesystem at the moment the transfer would start.
	OnRun func(cmd Command)
}

// NewMockRunner returns a MockRunner where every command succeeds without
// output.
func NewMockRunner() *MockRunner {
	return &MockRunner{
		Outputs: make(map[string]string),
		Errors:  make(map[string]error),
	}
}

// Run implements Runner.
func (m *MockRunner) Run(ctx context.Context, cmd Command) error {
	_, err := m.Output(ctx, cmd)
	return err
}

// Output implements Runner.
func (m *MockRunner) Output(_ context.Context, cmd Command) (string, error) {
	if m.OnRun != nil {
		m.OnRun(cmd)
	}
	m.Calls = append(m.Calls, cmd)
	if err, ok := m.Errors[cmd.String()]; ok {
		return "", err
	}
	return m.Outputs[cmd.String()], nil
}
