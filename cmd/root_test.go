package cmd

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestRootCommand(t *testing.T) {
	root := newRootCommand()
	assert.Equal(t, "casadata-sync", root.Name())

	var names []string
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"check", "config", "version"}, names)

	for _, flag := range []string{
		"config", "environment-path", "target-path", "remote-source", "rsync-binary",
	} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}

	// The sync itself takes no arguments.
	assert.Error(t, root.Args(root, []string{"extra"}))
}

func TestSetLogLevel(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)

	tests := []struct {
		value    string
		expLevel log.Level
	}{
		{"", log.InfoLevel},
		{"false", log.InfoLevel},
		{"1", log.InfoLevel},
		{"true", log.DebugLevel},
	}

	for _, test := range tests {
		log.SetLevel(log.InfoLevel)
		t.Setenv(verboseLogKey, test.value)
		setLogLevel()
		assert.Equal(t, test.expLevel, log.GetLevel(), test.value)
	}
}
