package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	for _, sub := range []string{"serve", "migrate", "seed", "version"} {
		assert.Contains(t, output, sub, "Help missing %q command", sub)
	}
}

func TestRootCommand_ConfigFlag(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantFlag string
	}{
		{
			name:     "default",
			args:     []string{"--help"},
			wantFlag: defaultConfigPath,
		},
		{
			name:     "config flag",
			args:     []string{"--config", "/etc/auth-api/config.yaml", "--help"},
			wantFlag: "/etc/auth-api/config.yaml",
		},
		{
			name:     "config flag with equals",
			args:     []string{"--config=/tmp/auth.yaml", "--help"},
			wantFlag: "/tmp/auth.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configFile = ""

			cmd := NewRootCmd()
			cmd.SetOut(new(bytes.Buffer))
			cmd.SetArgs(tt.args)

			require.NoError(t, cmd.Execute())
			assert.Equal(t, tt.wantFlag, configFile)
		})
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Version: "+version)
	assert.Contains(t, buf.String(), "Commit: "+commit)
}

func writeMemoryConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
app:
  environment: testing
database:
  driver: memory
jwt:
  secret: test-secret
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDatabaseCommands_RejectMemoryDriver(t *testing.T) {
	for _, sub := range []string{"migrate", "seed"} {
		t.Run(sub, func(t *testing.T) {
			cmd := NewRootCmd()
			cmd.SetOut(new(bytes.Buffer))
			cmd.SetErr(new(bytes.Buffer))
			cmd.SetArgs([]string{sub, "--config", writeMemoryConfig(t)})

			err := cmd.Execute()
			assert.ErrorIs(t, err, errMemoryDriver)
		})
	}
}
