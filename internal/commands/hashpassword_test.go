package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klabast/wb-services/holiday-planner/internal/app"
	"github.com/klabast/wb-services/holiday-planner/internal/config"
)

func TestReadMasked(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		echo    string
		wantErr error
	}{
		{name: "enter", input: "abc\r", want: "abc", echo: "***\r\n"},
		{name: "backspace", input: "ab\x7fc\n", want: "ac", echo: "**\b \b*\r\n"},
		{name: "backspace on empty", input: "\x08x\r", want: "x", echo: "*\r\n"},
		{name: "control characters ignored", input: "a\x1bb\r", want: "ab", echo: "**\r\n"},
		{name: "end of input", input: "pw", want: "pw", echo: "**\n"},
		{name: "ctrl+c", input: "ab\x03cd\r", echo: "**\r\n", wantErr: errInterrupted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := readMasked(strings.NewReader(tt.input), &out)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.echo, out.String())
		})
	}
}

func TestHashPasswordCommand(t *testing.T) {
	clearEnv(t)
	authFile := filepath.Join(t.TempDir(), "auth.secret")
	t.Setenv(config.EnvAuthFile, authFile)

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader("alice\nsecret\nsecret\n"))
	cmd.SetArgs([]string{"hash-password", "--insecure-unmask-password", "--log-level", "error"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "Enter username: ")
	assert.Contains(t, out.String(), "Auth file created")

	data, err := os.ReadFile(authFile)
	require.NoError(t, err)
	user, hash, ok := strings.Cut(strings.TrimSpace(string(data)), ":")
	require.True(t, ok)
	assert.Equal(t, "alice", user)
	valid, err := app.VerifyPassword("secret", hash)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestHashPasswordCommandMismatch(t *testing.T) {
	clearEnv(t)
	authFile := filepath.Join(t.TempDir(), "auth.secret")
	t.Setenv(config.EnvAuthFile, authFile)

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader("alice\nsecret\nother\n"))
	cmd.SetArgs([]string{"hash-password", "--insecure-unmask-password", "--log-level", "error"})
	assert.ErrorContains(t, cmd.Execute(), "passwords do not match")

	assert.NoFileExists(t, authFile)
}
