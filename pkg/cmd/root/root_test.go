package root

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Paintersrp/scriptura/internal/config"
	"github.com/Paintersrp/scriptura/internal/state"
)

func testState(t *testing.T) *state.State {
	home := t.TempDir()
	return &state.State{Config: config.Default(home), Logger: zap.NewNop(), Home: home}
}

func TestRootRegistersCommands(t *testing.T) {
	cmd, err := NewCmdRoot(testState(t))
	require.NoError(t, err)

	for _, name := range []string{"search", "admin", "upload", "config", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}

	for _, name := range []string{"list", "edit", "delete"} {
		sub, _, err := cmd.Find([]string{"admin", name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}

	assert.NotNil(t, cmd.PersistentFlags().Lookup("api-url"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
}

func TestVersionSkipsConnect(t *testing.T) {
	s := testState(t)
	cmd, err := NewCmdRoot(s)
	require.NoError(t, err)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "scriptura 0.1.0\n", out.String())
	assert.Nil(t, s.Client)
}

func TestConfigShowRunsWithoutClient(t *testing.T) {
	s := testState(t)
	cmd, err := NewCmdRoot(s)
	require.NoError(t, err)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "show", "theme"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "dracula\n", out.String())
	assert.Nil(t, s.Client)
}
