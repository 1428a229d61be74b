package cli

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandTree(t *testing.T) {
	root := NewRootCmd()

	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	assert.Equal(t, "serve", serve.Name())
	assert.NotNil(t, serve.Flags().Lookup("addr"))
	assert.NotNil(t, serve.Flags().Lookup("session-ttl"))

	play, _, err := root.Find([]string{"play"})
	require.NoError(t, err)
	assert.Equal(t, "play", play.Name())
	mode := play.Flags().Lookup("mode")
	require.NotNil(t, mode)
	assert.Equal(t, "computer", mode.DefValue)

	for _, name := range []string{"skill", "think-delay", "log-level", "log-format"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), name)
	}
}

func TestRootRejectsInvalidSkill(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"play", "--skill", "2"})
	root.SilenceErrors = true

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "skill")
}

func TestPlayRejectsUnknownMode(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"play", "--mode", "robot"})
	root.SilenceErrors = true

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "robot")
}

func TestNewSelectorUsesConfiguredSkill(t *testing.T) {
	sel, err := newSelector(&Config{Skill: 0.25})
	require.NoError(t, err)
	assert.Equal(t, 0.25, sel.Skill())

	_, err = newSelector(&Config{Skill: 3})
	assert.Error(t, err)
}

func TestServeStopsWhenContextEnds(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"serve", "--addr", "127.0.0.1:0", "--think-delay", "0s", "--log-level", "error"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, root.ExecuteContext(ctx))
}

func TestServeFailsOnBoundAddress(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	root := NewRootCmd()
	root.SetArgs([]string{"serve", "--addr", taken.Addr().String(), "--log-level", "error"})
	root.SilenceErrors = true

	err = root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server error")
}
