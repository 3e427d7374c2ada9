package cmd

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClearCommand_RemovesIndexAndHistory(t *testing.T) {
	deps := newTestDeps(t)
	seedIndex(t, deps)

	store, err := deps.indexStore()
	require.NoError(t, err)
	require.NoError(t, appendHistory(store.Dir(), historyEntry{
		Question: "q", Answer: "a", Confidence: "High", AskedAt: time.Now(),
	}))

	c := NewClearCommand(deps)
	c.SetArgs([]string{})
	c.SetOut(io.Discard)
	c.SetErr(io.Discard)
	require.NoError(t, c.Execute())

	require.Contains(t, testOutput(deps), "Index cleared.")
	require.False(t, store.Exists())

	_, err = os.Stat(historyPath(store.Dir()))
	require.True(t, os.IsNotExist(err))
}

func TestClearCommand_NothingToClear(t *testing.T) {
	deps := newTestDeps(t)

	c := NewClearCommand(deps)
	c.SetArgs([]string{})
	c.SetOut(io.Discard)
	c.SetErr(io.Discard)
	require.NoError(t, c.Execute())

	require.Contains(t, testOutput(deps), "No index to clear.")
}
