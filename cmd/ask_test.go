package cmd

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestAskCommand_AnswersAndRecordsHistory(t *testing.T) {
	deps := newTestDeps(t)
	seedIndex(t, deps)
	deps.Embedder = &fakeEmbedder{}
	deps.Completer = &scriptedCompleter{responses: []string{"Volume growth drove the quarter."}}

	c := NewAskCommand(deps)
	c.SetArgs([]string{"What", "drove", "growth?"})
	c.SetOut(io.Discard)
	c.SetErr(io.Discard)
	require.NoError(t, c.Execute())

	out := testOutput(deps)
	require.Contains(t, out, "Volume growth drove the quarter.")
	require.Contains(t, out, "Confidence:")
	require.Contains(t, out, "Sources:")
	require.Contains(t, out, "Jane Doe")

	store, err := deps.indexStore()
	require.NoError(t, err)
	entries, err := loadHistory(store.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "What drove growth?", entries[0].Question)
	require.Equal(t, "Volume growth drove the quarter.", entries[0].Answer)
	require.NotEmpty(t, entries[0].Confidence)
}

func TestAskCommand_HistoryShowsRecentExchanges(t *testing.T) {
	deps := newTestDeps(t)
	seedIndex(t, deps)
	deps.Embedder = &fakeEmbedder{}

	store, err := deps.indexStore()
	require.NoError(t, err)
	for i := 0; i < historyShowLimit+2; i++ {
		deps.Completer = &scriptedCompleter{responses: []string{"answer"}}
		c := NewAskCommand(deps)
		c.SetArgs([]string{"question", string(rune('a' + i))})
		c.SetOut(io.Discard)
		c.SetErr(io.Discard)
		require.NoError(t, c.Execute())
		deps.Completer = nil
	}

	entries, err := loadHistory(store.Dir())
	require.NoError(t, err)
	require.Len(t, entries, historyShowLimit+2)

	deps.Out = &bytes.Buffer{}
	deps.Completer = &scriptedCompleter{}
	c := NewAskCommand(deps)
	c.SetArgs([]string{"--history"})
	c.SetOut(io.Discard)
	c.SetErr(io.Discard)
	require.NoError(t, c.Execute())

	out := testOutput(deps)
	require.NotContains(t, out, "question a")
	require.NotContains(t, out, "question b")
	require.Contains(t, out, "question c")
	require.Contains(t, out, "question g")
}

func TestAskCommand_NoIndex(t *testing.T) {
	deps := newTestDeps(t)
	deps.Embedder = &fakeEmbedder{}
	deps.Completer = &scriptedCompleter{}

	c := NewAskCommand(deps)
	c.SetArgs([]string{"anything?"})
	c.SetOut(io.Discard)
	c.SetErr(io.Discard)
	err := c.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "no transcript has been processed yet")
}

func TestAskCommand_EmptyQuestion(t *testing.T) {
	deps := newTestDeps(t)
	seedIndex(t, deps)
	deps.Embedder = &fakeEmbedder{}
	deps.Completer = &scriptedCompleter{}

	c := NewAskCommand(deps)
	c.SetArgs([]string{"   "})
	c.SetOut(io.Discard)
	c.SetErr(io.Discard)
	err := c.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "question is required")
}

func TestSnippet_KeepsRuneBoundaries(t *testing.T) {
	s := strings.Repeat("x", 3) + "é" // é is 2 bytes; byte 4 is mid-rune
	got := snippet(s, 4)
	require.Equal(t, "xxx...", got)
	require.True(t, utf8.ValidString(got))

	require.Equal(t, "a b c", snippet("a \t b\n c", 10))
}

func TestLastEntries(t *testing.T) {
	entries := []historyEntry{
		{Question: "one"},
		{Question: "two"},
		{Question: "three"},
	}
	require.Equal(t, entries, lastEntries(entries, 5))
	require.Equal(t, entries[1:], lastEntries(entries, 2))
}
