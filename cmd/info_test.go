package cmd

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vishwa0198/earnings-call-analyzer/pkg/index"
)

func TestInfoCommand(t *testing.T) {
	deps := newTestDeps(t)
	seedIndex(t, deps)

	c := NewInfoCommand(deps)
	c.SetArgs([]string{})
	c.SetOut(io.Discard)
	c.SetErr(io.Discard)
	require.NoError(t, c.Execute())

	out := testOutput(deps)
	require.Contains(t, out, "Acme Corp")
	require.Contains(t, out, "2024-05-14")
	require.Contains(t, out, "3 units")
	require.Contains(t, out, "opening_remarks")
	require.Contains(t, out, "qa")
	require.Contains(t, out, "Jane Doe")
	require.Contains(t, out, "RAVI KUMAR")
}

func TestInfoCommand_NoIndex(t *testing.T) {
	deps := newTestDeps(t)

	c := NewInfoCommand(deps)
	c.SetArgs([]string{})
	c.SetOut(io.Discard)
	c.SetErr(io.Discard)
	err := c.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "no transcript has been processed yet")
}

func TestCollectSectionStats(t *testing.T) {
	units := []index.Unit{
		{Content: strings.Repeat("a", 400), Metadata: map[string]string{index.MetaSection: "opening_remarks"}},
		{Content: strings.Repeat("b", 250), Metadata: map[string]string{index.MetaSection: "opening_remarks"}},
		{Content: strings.Repeat("c", 100), Metadata: map[string]string{index.MetaSection: "qa"}},
	}

	stats := collectSectionStats(units)
	require.Len(t, stats, 2)

	require.Equal(t, "opening_remarks", stats[0].Section)
	require.Equal(t, 2, stats[0].Chunks)
	require.Equal(t, 650, stats[0].Chars)
	require.Equal(t, 3, stats[0].EstimatedMinutes)

	require.Equal(t, "qa", stats[1].Section)
	require.Equal(t, 1, stats[1].Chunks)
	require.Equal(t, 100, stats[1].Chars)
	require.Equal(t, 0, stats[1].EstimatedMinutes)
}

func TestCollectSpeakerStats_SortsByChunkCount(t *testing.T) {
	units := []index.Unit{
		{Metadata: map[string]string{index.MetaSpeakerName: "A", index.MetaRole: "management"}},
		{Metadata: map[string]string{index.MetaSpeakerName: "B", index.MetaRole: "investor"}},
		{Metadata: map[string]string{index.MetaSpeakerName: "B", index.MetaRole: "investor"}},
	}

	stats := collectSpeakerStats(units)
	require.Len(t, stats, 2)
	require.Equal(t, "B", stats[0].Name)
	require.Equal(t, 2, stats[0].Chunks)
	require.Equal(t, "A", stats[1].Name)
}
