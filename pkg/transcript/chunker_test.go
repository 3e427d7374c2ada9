package transcript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSpeakerChunks_SingleSpeakerLine(t *testing.T) {
	chunks := SplitSpeakerChunks("JOHN SMITH: We are pleased with our results.")
	require.Len(t, chunks, 1)
	assert.Equal(t, "JOHN SMITH", chunks[0].SpeakerRaw)
	assert.Equal(t, "We are pleased with our results.", chunks[0].Text)
}

func TestSplitSpeakerChunks_ContinuationLines(t *testing.T) {
	text := "JOHN SMITH: Revenue grew.\nMargins improved as well.\nWe expect more growth.\nJANE DOE: Thank you John."
	chunks := SplitSpeakerChunks(text)
	require.Len(t, chunks, 2)
	assert.Equal(t, "JOHN SMITH", chunks[0].SpeakerRaw)
	assert.Equal(t, "Revenue grew.\nMargins improved as well.\nWe expect more growth.", chunks[0].Text)
	assert.Equal(t, "JANE DOE", chunks[1].SpeakerRaw)
}

func TestSplitSpeakerChunks_MixedCaseSpeaker(t *testing.T) {
	chunks := SplitSpeakerChunks("Jane Doe: Good morning everyone.")
	require.Len(t, chunks, 1)
	assert.Equal(t, "Jane Doe", chunks[0].SpeakerRaw)
	assert.Equal(t, "Good morning everyone.", chunks[0].Text)
}

func TestSplitSpeakerChunks_DashAndEmDashSeparators(t *testing.T) {
	chunks := SplitSpeakerChunks("OPERATOR - Please hold.\nJANE DOE — Thanks operator.")
	require.Len(t, chunks, 2)
	assert.Equal(t, "OPERATOR", chunks[0].SpeakerRaw)
	assert.Equal(t, "JANE DOE", chunks[1].SpeakerRaw)
}

func TestSplitSpeakerChunks_RecoversMislabeledLine(t *testing.T) {
	// No separator, but an uppercase label followed by a capitalized
	// message: the recovery heuristic splits it.
	chunks := SplitSpeakerChunks("JOHN SMITH Thank you for joining us today.")
	require.Len(t, chunks, 1)
	assert.Equal(t, "JOHN SMITH", chunks[0].SpeakerRaw)
	assert.Equal(t, "Thank you for joining us today.", chunks[0].Text)
}

func TestSplitSpeakerChunks_LeadingTextIsUnknown(t *testing.T) {
	text := "safe harbor statement applies to this call.\nJOHN SMITH: Let us begin."
	chunks := SplitSpeakerChunks(text)
	require.Len(t, chunks, 2)
	assert.Equal(t, UnknownSpeaker, chunks[0].SpeakerRaw)
	assert.Equal(t, "safe harbor statement applies to this call.", chunks[0].Text)
}

func TestSplitSpeakerChunks_NoSpeakersAtAll(t *testing.T) {
	chunks := SplitSpeakerChunks("just some text.\nand more of it.")
	require.Len(t, chunks, 1)
	assert.Equal(t, UnknownSpeaker, chunks[0].SpeakerRaw)
	assert.Equal(t, "just some text.\nand more of it.", chunks[0].Text)
}

func TestSplitSpeakerChunks_EmptyInput(t *testing.T) {
	assert.Empty(t, SplitSpeakerChunks(""))
	assert.Empty(t, SplitSpeakerChunks("\n\n  \n"))
}

func TestSplitSpeakerChunks_BlankLinesNeverSplitChunks(t *testing.T) {
	text := "JOHN SMITH: First thought.\n\n\nSecond thought."
	chunks := SplitSpeakerChunks(text)
	require.Len(t, chunks, 1)
	assert.Equal(t, "First thought.\nSecond thought.", chunks[0].Text)
}

func TestSplitSpeakerChunks_NoCharacterLoss(t *testing.T) {
	text := "preamble line\nJOHN SMITH: Revenue grew.\ncontinuation here\nOPERATOR: Next question.\n\ntrailing answer line"
	chunks := SplitSpeakerChunks(text)

	// Every non-blank input line must survive somewhere in the output.
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		assert.True(t, chunkLinesContain(chunks, line), "line %q lost", line)
	}
}

func chunkLinesContain(chunks []SpeakerChunk, line string) bool {
	for _, c := range chunks {
		if strings.Contains(c.SpeakerRaw+": "+c.Text, line) {
			return true
		}
	}
	return false
}
