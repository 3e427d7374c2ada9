package transcript

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCompany_LegalSuffix(t *testing.T) {
	text := "Earnings Call Transcript\nLaurus Labs Limited\nQ2 FY24"
	assert.Equal(t, "Laurus Labs Limited", ExtractCompany(text))
}

func TestExtractCompany_AllUppercaseLine(t *testing.T) {
	text := "transcript of call\nACME HOLDINGS\nmoderated by operator"
	assert.Equal(t, "ACME HOLDINGS", ExtractCompany(text))
}

func TestExtractCompany_FallsBackToFirstNonEmptyLine(t *testing.T) {
	text := "\n\nSecond Quarter Results\nmore text"
	assert.Equal(t, "Second Quarter Results", ExtractCompany(text))
}

func TestExtractCompany_EmptyInput(t *testing.T) {
	assert.Equal(t, UnknownCompany, ExtractCompany("\n \n"))
}

func TestExtractDate_MonthName(t *testing.T) {
	d, ok := ExtractDate("The call was held on July 27, 2023 at 4 PM ET")
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, time.July, 27, 0, 0, 0, 0, time.UTC), d)
}

func TestExtractDate_MonthNamePreferredOverNumeric(t *testing.T) {
	d, ok := ExtractDate("Recorded 01/02/2020. Held on March 5, 2021.")
	require.True(t, ok)
	assert.Equal(t, time.March, d.Month())
}

func TestExtractDate_NumericFallback(t *testing.T) {
	d, ok := ExtractDate("call recorded 7/27/23")
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, time.July, 27, 0, 0, 0, 0, time.UTC), d)
}

func TestExtractDate_UnparseableMatchIsSwallowed(t *testing.T) {
	// 13/45/2023 matches the numeric shape but is not a real date; that is
	// "no date found", not an error.
	_, ok := ExtractDate("see 13/45/2023 for details")
	assert.False(t, ok)
}

func TestExtractDate_NoDate(t *testing.T) {
	_, ok := ExtractDate("no dates here")
	assert.False(t, ok)
}

func TestExtractParticipants_NameBeforeComma(t *testing.T) {
	text := "Management:\nJane Doe, Chief Executive Officer\nJohn Smith, CFO and Head of Strategy\n"
	got := ExtractParticipants(text)
	require.Len(t, got, 2)

	assert.Equal(t, "Jane Doe", got[0].Name)
	assert.Equal(t, "Chief Executive Officer", got[0].Title)
	assert.Equal(t, "Jane Doe, Chief Executive Officer", got[0].FullLine)

	// "CFO" is listed before "Head of" in the vocabulary, so it wins even
	// though both appear on the line.
	assert.Equal(t, "John Smith", got[1].Name)
	assert.Equal(t, "CFO", got[1].Title)
}

func TestExtractParticipants_OneParticipantPerLine(t *testing.T) {
	got := ExtractParticipants("Jane Doe, CEO, President and Chairman")
	require.Len(t, got, 1)
	assert.Equal(t, "CEO", got[0].Title)
}

func TestExtractParticipants_NoTitlesMeansEmpty(t *testing.T) {
	assert.Empty(t, ExtractParticipants("Safe harbor statement.\nForward looking disclaimer."))
}

func TestExtractParticipants_WordBoundary(t *testing.T) {
	// "PRESIDENTIAL" must not match the "President" title.
	assert.Empty(t, ExtractParticipants("PRESIDENTIAL SUITE BOOKINGS ROSE"))
}
