package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentFullText(t *testing.T) {
	d := &Document{Pages: []string{"page one", "page two"}}
	assert.Equal(t, "page one\npage two", d.FullText())
}

func TestDocumentFirstPages(t *testing.T) {
	d := &Document{Pages: []string{"a", "b", "c"}}

	assert.Equal(t, "a\nb", d.FirstPages(2))
	assert.Equal(t, "a\nb\nc", d.FirstPages(10), "clamped to page count")
	assert.Equal(t, "", d.FirstPages(0))
	assert.Equal(t, "", d.FirstPages(-1))
}

func TestReadPDF_MissingFile(t *testing.T) {
	_, err := ReadPDF(filepath.Join(t.TempDir(), "absent.pdf"))
	require.Error(t, err)
}

func TestReadText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.txt")
	content := "OPERATOR: Welcome everyone.\fJANE DOE: Thank you."
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	doc, err := ReadText(path)
	require.NoError(t, err)
	require.Equal(t, 2, doc.PageCount())
	assert.Equal(t, "OPERATOR: Welcome everyone.", doc.Pages[0])
}

func TestReadText_SkipsBlankPages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello\f  \fworld"), 0o644))

	doc, err := ReadText(path)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.PageCount())
}

func TestReadText_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.txt")
	require.NoError(t, os.WriteFile(path, []byte("  \f "), 0o644))

	_, err := ReadText(path)
	require.Error(t, err)
}
