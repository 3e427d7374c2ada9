// Package extract pulls plain text out of transcript PDFs. Extraction is
// per page so callers can limit themselves to the front matter (company
// name, call date) without paying for the whole document.
package extract

import (
	"fmt"
	"io"
	"os"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// Document is the extracted text of one transcript, one entry per page.
// Pages that failed to decode are simply absent.
type Document struct {
	Pages []string
}

// FullText joins every page with a newline.
func (d *Document) FullText() string {
	return strings.Join(d.Pages, "\n")
}

// FirstPages joins the first n pages. When the document is shorter than n
// it returns everything.
func (d *Document) FirstPages(n int) string {
	if n > len(d.Pages) {
		n = len(d.Pages)
	}
	if n <= 0 {
		return ""
	}
	return strings.Join(d.Pages[:n], "\n")
}

// PageCount returns the number of pages that decoded successfully.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// ReadPDF extracts text from the PDF at path. Pages that fail to decode
// are skipped; an error is returned only when the file itself cannot be
// opened or yields no text at all.
func ReadPDF(path string) (*Document, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	doc := &Document{}
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		doc.Pages = append(doc.Pages, text)
	}

	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("pdf %s: no extractable text", path)
	}
	return doc, nil
}

// ReadPDFFrom extracts text from a PDF supplied as a stream.
// ledongthuc/pdf requires a ReadSeeker plus size, so the stream is
// spooled to a temp file first.
func ReadPDFFrom(r io.Reader) (*Document, error) {
	tmp, err := os.CreateTemp("", "eca-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	return ReadPDF(tmpPath)
}

// ReadText loads a plain-text transcript, used for the bundled demo file.
// Form feeds mark page boundaries; a file without them is one page.
func ReadText(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript %s: %w", path, err)
	}
	doc := &Document{}
	for _, page := range strings.Split(string(raw), "\f") {
		if strings.TrimSpace(page) == "" {
			continue
		}
		doc.Pages = append(doc.Pages, page)
	}
	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("transcript %s: empty", path)
	}
	return doc, nil
}
