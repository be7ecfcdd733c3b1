// Package testutil builds statement fixtures for tests: real PDFs rendered
// with gofpdf and the matching in-memory documents.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/insightdelivered/cc-statement-parser/internal/models"
)

// TB is the subset of testing.TB the fixtures need. GinkgoT satisfies it.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// PDF renders each page as one text cell per line in uncompressed
// Helvetica. Lines must be plain ASCII.
func PDF(t TB, pages ...[]string) []byte {
	t.Helper()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(false)
	pdf.SetFont("Helvetica", "", 9)
	for _, lines := range pages {
		pdf.AddPage()
		for _, l := range lines {
			pdf.CellFormat(0, 5, l, "", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("render PDF: %v", err)
	}
	return buf.Bytes()
}

// WritePDF renders pages into dir/name and returns the path.
func WritePDF(t TB, dir, name string, pages ...[]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, PDF(t, pages...), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Document builds the RawDocument an extractor would produce for pages.
func Document(pages ...[]string) *models.RawDocument {
	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = strings.Join(p, "\n")
	}
	return models.DocumentFromText("fixture", texts...)
}
