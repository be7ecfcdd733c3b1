// Package fitz provides a MuPDF text backend for the extractor. It needs
// cgo and is wired only by the command, so library tests do not link it.
package fitz

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/insightdelivered/cc-statement-parser/internal/models"
)

// Backend extracts page text with MuPDF.
type Backend struct{}

func (Backend) Name() string { return "mupdf" }

func (Backend) Pages(data []byte) ([]models.Page, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	pages := make([]models.Page, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		page := models.Page{Number: i + 1}
		for _, l := range strings.Split(text, "\n") {
			page.Lines = append(page.Lines, models.Line{Text: l})
		}
		pages = append(pages, page)
	}
	return pages, nil
}
