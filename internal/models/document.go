package models

import "strings"

// Line is one row of text on a page. X and Y are PDF user-space
// coordinates of the first glyph and are only meaningful when HasPosition
// is set.
type Line struct {
	Text        string  `json:"text"`
	X           float64 `json:"x,omitempty"`
	Y           float64 `json:"y,omitempty"`
	HasPosition bool    `json:"-"`
}

// Page holds the lines of a single PDF page in reading order.
type Page struct {
	Number int    `json:"number"`
	Lines  []Line `json:"lines"`
}

// RawDocument is the extracted text layer of a PDF. It is produced once by
// the extractor and treated as read-only afterwards.
type RawDocument struct {
	Pages  []Page `json:"pages"`
	Method string `json:"method"` // extraction backend that produced the text
}

// Text joins all pages, one line per row, pages separated by a blank line.
func (d *RawDocument) Text() string {
	var b strings.Builder
	for i, p := range d.Pages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		for j, l := range p.Lines {
			if j > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(l.Text)
		}
	}
	return b.String()
}

// LineCount returns the number of lines across all pages.
func (d *RawDocument) LineCount() int {
	n := 0
	for _, p := range d.Pages {
		n += len(p.Lines)
	}
	return n
}

// DocumentFromText builds a RawDocument from page texts, splitting each
// page on newlines and dropping blank lines.
func DocumentFromText(method string, pages ...string) *RawDocument {
	doc := &RawDocument{Method: method}
	for i, text := range pages {
		page := Page{Number: i + 1}
		for _, l := range strings.Split(text, "\n") {
			l = strings.TrimSpace(l)
			if l == "" {
				continue
			}
			page.Lines = append(page.Lines, Line{Text: l})
		}
		doc.Pages = append(doc.Pages, page)
	}
	return doc
}
