package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/cc-statement-parser/internal/models"
)

// Backend turns PDF bytes into pages of text lines.
type Backend interface {
	Name() string
	Pages(data []byte) ([]models.Page, error)
}

// Extractor runs its backends in order and keeps the first readable result.
type Extractor struct {
	backends []Backend
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithBackend appends a backend after the built-in ones.
func WithBackend(b Backend) Option {
	return func(e *Extractor) {
		e.backends = append(e.backends, b)
	}
}

// New returns an Extractor using the ledongthuc/pdf methods (rows, content
// objects, plain text) followed by the raw content-stream scanner.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		backends: []Backend{
			rowBackend{},
			contentBackend{},
			plainTextBackend{},
			rawBackend{},
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultExtractor = New()

// Extract reads data with the default backend chain.
func Extract(ctx context.Context, data []byte) (*models.RawDocument, error) {
	return defaultExtractor.Extract(ctx, data)
}

// ExtractFile reads the PDF at path with the default backend chain.
func ExtractFile(ctx context.Context, path string) (*models.RawDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Extract(ctx, data)
}

// Extract returns the text layer of data. It fails with
// models.ErrUnreadableDocument when data is not a PDF or no backend
// produces readable text.
func (e *Extractor) Extract(ctx context.Context, data []byte) (*models.RawDocument, error) {
	logger := zerolog.Ctx(ctx)

	if !hasPDFHeader(data) {
		return nil, models.Unreadable("input is not a PDF", nil)
	}

	var lastErr error
	for _, b := range e.backends {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pages, err := safePages(b, data)
		if err != nil {
			logger.Debug().Err(err).Str("method", b.Name()).Msg("extraction method failed")
			lastErr = err
			continue
		}
		pages = cleanPages(pages)
		if collapsed(pages) {
			logger.Debug().Str("method", b.Name()).Msg("extraction method lost the line structure")
			continue
		}
		if !isReadable(pages) {
			logger.Debug().Str("method", b.Name()).Int("chars", textLen(pages)).Msg("extraction method produced no readable text")
			continue
		}
		logger.Debug().Str("method", b.Name()).Int("pages", len(pages)).Msg("text extracted")
		return &models.RawDocument{Pages: pages, Method: b.Name()}, nil
	}

	if lastErr != nil {
		return nil, models.Unreadable("no readable text layer", lastErr)
	}
	return nil, models.Unreadable("no readable text layer; the file may be an image-only scan", nil)
}

func hasPDFHeader(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.Contains(head, []byte("%PDF-"))
}

// safePages guards against panics inside PDF decoders on malformed input.
func safePages(b Backend, data []byte) (pages []models.Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("%s: decoder crashed: %v", b.Name(), r)
		}
	}()
	return b.Pages(data)
}

func openReader(data []byte) (*pdf.Reader, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	if r.NumPage() == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}
	return r, nil
}

// rowBackend uses GetTextByRow, which keeps each row's Y position.
type rowBackend struct{}

func (rowBackend) Name() string { return "pdf-rows" }

func (rowBackend) Pages(data []byte) ([]models.Page, error) {
	r, err := openReader(data)
	if err != nil {
		return nil, err
	}
	var pages []models.Page
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		rows, err := p.GetTextByRow()
		if err != nil {
			continue
		}
		if positionsLost(rows) {
			return nil, fmt.Errorf("page %d: text positions not tracked", i)
		}
		page := models.Page{Number: i}
		for _, row := range rows {
			if len(row.Content) == 0 {
				continue
			}
			parts := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			page.Lines = append(page.Lines, models.Line{
				Text:        strings.Join(parts, " "),
				X:           row.Content[0].X,
				Y:           float64(row.Position),
				HasPosition: true,
			})
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// positionsLost reports rows that GetTextByRow could not place. It only
// follows Tm, so content positioned with Td alone lands at the origin as a
// single row.
func positionsLost(rows pdf.Rows) bool {
	n := 0
	for _, row := range rows {
		for _, t := range row.Content {
			if t.X != 0 || t.Y != 0 || row.Position != 0 {
				return false
			}
			n++
		}
	}
	return n > 1
}

// contentBackend rebuilds rows from raw text objects grouped by Y.
type contentBackend struct{}

func (contentBackend) Name() string { return "pdf-content" }

func (contentBackend) Pages(data []byte) ([]models.Page, error) {
	r, err := openReader(data)
	if err != nil {
		return nil, err
	}
	type item struct {
		x, w, size float64
		s          string
	}
	var pages []models.Page
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content := p.Content()
		if len(content.Text) == 0 {
			continue
		}

		rows := make(map[int][]item)
		for _, t := range content.Text {
			y := int(math.Round(t.Y))
			rows[y] = append(rows[y], item{x: t.X, w: t.W, size: t.FontSize, s: t.S})
		}
		ys := make([]int, 0, len(rows))
		for y := range rows {
			ys = append(ys, y)
		}
		// PDF Y grows upwards.
		sort.Sort(sort.Reverse(sort.IntSlice(ys)))

		page := models.Page{Number: i}
		for _, y := range ys {
			items := rows[y]
			sort.SliceStable(items, func(a, b int) bool { return items[a].x < items[b].x })
			text := joinGlyphs(items, func(it item) (float64, float64, float64, string) {
				return it.x, it.w, it.size, it.s
			})
			if strings.TrimSpace(text) == "" {
				continue
			}
			page.Lines = append(page.Lines, models.Line{
				Text:        text,
				X:           items[0].x,
				Y:           float64(y),
				HasPosition: true,
			})
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// joinGlyphs concatenates the glyphs of one row in X order. Space glyphs are
// kept; a horizontal gap between glyphs becomes one space, or two when it
// looks like a column break.
func joinGlyphs[T any](items []T, glyph func(T) (x, w, size float64, s string)) string {
	var b strings.Builder
	var end float64
	lastSpace := true
	for j, it := range items {
		x, w, size, s := glyph(it)
		if j > 0 && !lastSpace && s != " " {
			if size <= 0 {
				size = 10
			}
			switch gap := x - end; {
			case gap > 15:
				b.WriteString("  ")
			case gap > 0.25*size:
				b.WriteByte(' ')
			}
		}
		b.WriteString(s)
		end = x + w
		lastSpace = strings.HasSuffix(s, " ")
	}
	return b.String()
}

// plainTextBackend uses per-page GetPlainText with the page's font map,
// falling back to the whole-document reader.
type plainTextBackend struct{}

func (plainTextBackend) Name() string { return "pdf-plain" }

func (plainTextBackend) Pages(data []byte) ([]models.Page, error) {
	r, err := openReader(data)
	if err != nil {
		return nil, err
	}
	var pages []models.Page
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		fonts := make(map[string]*pdf.Font)
		for _, name := range p.Fonts() {
			f := p.Font(name)
			fonts[name] = &f
		}
		text, err := p.GetPlainText(fonts)
		if err != nil {
			continue
		}
		pages = append(pages, textPage(i, text))
	}
	if textLen(pages) > 0 {
		return pages, nil
	}

	rd, err := r.GetPlainText()
	if err != nil {
		return nil, err
	}
	all, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}
	return []models.Page{textPage(1, string(all))}, nil
}

func textPage(number int, text string) models.Page {
	page := models.Page{Number: number}
	for _, l := range strings.Split(text, "\n") {
		page.Lines = append(page.Lines, models.Line{Text: l})
	}
	return page
}
