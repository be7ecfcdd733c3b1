// Package statement runs the parsing pipeline: text extraction, issuer
// detection, per-issuer extraction, normalization and result assembly.
package statement

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/insightdelivered/cc-statement-parser/internal/categorize"
	"github.com/insightdelivered/cc-statement-parser/internal/extractor"
	"github.com/insightdelivered/cc-statement-parser/internal/issuer"
	"github.com/insightdelivered/cc-statement-parser/internal/models"
	"github.com/insightdelivered/cc-statement-parser/internal/normalize"
)

// Observer is notified once per parse with its outcome. err is nil on
// success; issuerID is empty when detection did not complete.
type Observer interface {
	ObserveParse(issuerID string, transactions int, elapsed time.Duration, err error)
}

// Parser converts statement PDFs into Results. It holds only read-only
// state and is safe for concurrent use.
type Parser struct {
	registry    *issuer.Registry
	categorizer *categorize.Engine
	extractor   *extractor.Extractor
	observer    Observer
}

// Option configures a Parser.
type Option func(*Parser)

// WithExtractor replaces the default text extraction chain.
func WithExtractor(e *extractor.Extractor) Option {
	return func(p *Parser) { p.extractor = e }
}

// WithObserver reports every parse to o.
func WithObserver(o Observer) Option {
	return func(p *Parser) { p.observer = o }
}

// New returns a Parser. categorizer may be nil to leave categories as the
// issuer printed them.
func New(registry *issuer.Registry, categorizer *categorize.Engine, opts ...Option) *Parser {
	p := &Parser{
		registry:    registry,
		categorizer: categorizer,
		extractor:   extractor.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Default returns the process-wide Parser built from the embedded issuer
// profiles and category rules.
var Default = sync.OnceValues(func() (*Parser, error) {
	reg, err := issuer.Default()
	if err != nil {
		return nil, err
	}
	cat, err := categorize.Default()
	if err != nil {
		return nil, err
	}
	return New(reg, cat), nil
})

// ParseStatement parses the PDF at path with the default Parser.
func ParseStatement(ctx context.Context, path string) (*models.Result, error) {
	p, err := Default()
	if err != nil {
		return nil, err
	}
	return p.ParseFile(ctx, path)
}

// Registry returns the issuer registry the Parser detects against.
func (p *Parser) Registry() *issuer.Registry { return p.registry }

// ParseFile reads and parses the PDF at path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*models.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, models.Unreadable("cannot read "+path, err)
	}
	return p.ParseBytes(ctx, data)
}

// ParseBytes parses an in-memory PDF, detecting the issuer from its text.
func (p *Parser) ParseBytes(ctx context.Context, data []byte) (*models.Result, error) {
	return p.parse(ctx, data, "")
}

// ParseBytesAs parses an in-memory PDF as a statement of the given issuer,
// skipping detection. The hint may be an id, a name or an alias.
func (p *Parser) ParseBytesAs(ctx context.Context, data []byte, issuerID string) (*models.Result, error) {
	if issuerID == "" {
		return p.ParseBytes(ctx, data)
	}
	return p.parse(ctx, data, issuerID)
}

func (p *Parser) parse(ctx context.Context, data []byte, hint string) (res *models.Result, err error) {
	start := time.Now()
	issuerID := ""
	if p.observer != nil {
		defer func() {
			n := 0
			if res != nil {
				n = len(res.Transactions)
			}
			p.observer.ObserveParse(issuerID, n, time.Since(start), err)
		}()
	}
	logger := zerolog.Ctx(ctx)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := p.extractor.Extract(ctx, data)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var profile *models.IssuerProfile
	if hint != "" {
		profile, err = p.registry.Lookup(hint)
	} else {
		profile, err = p.registry.Detect(doc)
	}
	if err != nil {
		return nil, err
	}
	issuerID = profile.ID
	logger.Debug().Str("issuer", profile.ID).Bool("forced", hint != "").Msg("issuer selected")

	x, err := p.registry.Extractor(profile.ID)
	if err != nil {
		return nil, err
	}
	capture, err := x.Extract(doc, profile)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rec, warnings, err := normalize.Normalize(capture, profile)
	if err != nil {
		return nil, err
	}
	if p.categorizer != nil {
		p.categorizer.Apply(rec.Transactions)
	}

	res = Assemble(rec, models.Provenance{
		IssuerID:         profile.ID,
		ProfileVersion:   p.registry.Version(),
		ExtractionMethod: doc.Method,
		Warnings:         warnings,
		SkippedRows:      capture.Skipped,
	})
	logger.Debug().
		Str("issuer", profile.ID).
		Int("transactions", len(res.Transactions)).
		Int("skipped", len(res.Provenance.SkippedRows)).
		Float64("confidence", res.Provenance.Confidence).
		Msg("statement parsed")
	return res, nil
}
