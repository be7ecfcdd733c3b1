package parser

import (
	"fmt"
	"strings"

	"github.com/insightdelivered/cc-statement-parser/internal/models"
)

// Extractor captures the raw fields of one issuer's statement layout.
type Extractor interface {
	// Extract reads transaction rows and statement metadata from doc. It
	// fails with models.ErrExtractionIncomplete when the statement period or
	// total due is missing.
	Extract(doc *models.RawDocument, profile *models.IssuerProfile) (*models.RawCapture, error)
}

// Issuer IDs with a dedicated extractor.
const (
	HDFC  = "HDFC"
	ICICI = "ICICI"
	Axis  = "AXIS"
	Chase = "CHASE"
	IDFC  = "IDFC"
)

// New returns the extractor bound to an issuer ID.
func New(issuerID string) (Extractor, error) {
	switch strings.ToUpper(issuerID) {
	case HDFC:
		return &HDFCExtractor{}, nil
	case ICICI:
		return &ICICIExtractor{}, nil
	case Axis:
		return &AxisExtractor{}, nil
	case Chase:
		return &ChaseExtractor{}, nil
	case IDFC:
		return &IDFCExtractor{}, nil
	default:
		return nil, fmt.Errorf("no extractor for issuer %q", issuerID)
	}
}
