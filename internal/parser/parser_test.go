package parser

import (
	"errors"
	"testing"

	"github.com/insightdelivered/cc-statement-parser/internal/models"
	"github.com/insightdelivered/cc-statement-parser/internal/testutil"
)

func profile(id string) *models.IssuerProfile {
	return &models.IssuerProfile{ID: id, Name: id}
}

func TestNew(t *testing.T) {
	tests := []struct {
		issuer  string
		want    Extractor
		wantErr bool
	}{
		{"HDFC", &HDFCExtractor{}, false},
		{"icici", &ICICIExtractor{}, false},
		{"AXIS", &AxisExtractor{}, false},
		{"Chase", &ChaseExtractor{}, false},
		{"IDFC", &IDFCExtractor{}, false},
		{"SBI", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.issuer, func(t *testing.T) {
			x, err := New(tt.issuer)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got, want := typeName(x), typeName(tt.want); got != want {
				t.Errorf("got %s, want %s", got, want)
			}
		})
	}
}

func typeName(x Extractor) string {
	switch x.(type) {
	case *HDFCExtractor:
		return "hdfc"
	case *ICICIExtractor:
		return "icici"
	case *AxisExtractor:
		return "axis"
	case *ChaseExtractor:
		return "chase"
	case *IDFCExtractor:
		return "idfc"
	}
	return "unknown"
}

func TestExtractors_Samples(t *testing.T) {
	tests := []struct {
		issuer    string
		lines     []string
		wantRows  int
		wantTotal string
		wantStart string
		wantEnd   string
	}{
		{HDFC, testutil.HDFCStatement(), 3, "1,049.50", "16/01/2024", "15/02/2024"},
		{ICICI, testutil.ICICIStatement(), 3, "2,850.00", "February 6, 2024", "March 5, 2024"},
		{Axis, testutil.AxisStatement(), 3, "3,440.00 Dr", "12/01/2024", "11/02/2024"},
		{Chase, testutil.ChaseStatement(), 3, "1,234.56", "12/15/23", "01/14/24"},
		{IDFC, testutil.IDFCStatement(), 3, "5,620.00", "19 Jan 2024", "18 Feb 2024"},
	}

	for _, tt := range tests {
		t.Run(tt.issuer, func(t *testing.T) {
			x, err := New(tt.issuer)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			c, err := x.Extract(testutil.Document(tt.lines), profile(tt.issuer))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(c.Rows) != tt.wantRows {
				t.Fatalf("rows: got %d, want %d (%+v)", len(c.Rows), tt.wantRows, c.Rows)
			}
			if len(c.Skipped) != 0 {
				t.Errorf("skipped: got %+v, want none", c.Skipped)
			}
			if c.TotalDue != tt.wantTotal {
				t.Errorf("total due: got %q, want %q", c.TotalDue, tt.wantTotal)
			}
			if c.PeriodStart != tt.wantStart || c.PeriodEnd != tt.wantEnd {
				t.Errorf("period: got %q - %q, want %q - %q", c.PeriodStart, c.PeriodEnd, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestExtractors_Incomplete(t *testing.T) {
	drop := func(lines []string, prefix string) []string {
		var out []string
		for _, l := range lines {
			if len(l) >= len(prefix) && l[:len(prefix)] == prefix {
				continue
			}
			out = append(out, l)
		}
		return out
	}

	tests := []struct {
		name   string
		issuer string
		lines  []string
		field  string
	}{
		{"hdfc without period", HDFC, drop(testutil.HDFCStatement(), "Billing Period"), "statement period"},
		{"icici without total", ICICI, drop(testutil.ICICIStatement(), "Total Amount Due"), "total due"},
		{"axis without period", Axis, drop(testutil.AxisStatement(), "Statement Period"), "statement period"},
		{"chase without balance", Chase, drop(testutil.ChaseStatement(), "New Balance"), "total due"},
		{"idfc without period", IDFC, drop(testutil.IDFCStatement(), "Statement Period"), "statement period"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, _ := New(tt.issuer)
			_, err := x.Extract(testutil.Document(tt.lines), profile(tt.issuer))
			if !errors.Is(err, models.ErrExtractionIncomplete) {
				t.Fatalf("got %v, want ErrExtractionIncomplete", err)
			}
			var pe *models.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("got %T, want *models.ParseError", err)
			}
			if pe.Detail != "missing "+tt.field {
				t.Errorf("detail: got %q, want %q", pe.Detail, "missing "+tt.field)
			}
		})
	}
}

func TestExtractors_NoTransactions(t *testing.T) {
	lines := []string{
		"HDFC Bank Credit Cards",
		"Statement Date: 15/02/2024",
		"Billing Period: 16/01/2024 - 15/02/2024",
		"Total Dues: 0.00",
		"Minimum Amount Due: 0.00",
	}
	c, err := (&HDFCExtractor{}).Extract(testutil.Document(lines), profile(HDFC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Rows) != 0 {
		t.Errorf("rows: got %d, want 0", len(c.Rows))
	}
	if c.TotalDue != "0.00" {
		t.Errorf("total due: got %q, want %q", c.TotalDue, "0.00")
	}
}

func TestExtractors_SummaryRowsExcluded(t *testing.T) {
	tests := []struct {
		issuer string
		lines  []string
		row    string
	}{
		{HDFC, testutil.HDFCStatement(), "15/02/2024  TOTAL  1,049.50"},
		{ICICI, testutil.ICICIStatement(), "05/03/2024  TOTAL  2,850.00"},
		{Axis, testutil.AxisStatement(), "11/02/2024  SUB TOTAL  3,440.00 Dr"},
		{Chase, testutil.ChaseStatement(), "01/14  TOTAL FOR THIS PERIOD  734.56"},
		{IDFC, testutil.IDFCStatement(), "18 Feb 2024  TOTAL  5,620.00 DR"},
	}

	for _, tt := range tests {
		t.Run(tt.issuer, func(t *testing.T) {
			x, _ := New(tt.issuer)
			lines := append(tt.lines, tt.row)
			c, err := x.Extract(testutil.Document(lines), profile(tt.issuer))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(c.Rows) != 3 {
				t.Errorf("rows: got %d, want 3 (%+v)", len(c.Rows), c.Rows)
			}
			if len(c.Skipped) != 0 {
				t.Errorf("skipped: got %+v, want none", c.Skipped)
			}
		})
	}
}
