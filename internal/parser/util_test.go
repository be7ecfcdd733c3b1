package parser

import (
	"testing"

	"github.com/insightdelivered/cc-statement-parser/internal/models"
	"github.com/insightdelivered/cc-statement-parser/internal/testutil"
)

func TestLabelAmount(t *testing.T) {
	tests := []struct {
		line     string
		expected string
	}{
		{"Total Dues: 1,049.50", "1,049.50"},
		{"Total Dues: Rs. 2,850.00", "2,850.00"},
		{"Total Dues INR 5,620.00", "5,620.00"},
		{"Total Dues: 3,440.00 Dr", "3,440.00 Dr"},
		{"Total Dues: 120.00 Cr", "120.00 Cr"},
		{"Total Dues -$500.00", "-500.00"},
		{"Total Dues $1,234.56", "1,234.56"},
		{"Total Dues: $5,000", "5,000"},
		{"Total Dues:", ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			doc := testutil.Document([]string{"header", tt.line})
			got := labelAmount(doc, "Total Dues")
			if got != tt.expected {
				t.Errorf("labelAmount(%q): got %q, want %q", tt.line, got, tt.expected)
			}
		})
	}
}

func TestLabelAmount_Missing(t *testing.T) {
	doc := testutil.Document([]string{"Minimum Amount Due: 100.00"})
	if got := labelAmount(doc, "Total Dues"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestLabelRange(t *testing.T) {
	tests := []struct {
		line      string
		start     string
		end       string
	}{
		{"Statement Period: 16/01/2024 - 15/02/2024", "16/01/2024", "15/02/2024"},
		{"Statement Period : 19 Jan 2024 to 18 Feb 2024", "19 Jan 2024", "18 Feb 2024"},
		{"Statement Period: 16/01/2024", "", ""},
	}

	re := idfcDate
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			start, end := labelRange(testutil.Document([]string{tt.line}), re, "Statement Period")
			if start != tt.start || end != tt.end {
				t.Errorf("got %q - %q, want %q - %q", start, end, tt.start, tt.end)
			}
		})
	}
}

func TestCardLast4(t *testing.T) {
	tests := []struct {
		line     string
		expected string
	}{
		{"Card No: 4375 XXXX XXXX 1234", "1234"},
		{"Card No: 4315XXXXXXXX5678", "5678"},
		{"Card No: XXXX", ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := cardLast4(testutil.Document([]string{tt.line}), "Card No")
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestIsNoise(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"Page 2 of 3", true},
		{"page 4", true},
		{"Convert to EMI", true},
		{"Opening Balance 0.00", true},
		{"**** End of Statement ****", true},
		{"LTD BANGALORE", false},
		{"AMAZON PAY INDIA", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := isNoise(tt.input); got != tt.expected {
				t.Errorf("isNoise(%q): got %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMarkerDirection(t *testing.T) {
	tests := []struct {
		marker   string
		expected models.Direction
	}{
		{"Cr", models.Credit},
		{"CR", models.Credit},
		{"Dr", models.Debit},
		{"", models.Debit},
	}

	for _, tt := range tests {
		t.Run(tt.marker, func(t *testing.T) {
			if got := markerDirection(tt.marker); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRowScanner_Continuation(t *testing.T) {
	c := &models.RawCapture{}
	s := newRowScanner("AXIS", c)

	if s.continueDescription("orphan line") {
		t.Error("continuation accepted with no open row")
	}

	s.add(models.RawRow{Description: "UBER   INDIA"})
	if !s.continueDescription("LTD  BANGALORE") {
		t.Fatal("continuation rejected")
	}
	if s.continueDescription("Total Payment Due 100.00") {
		t.Error("summary line accepted as continuation")
	}
	if got, want := c.Rows[0].Description, "UBER INDIA LTD BANGALORE"; got != want {
		t.Errorf("description: got %q, want %q", got, want)
	}

	s.skip(1, 9, "01/02/2024 broken", "bad row")
	if s.continueDescription("more text") {
		t.Error("continuation accepted after skip")
	}
	if len(c.Skipped) != 1 || c.Skipped[0].Line != 9 {
		t.Errorf("skipped: got %+v", c.Skipped)
	}
}

func TestRowScanner_DropsSummaryRows(t *testing.T) {
	tests := []struct {
		description string
		kept        bool
	}{
		{"TOTAL", false},
		{"Total for this period", false},
		{"SUB TOTAL", false},
		{"Sub-Total", false},
		{"Grand Total", false},
		{"Opening Balance", false},
		{"NEW BALANCE", false},
		{"Balance B/F", false},
		{"TOTALENERGIES FUEL STATION PUNE", true},
		{"AMAZON PAY INDIA MUMBAI", true},
		{"PAYMENT RECEIVED - THANK YOU", true},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			c := &models.RawCapture{}
			s := newRowScanner("HDFC", c)
			s.add(models.RawRow{Date: "15/02/2024", Description: tt.description, Amount: "1,049.50"})
			if got := len(c.Rows) == 1; got != tt.kept {
				t.Errorf("kept = %v, want %v", got, tt.kept)
			}
			if !tt.kept && s.continueDescription("TRAILING TEXT") {
				t.Error("continuation accepted after a summary row")
			}
		})
	}
}
