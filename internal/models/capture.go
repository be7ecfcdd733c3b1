package models

// Direction is the side of the ledger a statement row falls on.
type Direction string

const (
	Debit  Direction = "debit"
	Credit Direction = "credit"
)

// RawRow is a transaction row exactly as captured by an issuer extractor,
// before any coercion. Amount holds the magnitude text; the sign lives in
// Direction.
type RawRow struct {
	Date        string
	Description string
	Amount      string
	Direction   Direction
	Reference   string
	Category    string
	Page        int
	Line        int
}

// SkippedRow records a line that looked like a transaction but could not be
// parsed.
type SkippedRow struct {
	Page   int    `json:"page"`
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// RawCapture is the issuer-specific, pre-validation extraction of a
// statement. Empty strings mean the field was not printed.
type RawCapture struct {
	Rows    []RawRow
	Skipped []SkippedRow

	StatementDate   string
	PeriodStart     string
	PeriodEnd       string
	DueDate         string
	TotalDue        string
	MinimumDue      string
	CreditLimit     string
	PreviousBalance string
	TotalDebits     string
	TotalCredits    string
	CardNumber      string
}

// Skip appends a diagnostics entry.
func (c *RawCapture) Skip(page, line int, text, reason string) {
	c.Skipped = append(c.Skipped, SkippedRow{Page: page, Line: line, Text: text, Reason: reason})
}
