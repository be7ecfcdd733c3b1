package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/insightdelivered/cc-statement-parser/internal/money"
)

const dateLayout = "2006-01-02"

// Date is a calendar date without time of day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses an ISO-8601 date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) IsZero() bool { return d.Year == 0 && d.Month == 0 && d.Day == 0 }

func (d Date) Before(o Date) bool { return d.Time().Before(o.Time()) }

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Transaction is one normalized statement line. Debits are negative,
// credits positive.
type Transaction struct {
	Date        Date        `json:"date"`
	Description string      `json:"description"`
	Amount      money.Money `json:"amount"`
	Category    string      `json:"category,omitempty"`
	Reference   string      `json:"reference,omitempty"`
}

// Period is an inclusive billing cycle.
type Period struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// StatementRecord is the issuer-agnostic normalized statement.
type StatementRecord struct {
	Issuer          string        `json:"issuer"`
	StatementPeriod Period        `json:"statement_period"`
	Transactions    []Transaction `json:"transactions"`
	TotalDue        money.Money   `json:"total_due"`
	MinimumDue      money.Money   `json:"minimum_due"`
	CreditLimit     *money.Money  `json:"credit_limit,omitempty"`
	Currency        string        `json:"currency"`
	StatementDate   *Date         `json:"statement_date,omitempty"`
	DueDate         *Date         `json:"due_date,omitempty"`
	CardLast4       string        `json:"card_last4,omitempty"`
	TotalsMismatch  bool          `json:"totals_mismatch"`
}

// UnmarshalJSON decodes the record and gives every amount the record's
// currency.
func (r *StatementRecord) UnmarshalJSON(data []byte) error {
	type plain StatementRecord
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = StatementRecord(p)
	r.TotalDue = r.TotalDue.In(r.Currency)
	r.MinimumDue = r.MinimumDue.In(r.Currency)
	if r.CreditLimit != nil {
		limit := r.CreditLimit.In(r.Currency)
		r.CreditLimit = &limit
	}
	for i := range r.Transactions {
		r.Transactions[i].Amount = r.Transactions[i].Amount.In(r.Currency)
	}
	return nil
}

// Warning codes attached to a Result.
const (
	WarnTotalsMismatch    = "totals_mismatch"
	WarnMinimumDueMissing = "minimum_due_missing"
	WarnDuplicateRow      = "duplicate_row"
	WarnRowsSkipped       = "rows_skipped"
)

// Warning is a non-fatal finding about the parsed statement.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Provenance describes how a Result was produced.
type Provenance struct {
	IssuerID         string       `json:"issuer_id"`
	ProfileVersion   string       `json:"profile_version"`
	ExtractionMethod string       `json:"extraction_method"`
	Confidence       float64      `json:"confidence"`
	Warnings         []Warning    `json:"warnings"`
	SkippedRows      []SkippedRow `json:"skipped_rows"`
}

// Result is the value returned to callers of the parsing pipeline.
type Result struct {
	StatementRecord
	Provenance Provenance `json:"provenance"`
}

// UnmarshalJSON decodes the record and its provenance. The promoted record
// decoder alone would drop Provenance.
func (r *Result) UnmarshalJSON(data []byte) error {
	if err := r.StatementRecord.UnmarshalJSON(data); err != nil {
		return err
	}
	var p struct {
		Provenance Provenance `json:"provenance"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	r.Provenance = p.Provenance
	return nil
}
