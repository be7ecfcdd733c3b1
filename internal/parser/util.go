package parser

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/insightdelivered/cc-statement-parser/internal/models"
)

const monthNames = `(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)[a-z]*\.?`

// Date shapes printed on statements.
var (
	// DD/MM/YYYY, MM/DD/YY and friends
	slashDate = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`)
	// 02 Jan 2024, 2-Jan-24
	textDate = regexp.MustCompile(`(?i)\b\d{1,2}[ -]` + monthNames + `[ -]\d{2,4}\b`)
	// January 2, 2024
	longDate = regexp.MustCompile(`(?i)\b` + monthNames + `\s+\d{1,2},\s*\d{4}\b`)
)

var (
	amountRe = regexp.MustCompile(`\d[\d,]*\.\d{2}\b`)
	// optional sign, optional currency, digits, optional Cr/Dr marker
	labelAmountRe = regexp.MustCompile(`([+-]?)\s*(?:Rs\.?|INR|USD|\$|₹)?\s*([+-]?)\s*\$?(\d[\d,]*(?:\.\d{1,2})?)(?:\s*(Cr|CR|Dr|DR)\b)?`)
	last4Re       = regexp.MustCompile(`(\d{4})\s*$`)
	pageFooterRe  = regexp.MustCompile(`(?i)^page\s+\d+(\s+of\s+\d+)?$`)
	// dated rows that summarise instead of record a transaction
	subtotalRe = regexp.MustCompile(`(?i)^(?:sub[\s-]?total|grand\s+total|total|(?:opening|closing|previous|new)\s+balance|balance\s+[bc]/f)\b`)
)

// forEachLine calls fn for every line with 1-based page and line numbers.
func forEachLine(doc *models.RawDocument, fn func(page, line int, text string)) {
	for _, p := range doc.Pages {
		for i, l := range p.Lines {
			fn(p.Number, i+1, strings.TrimSpace(l.Text))
		}
	}
}

// afterLabel returns the text following the first line that starts with
// one of labels (case-insensitive), with any separating colon removed.
func afterLabel(doc *models.RawDocument, labels ...string) (string, bool) {
	for _, p := range doc.Pages {
		for _, l := range p.Lines {
			text := strings.TrimSpace(l.Text)
			lower := strings.ToLower(text)
			for _, label := range labels {
				if !strings.HasPrefix(lower, strings.ToLower(label)) {
					continue
				}
				rest := strings.TrimSpace(text[len(label):])
				rest = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
				return rest, true
			}
		}
	}
	return "", false
}

// labelAmount returns the amount printed after label, keeping a leading
// minus and a trailing Cr/Dr marker, e.g. "-500.00" or "3,440.00 Dr".
func labelAmount(doc *models.RawDocument, labels ...string) string {
	rest, ok := afterLabel(doc, labels...)
	if !ok {
		return ""
	}
	m := labelAmountRe.FindStringSubmatch(rest)
	if m == nil {
		return ""
	}
	out := m[3]
	if m[1] == "-" || m[2] == "-" {
		out = "-" + out
	}
	if m[4] != "" {
		out += " " + m[4]
	}
	return out
}

// labelDate returns the first date matching re after label.
func labelDate(doc *models.RawDocument, re *regexp.Regexp, labels ...string) string {
	rest, ok := afterLabel(doc, labels...)
	if !ok {
		return ""
	}
	return re.FindString(rest)
}

// labelRange returns the first two dates matching re after label.
func labelRange(doc *models.RawDocument, re *regexp.Regexp, labels ...string) (string, string) {
	rest, ok := afterLabel(doc, labels...)
	if !ok {
		return "", ""
	}
	dates := re.FindAllString(rest, 2)
	if len(dates) < 2 {
		return "", ""
	}
	return dates[0], dates[1]
}

// cardLast4 returns the last four digits of a masked card number.
func cardLast4(doc *models.RawDocument, labels ...string) string {
	rest, ok := afterLabel(doc, labels...)
	if !ok {
		return ""
	}
	if m := last4Re.FindStringSubmatch(rest); m != nil {
		return m[1]
	}
	return ""
}

// isNoise reports page furniture and summary lines that must never be read
// as a transaction or a description continuation.
func isNoise(line string) bool {
	if pageFooterRe.MatchString(line) {
		return true
	}
	lower := strings.ToLower(line)
	for _, kw := range []string{
		"continued", "convert to emi", "end of statement", "opening balance",
		"closing balance", "total", "reward points", "transaction details",
		"transaction description", "statement",
	} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// markerDirection maps a Cr/Dr suffix to a ledger side. Anything else is a
// debit.
func markerDirection(marker string) models.Direction {
	if strings.EqualFold(marker, "cr") {
		return models.Credit
	}
	return models.Debit
}

// rowScanner accumulates rows and diagnostics while walking a document.
type rowScanner struct {
	issuer  string
	capture *models.RawCapture
	open    int // index of the row accepting continuation lines, or -1
}

func newRowScanner(issuer string, c *models.RawCapture) *rowScanner {
	return &rowScanner{issuer: issuer, capture: c, open: -1}
}

// add records a transaction row. Sub-total and balance rows that match a
// row pattern are dropped.
func (s *rowScanner) add(row models.RawRow) {
	row.Description = strings.Join(strings.Fields(row.Description), " ")
	if subtotalRe.MatchString(row.Description) {
		s.open = -1
		log.Debug().
			Str("issuer", s.issuer).
			Int("page", row.Page).
			Int("line", row.Line).
			Str("description", row.Description).
			Msg("dropped summary row")
		return
	}
	s.capture.Rows = append(s.capture.Rows, row)
	s.open = len(s.capture.Rows) - 1
}

// continueDescription appends a wrapped description line to the last row.
func (s *rowScanner) continueDescription(text string) bool {
	if s.open < 0 || isNoise(text) || amountRe.MatchString(text) {
		return false
	}
	row := &s.capture.Rows[s.open]
	row.Description += " " + strings.Join(strings.Fields(text), " ")
	return true
}

func (s *rowScanner) close() { s.open = -1 }

// skip records a candidate row that did not parse. Summary lines that merely
// start like a row are ignored instead.
func (s *rowScanner) skip(page, line int, text, reason string) {
	s.open = -1
	if isNoise(text) {
		return
	}
	s.capture.Skip(page, line, text, reason)
	log.Debug().
		Str("issuer", s.issuer).
		Int("page", page).
		Int("line", line).
		Str("text", text).
		Str("reason", reason).
		Msg("skipped row")
}

// requireStatementFields fails when the period or total due is absent.
func requireStatementFields(issuer string, c *models.RawCapture) error {
	if c.PeriodStart == "" || c.PeriodEnd == "" {
		return models.Incomplete(issuer, "statement period")
	}
	if c.TotalDue == "" {
		return models.Incomplete(issuer, "total due")
	}
	return nil
}
