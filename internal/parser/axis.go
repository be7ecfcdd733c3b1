package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/cc-statement-parser/internal/models"
)

// AxisExtractor handles Axis Bank credit card statements.
//
// Columns are separated by runs of spaces: date, transaction details,
// merchant category and an amount that always carries Dr or Cr. Long
// details wrap onto the following line:
//
//	14/01/2024  UBER INDIA SYSTEMS PVT  TRAVEL  450.00 Dr
//	LTD BANGALORE
//
// Statement totals also carry Dr/Cr; "End of Statement" closes the table.
type AxisExtractor struct{}

var (
	axisRow = regexp.MustCompile(
		`^(\d{2}/\d{2}/\d{4})\s+(.+?)\s{2,}([A-Z][A-Z0-9 &/.-]*?)\s{2,}(\d[\d,]*\.\d{2})\s*(Dr|Cr|DR|CR)$`,
	)
	axisRowNoCategory = regexp.MustCompile(
		`^(\d{2}/\d{2}/\d{4})\s+(.+?)\s+(\d[\d,]*\.\d{2})\s*(Dr|Cr|DR|CR)$`,
	)
	axisRowStart = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}\s`)
)

func (x *AxisExtractor) Extract(doc *models.RawDocument, profile *models.IssuerProfile) (*models.RawCapture, error) {
	c := &models.RawCapture{
		StatementDate:   labelDate(doc, slashDate, "Statement Generation Date", "Statement Date"),
		DueDate:         labelDate(doc, slashDate, "Payment Due Date"),
		TotalDue:        labelAmount(doc, "Total Payment Due", "Total Amount Due"),
		MinimumDue:      labelAmount(doc, "Minimum Payment Due", "Minimum Amount Due"),
		CreditLimit:     labelAmount(doc, "Credit Limit"),
		PreviousBalance: labelAmount(doc, "Previous Balance"),
		CardNumber:      cardLast4(doc, "Card No", "Card Number"),
	}
	c.PeriodStart, c.PeriodEnd = labelRange(doc, slashDate, "Statement Period", "Billing Period")

	s := newRowScanner(profile.ID, c)
	done := false
	forEachLine(doc, func(page, line int, text string) {
		if done {
			return
		}
		if strings.Contains(strings.ToLower(text), "end of statement") {
			done = true
			return
		}
		if m := axisRow.FindStringSubmatch(text); m != nil {
			s.add(models.RawRow{
				Date:        m[1],
				Description: m[2],
				Category:    titleCase(m[3]),
				Amount:      m[4],
				Direction:   markerDirection(m[5]),
				Page:        page,
				Line:        line,
			})
			return
		}
		if m := axisRowNoCategory.FindStringSubmatch(text); m != nil {
			s.add(models.RawRow{
				Date:        m[1],
				Description: m[2],
				Amount:      m[3],
				Direction:   markerDirection(m[4]),
				Page:        page,
				Line:        line,
			})
			return
		}
		if axisRowStart.MatchString(text) {
			s.skip(page, line, text, "transaction row without Dr/Cr amount")
			return
		}
		if !s.continueDescription(text) {
			s.close()
		}
	})

	if err := requireStatementFields(profile.ID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// titleCase turns "GROCERY" into "Grocery" and "FUEL & AUTO" into
// "Fuel & Auto".
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
