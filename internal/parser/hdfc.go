package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/cc-statement-parser/internal/models"
)

// HDFCExtractor handles HDFC Bank credit card statements.
//
// Rows are DD/MM/YYYY, optionally followed by a time, then the
// description and the amount. Credits carry a "Cr" suffix:
//
//	01/02/2024  AMAZON PAY INDIA MUMBAI  1,200.50
//	10/02/2024 14:22:10  PAYMENT RECEIVED - THANK YOU  500.00 Cr
//
// The account summary is a header row followed by five amounts:
// opening balance, payments/credits, purchases/debits, finance charges and
// total dues.
type HDFCExtractor struct{}

var (
	hdfcRow = regexp.MustCompile(
		`^(\d{2}/\d{2}/\d{4})(?:\s+\d{2}:\d{2}(?::\d{2})?)?\s+(.+?)\s+(\d[\d,]*\.\d{2})(?:\s*(Cr|CR|Dr|DR))?$`,
	)
	hdfcRowStart = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}\b`)
)

func (x *HDFCExtractor) Extract(doc *models.RawDocument, profile *models.IssuerProfile) (*models.RawCapture, error) {
	c := &models.RawCapture{
		StatementDate: labelDate(doc, slashDate, "Statement Date"),
		DueDate:       labelDate(doc, slashDate, "Payment Due Date", "Due Date"),
		TotalDue:      labelAmount(doc, "Total Dues", "Total Amount Due"),
		MinimumDue:    labelAmount(doc, "Minimum Amount Due", "Minimum Due"),
		CreditLimit:   labelAmount(doc, "Credit Limit"),
		CardNumber:    cardLast4(doc, "Card No", "Card Number"),
	}
	c.PeriodStart, c.PeriodEnd = labelRange(doc, slashDate, "Billing Period", "Statement Period")

	s := newRowScanner(profile.ID, c)
	summaryNext := false
	forEachLine(doc, func(page, line int, text string) {
		if summaryNext {
			summaryNext = false
			x.readSummary(c, text)
			return
		}
		lower := strings.ToLower(text)
		if strings.Contains(lower, "opening balance") && strings.Contains(lower, "total dues") {
			summaryNext = true
			return
		}
		if m := hdfcRow.FindStringSubmatch(text); m != nil {
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
		if hdfcRowStart.MatchString(text) {
			s.skip(page, line, text, "transaction row without amount")
		}
	})

	if err := requireStatementFields(profile.ID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// readSummary fills the opening balance and totals from the summary row.
func (x *HDFCExtractor) readSummary(c *models.RawCapture, text string) {
	amounts := amountRe.FindAllString(text, -1)
	if len(amounts) < 5 {
		return
	}
	c.PreviousBalance = amounts[0]
	c.TotalCredits = amounts[1]
	c.TotalDebits = amounts[2]
	if c.TotalDue == "" {
		c.TotalDue = amounts[4]
	}
}
