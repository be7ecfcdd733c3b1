package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/cc-statement-parser/internal/models"
)

// IDFCExtractor handles IDFC FIRST Bank credit card statements.
//
// Rows start with "22 Jan 2024" (older layouts use DD/MM/YYYY) and end
// with the INR amount and a DR/CR marker. Foreign-currency rows print the
// original amount before it, which is not part of the description:
//
//	22 Jan 2024  NETFLIX.COM LOS GATOS  USD 9.99  830.00 DR
//
// "Convert to EMI" prompts follow eligible rows.
type IDFCExtractor struct{}

var (
	idfcRow = regexp.MustCompile(
		`^(\d{1,2} [A-Za-z]{3} \d{4}|\d{2}/\d{2}/\d{4})\s+(.+?)\s+(\d[\d,]*\.\d{2})\s*(DR|CR|Dr|Cr)$`,
	)
	idfcRowStart = regexp.MustCompile(`^(?:\d{1,2} [A-Za-z]{3} \d{4}|\d{2}/\d{2}/\d{4})\s`)
	idfcFX       = regexp.MustCompile(`\s+[A-Z]{3}\s+\d[\d,]*\.\d{2}$`)
	idfcDate     = regexp.MustCompile(textDate.String() + `|` + slashDate.String())
)

func (x *IDFCExtractor) Extract(doc *models.RawDocument, profile *models.IssuerProfile) (*models.RawCapture, error) {
	c := &models.RawCapture{
		StatementDate:   labelDate(doc, idfcDate, "Statement Date"),
		DueDate:         labelDate(doc, idfcDate, "Payment Due Date"),
		TotalDue:        labelAmount(doc, "Total Amount Due"),
		MinimumDue:      labelAmount(doc, "Minimum Amount Due"),
		CreditLimit:     labelAmount(doc, "Credit Limit"),
		PreviousBalance: labelAmount(doc, "Opening Balance", "Previous Balance"),
		TotalDebits:     labelAmount(doc, "Purchases & Debits", "Purchases and Debits"),
		TotalCredits:    labelAmount(doc, "Payments & Credits", "Payments and Credits"),
		CardNumber:      cardLast4(doc, "Card Number", "Card No"),
	}
	c.PeriodStart, c.PeriodEnd = labelRange(doc, idfcDate, "Statement Period", "Billing Period")

	s := newRowScanner(profile.ID, c)
	forEachLine(doc, func(page, line int, text string) {
		if strings.EqualFold(text, "convert to emi") {
			return
		}
		if m := idfcRow.FindStringSubmatch(text); m != nil {
			s.add(models.RawRow{
				Date:        m[1],
				Description: idfcFX.ReplaceAllString(m[2], ""),
				Amount:      m[3],
				Direction:   markerDirection(m[4]),
				Page:        page,
				Line:        line,
			})
			return
		}
		if idfcRowStart.MatchString(text) {
			s.skip(page, line, text, "transaction row without DR/CR amount")
		}
	})

	if err := requireStatementFields(profile.ID, c); err != nil {
		return nil, err
	}
	return c, nil
}
