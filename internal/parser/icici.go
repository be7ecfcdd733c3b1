package parser

import (
	"regexp"

	"github.com/insightdelivered/cc-statement-parser/internal/models"
)

// ICICIExtractor handles ICICI Bank credit card statements.
//
// Header dates are long form ("March 5, 2024"); rows use DD/MM/YYYY and
// carry a serial number, the description, reward points and the amount.
// Credits end with "CR":
//
//	07/02/2024  8812345671  FLIPKART INTERNET BANGALORE  25  2,500.00
//	20/02/2024  8812345673  BBPS PAYMENT RECEIVED  0  1,000.00 CR
//
// Rows printed without the reward-points column are accepted too.
type ICICIExtractor struct{}

var (
	iciciRow = regexp.MustCompile(
		`^(\d{2}/\d{2}/\d{4})\s+(\d{6,})\s+(.+?)(?:\s+(-?\d+))?\s+(\d[\d,]*\.\d{2})(?:\s*(CR|Cr|DR|Dr))?$`,
	)
	iciciRowStart = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}\s`)
	// either a long header date or a slash date
	iciciDate = regexp.MustCompile(longDate.String() + `|` + slashDate.String())
)

func (x *ICICIExtractor) Extract(doc *models.RawDocument, profile *models.IssuerProfile) (*models.RawCapture, error) {
	c := &models.RawCapture{
		StatementDate:   labelDate(doc, iciciDate, "Statement Date"),
		DueDate:         labelDate(doc, iciciDate, "Payment Due Date", "Due Date"),
		TotalDue:        labelAmount(doc, "Total Amount Due", "Total Amount due", "Total Dues"),
		MinimumDue:      labelAmount(doc, "Minimum Amount Due", "Minimum Amount due"),
		CreditLimit:     labelAmount(doc, "Credit Limit"),
		PreviousBalance: labelAmount(doc, "Previous Balance", "Previous Statement Dues"),
		TotalCredits:    labelAmount(doc, "Payments/Credits", "Payments / Credits"),
		TotalDebits:     labelAmount(doc, "Purchases/Charges", "Purchases / Charges"),
		CardNumber:      cardLast4(doc, "Card Number", "Card No"),
	}
	c.PeriodStart, c.PeriodEnd = labelRange(doc, iciciDate, "Statement Period", "Billing Period")

	s := newRowScanner(profile.ID, c)
	forEachLine(doc, func(page, line int, text string) {
		if m := iciciRow.FindStringSubmatch(text); m != nil {
			s.add(models.RawRow{
				Date:        m[1],
				Reference:   m[2],
				Description: m[3],
				Amount:      m[5],
				Direction:   markerDirection(m[6]),
				Page:        page,
				Line:        line,
			})
			return
		}
		if iciciRowStart.MatchString(text) {
			s.skip(page, line, text, "transaction row does not match SerNo/amount layout")
		}
	})

	if err := requireStatementFields(profile.ID, c); err != nil {
		return nil, err
	}
	return c, nil
}
