package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/insightdelivered/cc-statement-parser/internal/models"
)

// ChaseExtractor handles Chase (JPMorgan Chase) card statements.
//
// Activity rows print only MM/DD; the year comes from the
// "Opening/Closing Date" billing period, which may span a new year.
// Amounts are signed: purchases are positive and payments or credits
// negative.
//
//	12/20  Payment Thank You-Mobile  -500.00
//	12/28  AMAZON MKTPL*AB12CD34 Amzn.com/bill WA  34.56
//
// Section headings (PAYMENTS AND OTHER CREDITS, PURCHASE, FEES CHARGED)
// and year-to-date totals are not transactions.
type ChaseExtractor struct{}

var (
	chaseRow      = regexp.MustCompile(`^(\d{2}/\d{2})\s+(.+?)\s+(-?\$?\d[\d,]*\.\d{2})$`)
	chaseRowStart = regexp.MustCompile(`^\d{2}/\d{2}\s`)
)

var chasePeriodLayouts = []string{"01/02/06", "01/02/2006"}

func (x *ChaseExtractor) Extract(doc *models.RawDocument, profile *models.IssuerProfile) (*models.RawCapture, error) {
	c := &models.RawCapture{
		DueDate:         labelDate(doc, slashDate, "Payment Due Date"),
		TotalDue:        labelAmount(doc, "New Balance"),
		MinimumDue:      labelAmount(doc, "Minimum Payment Due"),
		CreditLimit:     labelAmount(doc, "Credit Access Line", "Credit Limit"),
		PreviousBalance: labelAmount(doc, "Previous Balance"),
		TotalCredits:    labelAmount(doc, "Payment, Credits", "Payments, Credits"),
		CardNumber:      cardLast4(doc, "Account Number", "Account number"),
	}
	c.PeriodStart, c.PeriodEnd = labelRange(doc, slashDate, "Opening/Closing Date", "Statement Period")
	c.StatementDate = c.PeriodEnd

	end, endErr := parseChaseDate(c.PeriodEnd)

	s := newRowScanner(profile.ID, c)
	forEachLine(doc, func(page, line int, text string) {
		m := chaseRow.FindStringSubmatch(text)
		if m == nil {
			if chaseRowStart.MatchString(text) {
				s.skip(page, line, text, "activity row without amount")
			}
			return
		}
		if endErr != nil {
			s.skip(page, line, text, "billing period unknown, cannot date row")
			return
		}
		date, err := withYear(m[1], end)
		if err != nil {
			s.skip(page, line, text, err.Error())
			return
		}
		amount := strings.TrimPrefix(m[3], "-")
		dir := models.Debit
		if amount != m[3] {
			dir = models.Credit
		}
		s.add(models.RawRow{
			Date:        date,
			Description: m[2],
			Amount:      strings.TrimPrefix(amount, "$"),
			Direction:   dir,
			Page:        page,
			Line:        line,
		})
	})

	if err := requireStatementFields(profile.ID, c); err != nil {
		return nil, err
	}
	return c, nil
}

func parseChaseDate(s string) (time.Time, error) {
	for _, layout := range chasePeriodLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// withYear expands MM/DD into MM/DD/YYYY, choosing the latest year that
// does not put the date after the closing date.
func withYear(mmdd string, closing time.Time) (string, error) {
	t, err := time.Parse("01/02", mmdd)
	if err != nil {
		return "", fmt.Errorf("unparseable activity date %q", mmdd)
	}
	year := closing.Year()
	d := time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if d.After(closing) {
		year--
	}
	return fmt.Sprintf("%s/%04d", mmdd, year), nil
}
