// Package normalize turns an issuer's raw capture into the issuer-agnostic
// StatementRecord: typed dates, signed money, deduplicated rows and a
// cross-check of the printed totals.
package normalize

import (
	"fmt"

	"github.com/insightdelivered/cc-statement-parser/internal/models"
	"github.com/insightdelivered/cc-statement-parser/internal/money"
)

// Normalize converts c using the locale of p. It never mutates c, so the
// same capture always yields the same record and warnings.
func Normalize(c *models.RawCapture, p *models.IssuerProfile) (*models.StatementRecord, []models.Warning, error) {
	n := &normalizer{profile: p, currency: p.Locale.Currency}

	rec := &models.StatementRecord{
		Issuer:       p.Name,
		Currency:     n.currency,
		CardLast4:    c.CardNumber,
		Transactions: make([]models.Transaction, 0, len(c.Rows)),
	}

	var err error
	if rec.StatementPeriod.Start, err = n.date("statement period start", c.PeriodStart); err != nil {
		return nil, nil, err
	}
	if rec.StatementPeriod.End, err = n.date("statement period end", c.PeriodEnd); err != nil {
		return nil, nil, err
	}
	if rec.StatementPeriod.End.Before(rec.StatementPeriod.Start) {
		return nil, nil, models.Unnormalizable(p.ID, "statement period", c.PeriodStart+" - "+c.PeriodEnd,
			fmt.Errorf("period ends before it starts"))
	}
	if rec.StatementDate, err = n.optionalDate("statement date", c.StatementDate); err != nil {
		return nil, nil, err
	}
	if rec.DueDate, err = n.optionalDate("due date", c.DueDate); err != nil {
		return nil, nil, err
	}

	if rec.TotalDue, err = n.balance("total due", c.TotalDue); err != nil {
		return nil, nil, err
	}
	if c.MinimumDue == "" {
		rec.MinimumDue = money.Zero(n.currency)
		n.warn(models.WarnMinimumDueMissing, "minimum due not printed on statement, reported as zero")
	} else if rec.MinimumDue, err = n.balance("minimum due", c.MinimumDue); err != nil {
		return nil, nil, err
	}
	if c.CreditLimit != "" {
		limit, err := n.magnitude("credit limit", c.CreditLimit)
		if err != nil {
			return nil, nil, err
		}
		rec.CreditLimit = &limit
	}

	seen := make(map[string]int)
	for _, row := range c.Rows {
		if row.Reference != "" {
			if first, dup := seen[row.Reference]; dup {
				n.warn(models.WarnDuplicateRow, fmt.Sprintf(
					"row on page %d line %d repeats reference %s from transaction %d, dropped",
					row.Page, row.Line, row.Reference, first+1))
				continue
			}
			seen[row.Reference] = len(rec.Transactions)
		}
		txn, err := n.transaction(row)
		if err != nil {
			return nil, nil, err
		}
		rec.Transactions = append(rec.Transactions, txn)
	}

	if err := n.crossCheck(c, rec); err != nil {
		return nil, nil, err
	}
	rec.TotalsMismatch = n.mismatched
	return rec, n.warnings, nil
}

type normalizer struct {
	profile  *models.IssuerProfile
	currency string

	warnings   []models.Warning
	mismatched bool
}

func (n *normalizer) warn(code, msg string) {
	n.warnings = append(n.warnings, models.Warning{Code: code, Message: msg})
}

func (n *normalizer) transaction(row models.RawRow) (models.Transaction, error) {
	d, err := n.date("transaction date", row.Date)
	if err != nil {
		return models.Transaction{}, err
	}
	amt, err := n.magnitude("transaction amount", row.Amount)
	if err != nil {
		return models.Transaction{}, err
	}
	if row.Direction != models.Credit {
		amt = amt.Neg()
	}
	return models.Transaction{
		Date:        d,
		Description: row.Description,
		Amount:      amt,
		Category:    row.Category,
		Reference:   row.Reference,
	}, nil
}

// crossCheck compares the printed totals with the parsed rows. Differences
// are reported as warnings, never as errors.
func (n *normalizer) crossCheck(c *models.RawCapture, rec *models.StatementRecord) error {
	debits, credits, net := money.Zero(n.currency), money.Zero(n.currency), money.Zero(n.currency)
	for _, t := range rec.Transactions {
		var err error
		if t.Amount.IsNegative() {
			debits, err = debits.Add(t.Amount.Abs())
		} else {
			credits, err = credits.Add(t.Amount)
		}
		if err != nil {
			return models.Unnormalizable(n.profile.ID, "transaction amount", t.Amount.String(), err)
		}
		if net, err = net.Add(t.Amount); err != nil {
			return models.Unnormalizable(n.profile.ID, "transaction amount", t.Amount.String(), err)
		}
	}

	if c.TotalDebits != "" {
		want, err := n.magnitude("total debits", c.TotalDebits)
		if err != nil {
			return err
		}
		if !want.Equal(debits) {
			n.mismatch(fmt.Sprintf("printed debits %s, parsed debits %s", want, debits))
		}
	}
	if c.TotalCredits != "" {
		want, err := n.magnitude("total credits", c.TotalCredits)
		if err != nil {
			return err
		}
		if !want.Equal(credits) {
			n.mismatch(fmt.Sprintf("printed credits %s, parsed credits %s", want, credits))
		}
	}
	if c.PreviousBalance != "" {
		prev, err := n.balance("previous balance", c.PreviousBalance)
		if err != nil {
			return err
		}
		got, err := prev.Sub(net)
		if err != nil {
			return models.Unnormalizable(n.profile.ID, "previous balance", c.PreviousBalance, err)
		}
		if !got.Equal(rec.TotalDue) {
			n.mismatch(fmt.Sprintf("previous balance %s less net activity %s is %s, printed total due %s",
				prev, net, got, rec.TotalDue))
		}
	}
	return nil
}

func (n *normalizer) mismatch(msg string) {
	n.mismatched = true
	n.warn(models.WarnTotalsMismatch, msg)
}
