package writer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/insightdelivered/cc-statement-parser/internal/models"
)

// CSVWriter writes transactions to CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

type csvRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Type        string `csv:"Type"`
	Amount      string `csv:"Amount"`
	Category    string `csv:"Category"`
	Reference   string `csv:"Reference"`
}

func (w *CSVWriter) Ext() string { return ".csv" }

// Write writes transactions in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, res *models.Result) error {
	// Write metadata as comments (CSV header rows)
	if w.IncludeHeader {
		meta := csv.NewWriter(out)
		rows := [][]string{
			{"# Issuer", res.Issuer},
			{"# Statement Period", res.StatementPeriod.Start.String() + " to " + res.StatementPeriod.End.String()},
			{"# Currency", res.Currency},
			{"# Total Due", res.TotalDue.String()},
			{"# Minimum Due", res.MinimumDue.String()},
		}
		if res.CardLast4 != "" {
			rows = append(rows, []string{"# Card", "XXXX " + res.CardLast4})
		}
		if res.DueDate != nil {
			rows = append(rows, []string{"# Due Date", res.DueDate.String()})
		}
		if res.TotalsMismatch {
			rows = append(rows, []string{"# Totals Mismatch", "true"})
		}
		if err := meta.WriteAll(rows); err != nil {
			return fmt.Errorf("failed to write CSV metadata: %w", err)
		}
	}

	rows := make([]*csvRow, 0, len(res.Transactions))
	for _, txn := range res.Transactions {
		typ := "DEBIT"
		if !txn.Amount.IsNegative() {
			typ = "CREDIT"
		}
		rows = append(rows, &csvRow{
			Date:        txn.Date.String(),
			Description: txn.Description,
			Type:        typ,
			Amount:      txn.Amount.String(),
			Category:    txn.Category,
			Reference:   txn.Reference,
		})
	}

	if len(rows) == 0 {
		// gocsv cannot infer a header from an empty slice
		header := csv.NewWriter(out)
		if err := header.WriteAll([][]string{{"Date", "Description", "Type", "Amount", "Category", "Reference"}}); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
		return nil
	}
	if err := gocsv.Marshal(rows, out); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}
