package statement

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/cc-statement-parser/internal/models"
)

// mismatchPenalty scales confidence when printed totals disagree with the
// parsed rows.
var mismatchPenalty = decimal.RequireFromString("0.75")

// Assemble wraps a normalized record with its provenance. prov carries the
// issuer, profile version, extraction method, warnings and skipped rows;
// Assemble derives the confidence and the rows_skipped warning.
func Assemble(rec *models.StatementRecord, prov models.Provenance) *models.Result {
	if prov.SkippedRows == nil {
		prov.SkippedRows = []models.SkippedRow{}
	}
	warnings := make([]models.Warning, 0, len(prov.Warnings)+1)
	warnings = append(warnings, prov.Warnings...)
	if n := len(prov.SkippedRows); n > 0 {
		warnings = append(warnings, models.Warning{
			Code:    models.WarnRowsSkipped,
			Message: fmt.Sprintf("%d candidate transaction row(s) could not be parsed", n),
		})
	}
	prov.Warnings = warnings
	prov.Confidence = confidence(len(rec.Transactions), len(prov.SkippedRows), rec.TotalsMismatch)

	return &models.Result{StatementRecord: *rec, Provenance: prov}
}

// confidence is parsed/(parsed+skipped), reduced on a totals mismatch and
// rounded to two decimals. A statement with no candidate rows scores 1.
func confidence(parsed, skipped int, mismatch bool) float64 {
	c := decimal.NewFromInt(1)
	if total := parsed + skipped; total > 0 {
		c = decimal.NewFromInt(int64(parsed)).Div(decimal.NewFromInt(int64(total)))
	}
	if mismatch {
		c = c.Mul(mismatchPenalty)
	}
	return c.Round(2).InexactFloat64()
}
