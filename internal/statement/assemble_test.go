package statement

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/cc-statement-parser/internal/models"
)

func TestConfidence(t *testing.T) {
	tests := []struct {
		name     string
		parsed   int
		skipped  int
		mismatch bool
		want     float64
	}{
		{"clean", 10, 0, false, 1},
		{"no rows", 0, 0, false, 1},
		{"one skipped", 3, 1, false, 0.75},
		{"thirds", 2, 1, false, 0.67},
		{"mismatch", 4, 0, true, 0.75},
		{"mismatch and skipped", 3, 1, true, 0.56},
		{"all skipped", 0, 2, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, confidence(tt.parsed, tt.skipped, tt.mismatch))
		})
	}
}

func TestAssemble(t *testing.T) {
	rec := &models.StatementRecord{Issuer: "Axis", Transactions: []models.Transaction{}}
	res := Assemble(rec, models.Provenance{
		IssuerID:         "AXIS",
		ProfileVersion:   "v1",
		ExtractionMethod: "fixture",
		SkippedRows:      []models.SkippedRow{{Page: 1, Line: 4, Text: "01/01/2024 ???", Reason: "bad"}},
	})

	assert.Equal(t, "Axis", res.Issuer)
	assert.Equal(t, 0.0, res.Provenance.Confidence)
	require.Len(t, res.Provenance.Warnings, 1)
	assert.Equal(t, models.WarnRowsSkipped, res.Provenance.Warnings[0].Code)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"issuer":"Axis"`)
	assert.Contains(t, string(b), `"provenance":{"issuer_id":"AXIS"`)
}

func TestAssemble_EmptySlices(t *testing.T) {
	res := Assemble(&models.StatementRecord{}, models.Provenance{})

	b, err := json.Marshal(res.Provenance)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"warnings":[]`)
	assert.Contains(t, string(b), `"skipped_rows":[]`)
}
