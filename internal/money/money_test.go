package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in        string
		dec, thou string
		want      int64
	}{
		{"1,200.50", ".", ",", 120050},
		{"1,50,000.00", ".", ",", 15000000},
		{"349", ".", ",", 34900},
		{"-500.00", ".", ",", -50000},
		{"(42.10)", ".", ",", -4210},
		{"1.234,56", ",", ".", 123456},
		{"0.005", ".", ",", 1},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := Parse(tt.in, INR, tt.dec, tt.thou)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Amount())
			assert.Equal(t, INR, m.Currency())
		})
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "abc", "12..3", "-"} {
		_, err := Parse(in, USD, ".", ",")
		assert.Error(t, err, "input %q", in)
	}
}

func TestArithmetic(t *testing.T) {
	a := New(120050, INR)
	b := New(-34900, INR)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(85150), sum.Amount())

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, int64(154950), diff.Amount())

	assert.Equal(t, int64(34900), b.Abs().Amount())
	assert.Equal(t, int64(-120050), a.Neg().Amount())
	assert.Equal(t, int64(34900), b.Neg().Amount())
	assert.Equal(t, INR, b.Neg().Currency())

	// previous balance minus a net credit
	owed, err := New(0, INR).Sub(New(-104950, INR))
	require.NoError(t, err)
	assert.Equal(t, "1049.50", owed.String())

	_, err = a.Add(New(1, USD))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	var zero Money
	got, err := zero.Add(a)
	require.NoError(t, err)
	assert.True(t, got.Equal(a))
}

func TestStringAndJSON(t *testing.T) {
	m := New(-120050, INR)
	assert.Equal(t, "-1200.50", m.String())

	out, err := json.Marshal(struct {
		Amount Money `json:"amount"`
	}{m})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":-1200.50}`, string(out))

	var back Money
	require.NoError(t, json.Unmarshal([]byte("-1200.50"), &back))
	assert.Equal(t, int64(-120050), back.Amount())
	assert.Equal(t, "", back.Currency())

	inr := back.In(INR)
	assert.Equal(t, INR, inr.Currency())
	assert.Equal(t, int64(-120050), inr.Amount())
	assert.Equal(t, int64(-1200), back.In("JPY").Amount())

	assert.Equal(t, "0.00", Money{}.String())
}

func TestFromDecimalRoundsToMinorUnits(t *testing.T) {
	m := FromDecimal(decimal.RequireFromString("10.125"), USD)
	assert.Equal(t, int64(1013), m.Amount())
	assert.Equal(t, 2, Fraction("XYZ"))
}
