// Package money holds statement amounts as integer minor units of an
// ISO-4217 currency. Values are immutable; arithmetic returns new values.
package money

import (
	"errors"
	"fmt"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const (
	INR = "INR"
	USD = "USD"
)

// ErrCurrencyMismatch is returned when combining amounts of different
// currencies.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// Money is a fixed-scale amount. The zero value is a currency-less zero.
type Money struct {
	m *gomoney.Money
}

// New creates Money from minor units (paise, cents).
func New(minor int64, currency string) Money {
	return Money{m: gomoney.New(minor, strings.ToUpper(currency))}
}

// Zero returns a zero amount in currency.
func Zero(currency string) Money {
	return New(0, currency)
}

// Fraction returns the number of minor-unit digits of currency, defaulting
// to 2 for codes go-money does not know.
func Fraction(currency string) int {
	if c := gomoney.GetCurrency(strings.ToUpper(currency)); c != nil {
		return c.Fraction
	}
	return 2
}

// FromDecimal rounds d to the currency's minor units.
func FromDecimal(d decimal.Decimal, currency string) Money {
	minor := d.Shift(int32(Fraction(currency))).Round(0).IntPart()
	return New(minor, currency)
}

// Parse reads a plain numeric string such as "1,50,000.00" or "1.234,56"
// using the given separators. A leading '-' or surrounding parentheses make
// the value negative.
func Parse(s, currency, decimalSep, thousandsSep string) (Money, error) {
	raw := s
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if strings.HasPrefix(s, "-") {
		neg = !neg
		s = strings.TrimSpace(s[1:])
	} else if strings.HasPrefix(s, "+") {
		s = strings.TrimSpace(s[1:])
	}
	if thousandsSep != "" {
		s = strings.ReplaceAll(s, thousandsSep, "")
	}
	if decimalSep != "" && decimalSep != "." {
		s = strings.ReplaceAll(s, decimalSep, ".")
	}
	if s == "" {
		return Money{}, fmt.Errorf("invalid amount %q: empty", raw)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if neg {
		d = d.Neg()
	}
	return FromDecimal(d, currency), nil
}

// Amount returns the value in minor units.
func (m Money) Amount() int64 {
	if m.m == nil {
		return 0
	}
	return m.m.Amount()
}

// Currency returns the ISO-4217 code, or "" for the zero value.
func (m Money) Currency() string {
	if m.m == nil {
		return ""
	}
	return m.m.Currency().Code
}

func (m Money) IsZero() bool     { return m.Amount() == 0 }
func (m Money) IsNegative() bool { return m.Amount() < 0 }
func (m Money) IsPositive() bool { return m.Amount() > 0 }

// Neg flips the sign.
func (m Money) Neg() Money {
	if m.m == nil {
		return m
	}
	return New(-m.m.Amount(), m.Currency())
}

// Abs returns the magnitude.
func (m Money) Abs() Money {
	if m.m == nil {
		return m
	}
	return Money{m: m.m.Absolute()}
}

// Add sums two amounts. A currency-less zero adopts the other currency.
func (m Money) Add(o Money) (Money, error) {
	switch {
	case m.m == nil:
		return o, nil
	case o.m == nil:
		return m, nil
	}
	sum, err := m.m.Add(o.m)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %s + %s", ErrCurrencyMismatch, m.Currency(), o.Currency())
	}
	return Money{m: sum}, nil
}

// Sub returns m - o.
func (m Money) Sub(o Money) (Money, error) {
	return m.Add(o.Neg())
}

// Equal compares value and currency. Two zero amounts are equal regardless
// of currency.
func (m Money) Equal(o Money) bool {
	if m.IsZero() && o.IsZero() {
		return true
	}
	return m.Amount() == o.Amount() && m.Currency() == o.Currency()
}

// Decimal converts to a decimal in major units.
func (m Money) Decimal() decimal.Decimal {
	if m.m == nil {
		return decimal.Zero
	}
	return decimal.New(m.m.Amount(), -int32(Fraction(m.Currency())))
}

// String formats the amount at the currency's scale, e.g. "-1200.50".
func (m Money) String() string {
	return m.Decimal().StringFixed(int32(Fraction(m.Currency())))
}

// Display formats with the currency symbol, e.g. "$1,234.56".
func (m Money) Display() string {
	if m.m == nil {
		return "0.00"
	}
	return m.m.Display()
}

// MarshalJSON writes the amount as a fixed-scale JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// In re-expresses the amount in currency at that currency's scale. Decoded
// amounts carry no currency until the enclosing record assigns one.
func (m Money) In(currency string) Money {
	return FromDecimal(m.Decimal(), currency)
}

// UnmarshalJSON reads a JSON number. The currency is not part of the
// encoding: the value is decoded at a two-digit scale without a code, and
// records restore the currency with In.
func (m *Money) UnmarshalJSON(data []byte) error {
	d, err := decimal.NewFromString(strings.Trim(string(data), `"`))
	if err != nil {
		return fmt.Errorf("invalid amount %s: %w", data, err)
	}
	*m = FromDecimal(d, "")
	return nil
}
