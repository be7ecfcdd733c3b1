package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/insightdelivered/cc-statement-parser/internal/models"
	"github.com/insightdelivered/cc-statement-parser/internal/money"
)

var errEmpty = errors.New("empty value")

var (
	currencyRe = regexp.MustCompile(`(?i)₹|\brs\.?|\binr\b|\busd\b|\$`)
	// balance-side marker printed after an amount
	markerRe = regexp.MustCompile(`(?i)\s*(cr|dr)\.?$`)
)

// amount strips currency symbols and a trailing Cr/Dr marker, then parses
// the rest with the profile's separators.
func (n *normalizer) amount(field, raw string) (money.Money, string, error) {
	s := currencyRe.ReplaceAllString(raw, "")
	marker := ""
	if m := markerRe.FindStringSubmatch(s); m != nil {
		marker = strings.ToLower(m[1])
		s = s[:len(s)-len(m[0])]
	}
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return money.Money{}, "", models.Unnormalizable(n.profile.ID, field, raw, errEmpty)
	}
	loc := n.profile.Locale
	m, err := money.Parse(s, n.currency, loc.DecimalSeparator, loc.ThousandsSeparator)
	if err != nil {
		return money.Money{}, "", models.Unnormalizable(n.profile.ID, field, raw, err)
	}
	return m, marker, nil
}

// magnitude parses an amount whose sign is decided elsewhere.
func (n *normalizer) magnitude(field, raw string) (money.Money, error) {
	m, _, err := n.amount(field, raw)
	if err != nil {
		return money.Money{}, err
	}
	return m.Abs(), nil
}

// balance parses an amount owed to the issuer. A Cr marker means the
// cardholder is in credit and makes the value negative.
func (n *normalizer) balance(field, raw string) (money.Money, error) {
	m, marker, err := n.amount(field, raw)
	if err != nil {
		return money.Money{}, err
	}
	switch marker {
	case "cr":
		return m.Abs().Neg(), nil
	case "dr":
		return m.Abs(), nil
	}
	return m, nil
}

var monthFixer = strings.NewReplacer("Sept ", "Sep ", "Sept,", "Sep,", ".", "")

// date parses raw with the first matching profile layout. Upper-case month
// names ("02 JAN 2024") are accepted.
func (n *normalizer) date(field, raw string) (models.Date, error) {
	s := strings.Join(strings.Fields(raw), " ")
	if s == "" {
		return models.Date{}, models.Unnormalizable(n.profile.ID, field, raw, errEmpty)
	}
	candidates := []string{s}
	if t := monthFixer.Replace(cases.Title(language.English).String(s)); t != s {
		candidates = append(candidates, t)
	}
	for _, c := range candidates {
		for _, layout := range n.profile.Locale.DateLayouts {
			if t, err := time.Parse(layout, c); err == nil {
				return models.DateOf(t), nil
			}
		}
	}
	return models.Date{}, models.Unnormalizable(n.profile.ID, field, raw,
		fmt.Errorf("no layout of %q matches", n.profile.Locale.DateLayouts))
}

func (n *normalizer) optionalDate(field, raw string) (*models.Date, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	d, err := n.date(field, raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
