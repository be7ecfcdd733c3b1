package models

// Fingerprint is the set of predicates that identify an issuer's layout.
// Substring predicates are case-insensitive; Patterns are Go regular
// expressions evaluated against the full document text.
type Fingerprint struct {
	All      []string `yaml:"all"`
	Any      []string `yaml:"any"`
	None     []string `yaml:"none"`
	Patterns []string `yaml:"patterns"`
}

// Locale describes how an issuer prints dates and numbers.
type Locale struct {
	DateLayouts        []string `yaml:"date_layouts"`
	DecimalSeparator   string   `yaml:"decimal_separator"`
	ThousandsSeparator string   `yaml:"thousands_separator"`
	Currency           string   `yaml:"currency"`
}

// IssuerProfile identifies one supported statement format. Profiles are
// loaded once into the issuer registry and never mutated.
type IssuerProfile struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Fingerprint Fingerprint `yaml:"fingerprint"`
	Locale      Locale      `yaml:"locale"`
	Aliases     []string    `yaml:"aliases"`

	// Priority is the registration order; lower wins on ties.
	Priority int `yaml:"-"`
}
