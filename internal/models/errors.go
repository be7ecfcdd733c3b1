package models

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every fatal pipeline error matches exactly one of these with
// errors.Is.
var (
	ErrUnreadableDocument   = errors.New("unreadable document")
	ErrUnsupportedIssuer    = errors.New("unsupported issuer")
	ErrExtractionIncomplete = errors.New("extraction incomplete")
	ErrNormalization        = errors.New("normalization failed")
)

// ParseError carries the stage and issuer context of a fatal error.
type ParseError struct {
	Kind   error
	Stage  string
	Issuer string
	Detail string
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	if e.Issuer != "" {
		fmt.Fprintf(&b, "[%s] ", e.Issuer)
	}
	b.WriteString(e.Stage)
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Unreadable reports that the input has no usable text layer.
func Unreadable(detail string, err error) error {
	return &ParseError{Kind: ErrUnreadableDocument, Stage: "extract", Detail: detail, Err: err}
}

// Incomplete reports that a required statement field is absent.
func Incomplete(issuer, field string) error {
	return &ParseError{Kind: ErrExtractionIncomplete, Stage: "extract", Issuer: issuer, Detail: "missing " + field}
}

// Unnormalizable reports a value that could not be coerced.
func Unnormalizable(issuer, field, raw string, err error) error {
	return &ParseError{
		Kind:   ErrNormalization,
		Stage:  "normalize",
		Issuer: issuer,
		Detail: fmt.Sprintf("%s %q", field, raw),
		Err:    err,
	}
}

// UnsupportedIssuerError is returned when no issuer fingerprint matches.
type UnsupportedIssuerError struct {
	Supported []string
	Hint      string
}

func (e *UnsupportedIssuerError) Error() string {
	list := strings.Join(e.Supported, ", ")
	if e.Hint != "" {
		return fmt.Sprintf("unsupported issuer %q: supported issuers are %s", e.Hint, list)
	}
	return "could not identify the card issuer of this statement; supported issuers are " + list
}

func (e *UnsupportedIssuerError) Is(target error) bool {
	return target == ErrUnsupportedIssuer
}

var kinds = []error{
	ErrUnreadableDocument,
	ErrUnsupportedIssuer,
	ErrExtractionIncomplete,
	ErrNormalization,
}

// KindOf returns the error kind err belongs to, or nil for errors outside
// the taxonomy.
func KindOf(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
