// Package issuer holds the registry of supported card issuers and decides
// which one produced a statement.
package issuer

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"
	"gopkg.in/yaml.v3"

	"github.com/insightdelivered/cc-statement-parser/internal/models"
	"github.com/insightdelivered/cc-statement-parser/internal/parser"
)

//go:embed profiles.yaml
var profilesYAML []byte

type profileSet struct {
	Version  string                 `yaml:"version"`
	Profiles []models.IssuerProfile `yaml:"profiles"`
}

// entry is a loaded profile with its compiled predicates.
type entry struct {
	profile   *models.IssuerProfile
	extractor parser.Extractor
	all       []int
	any       []int
	none      []int
	patterns  []*regexp.Regexp
}

// Registry is the immutable set of issuer profiles. It is safe for
// concurrent use.
type Registry struct {
	version string
	entries []*entry
	byID    map[string]*entry

	// terms is the fingerprint vocabulary; predicate indexes point into it.
	terms   []string
	matcher *ahocorasick.Matcher
}

// Default returns the registry built from the embedded profiles.
var Default = sync.OnceValues(func() (*Registry, error) {
	return Load(profilesYAML)
})

// Load parses a YAML profile set. Every profile must have a unique id bound
// to an extractor.
func Load(data []byte) (*Registry, error) {
	var set profileSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse issuer profiles: %w", err)
	}
	if len(set.Profiles) == 0 {
		return nil, fmt.Errorf("issuer profiles: none defined")
	}

	r := &Registry{
		version: set.Version,
		byID:    make(map[string]*entry, len(set.Profiles)),
	}
	termIndex := make(map[string]int)
	intern := func(terms []string) []int {
		out := make([]int, 0, len(terms))
		for _, t := range terms {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" {
				continue
			}
			i, ok := termIndex[t]
			if !ok {
				i = len(r.terms)
				termIndex[t] = i
				r.terms = append(r.terms, t)
			}
			out = append(out, i)
		}
		return out
	}

	for i := range set.Profiles {
		p := set.Profiles[i]
		p.ID = strings.ToUpper(strings.TrimSpace(p.ID))
		p.Priority = i
		if p.ID == "" {
			return nil, fmt.Errorf("issuer profile %d: missing id", i)
		}
		if _, dup := r.byID[p.ID]; dup {
			return nil, fmt.Errorf("issuer profile %s: duplicate id", p.ID)
		}
		if p.Name == "" {
			p.Name = p.ID
		}
		if p.Locale.Currency == "" {
			return nil, fmt.Errorf("issuer profile %s: missing currency", p.ID)
		}
		if len(p.Locale.DateLayouts) == 0 {
			return nil, fmt.Errorf("issuer profile %s: no date layouts", p.ID)
		}
		x, err := parser.New(p.ID)
		if err != nil {
			return nil, fmt.Errorf("issuer profile %s: %w", p.ID, err)
		}

		e := &entry{
			profile:   &p,
			extractor: x,
			all:       intern(p.Fingerprint.All),
			any:       intern(p.Fingerprint.Any),
			none:      intern(p.Fingerprint.None),
		}
		for _, expr := range p.Fingerprint.Patterns {
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, fmt.Errorf("issuer profile %s: pattern %q: %w", p.ID, expr, err)
			}
			e.patterns = append(e.patterns, re)
		}
		if len(e.all)+len(e.any)+len(e.patterns) == 0 {
			return nil, fmt.Errorf("issuer profile %s: empty fingerprint", p.ID)
		}
		r.entries = append(r.entries, e)
		r.byID[p.ID] = e
	}

	dict := make([][]byte, len(r.terms))
	for i, t := range r.terms {
		dict[i] = []byte(t)
	}
	r.matcher = ahocorasick.NewMatcher(dict)
	return r, nil
}

// Version is the profile-set version recorded in provenance.
func (r *Registry) Version() string { return r.version }

// Supported returns the display names of all issuers in detection order.
func (r *Registry) Supported() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.profile.Name
	}
	return names
}

// Profiles returns the loaded profiles in detection order.
func (r *Registry) Profiles() []*models.IssuerProfile {
	out := make([]*models.IssuerProfile, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.profile
	}
	return out
}

// Profile returns the profile with the given id.
func (r *Registry) Profile(id string) (*models.IssuerProfile, bool) {
	e, ok := r.byID[strings.ToUpper(id)]
	if !ok {
		return nil, false
	}
	return e.profile, true
}

// Extractor returns the extractor bound to an issuer id.
func (r *Registry) Extractor(id string) (parser.Extractor, error) {
	e, ok := r.byID[strings.ToUpper(id)]
	if !ok {
		return nil, r.unsupported(id)
	}
	return e.extractor, nil
}

func (r *Registry) unsupported(hint string) error {
	return &models.UnsupportedIssuerError{Supported: r.Supported(), Hint: hint}
}
