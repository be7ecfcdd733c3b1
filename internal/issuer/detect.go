package issuer

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/rs/zerolog/log"

	"github.com/insightdelivered/cc-statement-parser/internal/models"
)

// Detect returns the first profile, in registration order, whose
// fingerprint holds for the document text.
func (r *Registry) Detect(doc *models.RawDocument) (*models.IssuerProfile, error) {
	text := doc.Text()
	lower := []byte(strings.ToLower(text))

	present := make([]bool, len(r.terms))
	for _, i := range r.matcher.MatchThreadSafe(lower) {
		present[i] = true
	}

	for _, e := range r.entries {
		if e.matches(present, text) {
			log.Debug().Str("issuer", e.profile.ID).Msg("issuer detected")
			return e.profile, nil
		}
	}
	return nil, r.unsupported("")
}

func (e *entry) matches(present []bool, text string) bool {
	for _, i := range e.all {
		if !present[i] {
			return false
		}
	}
	for _, i := range e.none {
		if present[i] {
			return false
		}
	}
	if len(e.any) > 0 {
		found := false
		for _, i := range e.any {
			if present[i] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, re := range e.patterns {
		if !re.MatchString(text) {
			return false
		}
	}
	return true
}

// Lookup resolves a user-supplied issuer hint such as "hdfc", "Axis Bank"
// or "chse". Exact ids, names and aliases win; otherwise the closest fuzzy
// match is used.
func (r *Registry) Lookup(hint string) (*models.IssuerProfile, error) {
	h := strings.TrimSpace(hint)
	if h == "" {
		return nil, r.unsupported(hint)
	}
	for _, e := range r.entries {
		if strings.EqualFold(h, e.profile.ID) || strings.EqualFold(h, e.profile.Name) {
			return e.profile, nil
		}
		for _, a := range e.profile.Aliases {
			if strings.EqualFold(h, a) {
				return e.profile, nil
			}
		}
	}

	var names []string
	owner := make(map[string]*models.IssuerProfile)
	for _, e := range r.entries {
		for _, n := range append([]string{e.profile.ID, e.profile.Name}, e.profile.Aliases...) {
			if _, seen := owner[n]; !seen {
				owner[n] = e.profile
				names = append(names, n)
			}
		}
	}
	ranks := fuzzy.RankFindFold(h, names)
	if len(ranks) == 0 {
		// tolerate a typo in the hint rather than in the name
		for _, n := range names {
			if fuzzy.MatchFold(n, h) {
				ranks = append(ranks, fuzzy.Rank{Source: h, Target: n, Distance: len(h) - len(n)})
			}
		}
	}
	if len(ranks) == 0 {
		return nil, r.unsupported(hint)
	}
	sort.Stable(ranks)
	best := owner[ranks[0].Target]
	log.Debug().Str("hint", hint).Str("issuer", best.ID).Msg("issuer hint resolved")
	return best, nil
}
