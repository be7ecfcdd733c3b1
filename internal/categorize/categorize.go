// Package categorize assigns a spending category to transactions from
// keyword rules, matched in a single pass with Aho-Corasick.
package categorize

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"
	"gopkg.in/yaml.v3"

	"github.com/insightdelivered/cc-statement-parser/internal/models"
)

//go:embed categories.yaml
var categoriesYAML []byte

// Rule maps keywords to a category name.
type Rule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Engine matches descriptions against the rules. It is immutable and safe
// for concurrent use.
type Engine struct {
	matcher  *ahocorasick.Matcher
	keywords []string
	// rule index for each keyword; lower wins
	owner []int
	names []string
}

// Default returns the engine built from the embedded rules.
var Default = sync.OnceValues(func() (*Engine, error) {
	return Load(categoriesYAML)
})

// Load parses a YAML rule set.
func Load(data []byte) (*Engine, error) {
	var doc struct {
		Categories []Rule `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse category rules: %w", err)
	}
	return New(doc.Categories), nil
}

// New builds an engine from rules. Duplicate keywords keep their first rule.
func New(rules []Rule) *Engine {
	e := &Engine{}
	seen := make(map[string]bool)
	for i, r := range rules {
		e.names = append(e.names, r.Name)
		for _, kw := range r.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" || seen[kw] {
				continue
			}
			seen[kw] = true
			e.keywords = append(e.keywords, kw)
			e.owner = append(e.owner, i)
		}
	}
	if len(e.keywords) == 0 {
		return e
	}
	dict := make([][]byte, len(e.keywords))
	for i, kw := range e.keywords {
		dict[i] = []byte(kw)
	}
	e.matcher = ahocorasick.NewMatcher(dict)
	return e
}

// Category returns the category for description, or "" when no rule
// matches.
func (e *Engine) Category(description string) string {
	if e == nil || e.matcher == nil {
		return ""
	}
	hits := e.matcher.MatchThreadSafe([]byte(strings.ToLower(description)))
	best := -1
	for _, i := range hits {
		if r := e.owner[i]; best < 0 || r < best {
			best = r
		}
	}
	if best < 0 {
		return ""
	}
	return e.names[best]
}

// Apply fills the category of transactions that have none.
func (e *Engine) Apply(txns []models.Transaction) {
	for i := range txns {
		if txns[i].Category == "" {
			txns[i].Category = e.Category(txns[i].Description)
		}
	}
}
