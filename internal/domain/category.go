package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// AllCategories is the sentinel label that disables category filtering.
const AllCategories = "All"

// Site editions select the label used for the store category.
const (
	EditionPnP = "pnp"
	EditionWeb = "web"
)

// CategoryRule maps every raw spelling matched by Pattern to Label.
type CategoryRule struct {
	Label   string
	Pattern *regexp.Regexp
}

// NewCategoryRule compiles a case-insensitive rule. Patterns are anchored
// by their author; nothing is added here.
func NewCategoryRule(label string, patterns ...string) ([]CategoryRule, error) {
	rules := make([]CategoryRule, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q for category %q: %w", p, label, err)
		}
		rules = append(rules, CategoryRule{Label: label, Pattern: re})
	}
	return rules, nil
}

// DefaultCategoryRules returns the built-in synonym table for an edition.
func DefaultCategoryRules(edition string) []CategoryRule {
	stores := "PnP Stores"
	if strings.EqualFold(edition, EditionWeb) {
		stores = "Web Stores"
	}

	table := []struct {
		label    string
		patterns []string
	}{
		{AllCategories, []string{`^all$`}},
		{"Martin's Tools", []string{`^martin'?s tools$`}},
		{"PnP Geeklists", []string{`^pnp\s*geeklists?$`, `^geeklists?$`}},
		{"PnP Groups", []string{`^pnp\s*groups?$`, `^communities$`}},
		{stores, []string{`^pnp\s*stores?$`, `^websites?$`, `^web\s*stores?$`}},
		{"PnP Tools", []string{`^pnp\s*tools?$`, `^utilities$`}},
	}

	var rules []CategoryRule
	for _, entry := range table {
		compiled, err := NewCategoryRule(entry.label, entry.patterns...)
		if err != nil {
			panic(err) // built-in table, covered by tests
		}
		rules = append(rules, compiled...)
	}
	return rules
}

// Normalizer resolves raw category spellings to canonical labels.
// It is immutable after construction and safe for concurrent use.
type Normalizer struct {
	rules []CategoryRule
}

// NewNormalizer builds a normalizer over an ordered rule list; the first
// matching rule wins.
func NewNormalizer(rules []CategoryRule) *Normalizer {
	cp := make([]CategoryRule, len(rules))
	copy(cp, rules)
	return &Normalizer{rules: cp}
}

// Normalize returns the canonical label for raw. Unknown categories are
// returned trimmed but otherwise unchanged.
func (n *Normalizer) Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	for _, rule := range n.rules {
		if rule.Pattern.MatchString(s) {
			return rule.Label
		}
	}
	return s
}

// Key returns the comparison form of raw: its label, lowercased, with
// whitespace runs collapsed to one space.
func (n *Normalizer) Key(raw string) string {
	return collapseLower(n.Normalize(raw))
}

// Same reports whether a and b name the same category.
func (n *Normalizer) Same(a, b string) bool {
	return n.Key(a) == n.Key(b)
}

// Labels returns the distinct canonical labels the rules produce, in rule
// order. The All sentinel is included when the rules name it.
func (n *Normalizer) Labels() []string {
	seen := make(map[string]bool, len(n.rules))
	labels := make([]string, 0, len(n.rules))
	for _, rule := range n.rules {
		if seen[rule.Label] {
			continue
		}
		seen[rule.Label] = true
		labels = append(labels, rule.Label)
	}
	return labels
}

func collapseLower(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
