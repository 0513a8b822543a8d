// Package policy loads the category table and submission rules from an
// optional YAML file and falls back to the built-in defaults.
package policy

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/pnptools/internal/domain"
	"github.com/MrSnakeDoc/pnptools/internal/submission"
)

// Policy is the resolved configuration the normalizer and validator are
// built from.
type Policy struct {
	Rules    []domain.CategoryRule
	Reserved []string
	Images   *submission.ImagePolicy
}

// Normalizer builds a normalizer over the policy rules.
func (p *Policy) Normalizer() *domain.Normalizer {
	return domain.NewNormalizer(p.Rules)
}

// Validator builds a submission validator over the policy.
func (p *Policy) Validator(n *domain.Normalizer) *submission.Validator {
	return submission.NewValidator(n, p.Images, p.Reserved)
}

// Default returns the built-in policy for an edition.
func Default(edition string) *Policy {
	return &Policy{
		Rules:    domain.DefaultCategoryRules(edition),
		Reserved: submission.DefaultReservedCategories,
		Images:   submission.NewImagePolicy(nil, nil),
	}
}

// Load reads path and overlays it on the defaults for edition. An empty
// path returns the defaults.
func Load(path, edition string) (*Policy, error) {
	if strings.TrimSpace(path) == "" {
		return Default(edition), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse policy yaml: %w", err)
	}
	return FromFile(f, edition)
}

// FromFile resolves a parsed policy file. Sections left empty keep their
// defaults. A category table without an "All" entry gets one prepended.
func FromFile(f File, edition string) (*Policy, error) {
	p := Default(edition)

	if len(f.Categories) > 0 {
		rules, err := compileCategories(f.Categories)
		if err != nil {
			return nil, err
		}
		p.Rules = rules
	}

	if len(f.ReservedCategories) > 0 {
		p.Reserved = f.ReservedCategories
	}

	if len(f.Image.BlockedHosts) > 0 || len(f.Image.Extensions) > 0 {
		p.Images = submission.NewImagePolicy(f.Image.BlockedHosts, f.Image.Extensions)
	}
	return p, nil
}

func compileCategories(entries []CategoryEntry) ([]domain.CategoryRule, error) {
	var rules []domain.CategoryRule
	hasAll := false

	for i, e := range entries {
		label := strings.TrimSpace(e.Label)
		if label == "" {
			return nil, fmt.Errorf("category #%d has no label", i+1)
		}
		if len(e.Patterns) == 0 {
			return nil, fmt.Errorf("category %q has no patterns", label)
		}
		if strings.EqualFold(label, domain.AllCategories) {
			hasAll = true
		}

		compiled, err := domain.NewCategoryRule(label, e.Patterns...)
		if err != nil {
			return nil, err
		}
		rules = append(rules, compiled...)
	}

	if !hasAll {
		all, err := domain.NewCategoryRule(domain.AllCategories, `^all$`)
		if err != nil {
			return nil, err
		}
		rules = append(all, rules...)
	}
	return rules, nil
}
