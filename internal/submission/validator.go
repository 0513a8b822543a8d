package submission

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MrSnakeDoc/pnptools/internal/domain"
)

// DefaultReservedCategories can only be populated out of band.
var DefaultReservedCategories = []string{"Martin's Tools"}

// Validator applies the submission rules in order and stops at the first
// failure.
type Validator struct {
	normalizer *domain.Normalizer
	images     *ImagePolicy
	reserved   map[string]string // category key -> label
	structs    *validator.Validate
}

// NewValidator builds a validator. A nil image policy uses the defaults;
// a nil reserved list uses DefaultReservedCategories.
func NewValidator(n *domain.Normalizer, images *ImagePolicy, reserved []string) *Validator {
	if images == nil {
		images = NewImagePolicy(nil, nil)
	}
	if reserved == nil {
		reserved = DefaultReservedCategories
	}

	v := &Validator{
		normalizer: n,
		images:     images,
		reserved:   make(map[string]string, len(reserved)),
		structs:    validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, c := range reserved {
		if key := n.Key(c); key != "" {
			v.reserved[key] = n.Normalize(c)
		}
	}
	return v
}

// Validate returns nil or a *ValidationError for the first failed rule.
func (v *Validator) Validate(p Payload) error {
	p = p.Sanitized()

	if err := v.checkRequired(p); err != nil {
		return err
	}

	if !IsHTTPURL(p.Link) {
		return &ValidationError{Rule: RuleLinkURL, Field: "link", Reason: "Link must be a valid http(s) URL."}
	}

	if v.normalizer.Normalize(p.Category) == domain.AllCategories {
		return &ValidationError{
			Rule:   RuleReservedCategory,
			Field:  "category",
			Reason: "Pick a specific category, not " + domain.AllCategories + ".",
		}
	}
	if label, ok := v.reserved[v.normalizer.Key(p.Category)]; ok {
		return &ValidationError{
			Rule:   RuleReservedCategory,
			Field:  "category",
			Reason: "The " + label + " category cannot be submitted publicly.",
		}
	}

	if p.Image != "" {
		if err := v.images.Check(p.Image); err != nil {
			return err
		}
	}
	return nil
}

// Reserved reports whether category normalizes to a reserved category.
func (v *Validator) Reserved(category string) bool {
	_, ok := v.reserved[v.normalizer.Key(category)]
	return ok
}

// Categories returns the canonical labels a public submission may use:
// every label except the All sentinel and the reserved categories.
func (v *Validator) Categories() []string {
	labels := v.normalizer.Labels()
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if l == domain.AllCategories || v.Reserved(l) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func (v *Validator) checkRequired(p Payload) error {
	err := v.structs.Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Rule: RuleRequired, Field: "payload", Reason: err.Error()}
	}

	missing := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		missing = append(missing, strings.ToLower(fe.Field()))
	}
	return &ValidationError{
		Rule:   RuleRequired,
		Field:  missing[0],
		Reason: "Missing required fields: " + strings.Join(missing, ", ") + ".",
	}
}
