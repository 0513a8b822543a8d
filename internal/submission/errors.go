package submission

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("submission rejected")

	// ErrDuplicate matches every *DuplicateError.
	ErrDuplicate = errors.New("submission duplicates an existing resource")
)

// Rule names the check that rejected a submission.
type Rule string

const (
	RuleRequired         Rule = "required"
	RuleLinkURL          Rule = "link_url"
	RuleReservedCategory Rule = "reserved_category"
	RuleImageURL         Rule = "image_url"
	RuleImageHost        Rule = "image_host"
	RuleImageExtension   Rule = "image_extension"
)

// ValidationError describes the first failed rule.
type ValidationError struct {
	Rule   Rule   `json:"rule"`
	Field  string `json:"field"`
	Reason string `json:"error"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Duplicate reasons.
const (
	ReasonSameLink             = "same link"
	ReasonSameTitleAndCategory = "same title and category"
)

// DuplicateError reports the existing record a submission collides with.
type DuplicateError struct {
	Reason   string `json:"reason"`
	Existing string `json:"existing"`
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("already listed (%s): %s", e.Reason, e.Existing)
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}
