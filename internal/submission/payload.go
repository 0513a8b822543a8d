// Package submission checks candidate resources before they are sent or
// appended: field rules, URL policy, reserved categories and duplicates.
package submission

import (
	"strings"

	"github.com/MrSnakeDoc/pnptools/internal/domain"
)

// Payload is a candidate resource as entered by a submitter.
type Payload struct {
	Category    string `json:"category" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Creator     string `json:"creator,omitempty"`
	Description string `json:"description" validate:"required"`
	Link        string `json:"link" validate:"required"`
	Image       string `json:"image,omitempty"`
}

// Sanitized returns p with every field trimmed.
func (p Payload) Sanitized() Payload {
	return Payload{
		Category:    strings.TrimSpace(p.Category),
		Title:       strings.TrimSpace(p.Title),
		Creator:     strings.TrimSpace(p.Creator),
		Description: strings.TrimSpace(p.Description),
		Link:        strings.TrimSpace(p.Link),
		Image:       strings.TrimSpace(p.Image),
	}
}

// Resource converts p into a catalog record.
func (p Payload) Resource() domain.Resource {
	s := p.Sanitized()
	return domain.Resource{
		Category:    s.Category,
		Title:       s.Title,
		Creator:     s.Creator,
		Description: s.Description,
		Link:        s.Link,
		Image:       s.Image,
	}
}

// FromResource builds a payload from an existing record.
func FromResource(r domain.Resource) Payload {
	return Payload{
		Category:    r.Category,
		Title:       r.Title,
		Creator:     r.Creator,
		Description: r.Description,
		Link:        r.Link,
		Image:       r.Image,
	}
}
