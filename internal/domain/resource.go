package domain

import "strings"

// Resource is one print-and-play catalog entry.
//
// It is NOT tied to the CSV layout: the catalog source maps its columns
// into this structure and the appender maps it back.
type Resource struct {
	// ─────────────────────────────
	// Required
	// ─────────────────────────────

	// Title is the display name of the resource.
	Title string `json:"title"`

	// Link is the URL the card points to.
	// Rows loaded from the catalog are not re-validated.
	Link string `json:"link"`

	// ─────────────────────────────
	// Descriptive
	// ─────────────────────────────

	// Category is the raw category as stored. Use a Normalizer for the
	// display label or the comparison key.
	Category string `json:"category"`

	// Creator is the optional author or publisher.
	Creator string `json:"creator,omitempty"`

	// Description is optional; display defaults are applied by the view,
	// never stored here.
	Description string `json:"description"`

	// Image is an optional URL or site-relative path.
	Image string `json:"image,omitempty"`
}

// Admissible reports whether r may enter the catalog: title and link must
// be non-empty after trimming.
func (r Resource) Admissible() bool {
	return strings.TrimSpace(r.Title) != "" && strings.TrimSpace(r.Link) != ""
}

// Trimmed returns a copy of r with every field trimmed.
func (r Resource) Trimmed() Resource {
	return Resource{
		Title:       strings.TrimSpace(r.Title),
		Link:        strings.TrimSpace(r.Link),
		Category:    strings.TrimSpace(r.Category),
		Creator:     strings.TrimSpace(r.Creator),
		Description: strings.TrimSpace(r.Description),
		Image:       strings.TrimSpace(r.Image),
	}
}
