package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Display defaults used by views; they are never written to the catalog.
const (
	UncategorizedLabel = "Uncategorized"
	NoDescriptionText  = "No description provided."
)

// Card is the display form of a Resource.
type Card struct {
	Resource
	Label string `json:"label"`
}

// NewCard applies display defaults to r. basePath prefixes site-relative
// image paths when the site is served below a path prefix.
func NewCard(r Resource, n *Normalizer, basePath string) Card {
	c := Card{Resource: r, Label: n.Normalize(r.Category)}
	if c.Label == "" {
		c.Label = UncategorizedLabel
	}
	if c.Description == "" {
		c.Description = NoDescriptionText
	}
	c.Image = ResolveImageURL(basePath, r.Image)
	return c
}

var absoluteHTTP = regexp.MustCompile(`(?i)^https?://`)

// ResolveImageURL returns the URL a client should load for raw.
// Absolute http(s) URLs and paths already under basePath are returned
// unchanged; other root-relative paths get basePath prepended.
func ResolveImageURL(basePath, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if absoluteHTTP.MatchString(raw) {
		return raw
	}
	basePath = strings.TrimRight(basePath, "/")
	if basePath == "" {
		return raw
	}
	if strings.HasPrefix(raw, basePath+"/") {
		return raw
	}
	if strings.HasPrefix(raw, "/") {
		return basePath + raw
	}
	return raw
}

// CountText renders the result counter shown above a view.
func CountText(n int) string {
	if n == 1 {
		return "1 resource shown"
	}
	return fmt.Sprintf("%d resources shown", n)
}

// CategoryCount is one entry of the category navigation.
type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CountCategories returns the distinct labels of records in first-seen
// order. Records without a category count as UncategorizedLabel.
func CountCategories(records []Resource, n *Normalizer) []CategoryCount {
	index := make(map[string]int)
	var out []CategoryCount
	for _, r := range records {
		label := n.Normalize(r.Category)
		if label == "" {
			label = UncategorizedLabel
		}
		key := collapseLower(label)
		if i, ok := index[key]; ok {
			out[i].Count++
			continue
		}
		index[key] = len(out)
		out = append(out, CategoryCount{Label: label, Count: 1})
	}
	return out
}
