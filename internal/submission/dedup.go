package submission

import (
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/pnptools/internal/domain"
)

// DuplicateIndex is a point-in-time lookup over catalog records, keyed by
// normalized link and by normalized (title, category).
type DuplicateIndex struct {
	normalizer *domain.Normalizer
	links      map[string]string
	pairs      map[string]string
}

// NewDuplicateIndex indexes records. The first record wins when several
// share a key.
func NewDuplicateIndex(records []domain.Resource, n *domain.Normalizer) *DuplicateIndex {
	idx := &DuplicateIndex{
		normalizer: n,
		links:      make(map[string]string, len(records)),
		pairs:      make(map[string]string, len(records)),
	}
	for _, r := range records {
		idx.Add(r)
	}
	return idx
}

// Add indexes one more record.
func (idx *DuplicateIndex) Add(r domain.Resource) {
	if link := NormalizeLink(r.Link); link != "" {
		if _, ok := idx.links[link]; !ok {
			idx.links[link] = r.Title
		}
	}
	if pair := PairKey(r.Title, r.Category, idx.normalizer); pair != "" {
		if _, ok := idx.pairs[pair]; !ok {
			idx.pairs[pair] = r.Title
		}
	}
}

// Len returns the number of indexed links.
func (idx *DuplicateIndex) Len() int {
	return len(idx.links)
}

// Find returns the duplicate p collides with, or nil.
func (idx *DuplicateIndex) Find(p Payload) *DuplicateError {
	if link := NormalizeLink(p.Link); link != "" {
		if existing, ok := idx.links[link]; ok {
			return &DuplicateError{Reason: ReasonSameLink, Existing: existing}
		}
	}
	if pair := PairKey(p.Title, p.Category, idx.normalizer); pair != "" {
		if existing, ok := idx.pairs[pair]; ok {
			return &DuplicateError{Reason: ReasonSameTitleAndCategory, Existing: existing}
		}
	}
	return nil
}

// NormalizeLink drops the fragment and the default port, gives an empty
// path on a host the root "/", removes one trailing slash from a non-root
// path, then lowercases the result. Percent-escapes in the path are kept
// as written.
func NormalizeLink(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.Opaque != "" {
		if i := strings.IndexByte(raw, '#'); i >= 0 {
			raw = raw[:i]
		}
		return strings.ToLower(raw)
	}

	u.Fragment = ""
	u.RawFragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	if port := u.Port(); (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		host := u.Hostname()
		if strings.Contains(host, ":") {
			host = "[" + host + "]"
		}
		u.Host = host
	}

	escaped := u.EscapedPath()
	switch {
	case escaped == "" && u.Host != "":
		escaped = "/"
	case len(escaped) > 1:
		escaped = strings.TrimSuffix(escaped, "/")
	}
	if path, err := url.PathUnescape(escaped); err == nil {
		u.Path = path
		u.RawPath = escaped
	}
	return strings.ToLower(u.String())
}

// PairKey joins the normalized title and category key. Titles are
// trimmed, lowercased and whitespace-collapsed.
func PairKey(title, category string, n *domain.Normalizer) string {
	t := strings.Join(strings.Fields(strings.ToLower(title)), " ")
	if t == "" {
		return ""
	}
	return t + "\x00" + n.Key(category)
}
