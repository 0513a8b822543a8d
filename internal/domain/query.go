package domain

import (
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortMode selects the ordering of a query view.
type SortMode string

const (
	SortTitleAsc    SortMode = "title-asc"
	SortTitleDesc   SortMode = "title-desc"
	SortCategoryAsc SortMode = "category-asc"
)

// ParseSortMode maps user input to a SortMode. Unknown or empty input
// yields the default title-asc ordering and ok=false.
func ParseSortMode(s string) (SortMode, bool) {
	switch SortMode(strings.TrimSpace(s)) {
	case SortTitleAsc:
		return SortTitleAsc, true
	case SortTitleDesc:
		return SortTitleDesc, true
	case SortCategoryAsc:
		return SortCategoryAsc, true
	default:
		return SortTitleAsc, false
	}
}

// QueryState is the per-session view selection.
type QueryState struct {
	Search   string   `json:"query"`
	Category string   `json:"category"`
	Sort     SortMode `json:"sort"`
}

// NewQueryState returns the state a fresh session starts with.
func NewQueryState() QueryState {
	return QueryState{Category: AllCategories, Sort: SortTitleAsc}
}

// WithSearch returns a copy of s searching for text (trimmed, lowercased).
func (s QueryState) WithSearch(text string) QueryState {
	s.Search = strings.ToLower(strings.TrimSpace(text))
	return s
}

// WithCategory returns a copy of s filtered to the canonical form of raw.
func (s QueryState) WithCategory(raw string, n *Normalizer) QueryState {
	label := n.Normalize(raw)
	if label == "" {
		label = AllCategories
	}
	s.Category = label
	return s
}

// WithSort returns a copy of s using mode; unknown modes fall back to title-asc.
func (s QueryState) WithSort(mode string) QueryState {
	s.Sort, _ = ParseSortMode(mode)
	return s
}

// collators are not safe for concurrent use, so each query borrows one.
var collators = sync.Pool{
	New: func() any { return collate.New(language.English) },
}

// QueryResources returns the filtered, ordered view of records for state.
// records is never modified; ties keep their catalog order.
func QueryResources(records []Resource, state QueryState, n *Normalizer) []Resource {
	activeKey := n.Key(state.Category)
	filterCategory := activeKey != "" && activeKey != strings.ToLower(AllCategories)
	search := strings.ToLower(strings.TrimSpace(state.Search))

	out := make([]Resource, 0, len(records))
	for _, r := range records {
		if filterCategory && n.Key(r.Category) != activeKey {
			continue
		}
		if search != "" && !strings.Contains(haystack(r, n), search) {
			continue
		}
		out = append(out, r)
	}

	col := collators.Get().(*collate.Collator)
	defer collators.Put(col)

	cmp := comparator(state.Sort, n, col)
	slices.SortStableFunc(out, cmp)
	return out
}

func haystack(r Resource, n *Normalizer) string {
	return strings.ToLower(r.Title + " " + r.Description + " " + r.Category + " " + n.Normalize(r.Category))
}

func comparator(mode SortMode, n *Normalizer, col *collate.Collator) func(a, b Resource) int {
	switch mode {
	case SortTitleDesc:
		return func(a, b Resource) int {
			return col.CompareString(b.Title, a.Title)
		}
	case SortCategoryAsc:
		return func(a, b Resource) int {
			if c := col.CompareString(n.Normalize(a.Category), n.Normalize(b.Category)); c != 0 {
				return c
			}
			return col.CompareString(a.Title, b.Title)
		}
	default:
		return func(a, b Resource) int {
			return col.CompareString(a.Title, b.Title)
		}
	}
}
