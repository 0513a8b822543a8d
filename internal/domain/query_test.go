package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func titles(rs []Resource) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Title)
	}
	return out
}

func testCatalog() []Resource {
	return []Resource{
		{Category: "Tools", Title: "B", Link: "https://b.test", Description: "folding helper"},
		{Category: "Geeklists", Title: "Zeta list", Link: "https://z.test"},
		{Category: "Tools", Title: "A", Link: "https://a.test"},
		{Category: "PnP Geeklists", Title: "alpha list", Link: "https://alpha.test", Description: "Solo games"},
		{Category: "websites", Title: "Shop", Link: "https://shop.test"},
	}
}

func TestQueryResources(t *testing.T) {
	n := NewNormalizer(DefaultCategoryRules(EditionPnP))

	tests := []struct {
		name  string
		state QueryState
		want  []string
	}{
		{
			name:  "all categories, default sort",
			state: NewQueryState(),
			want:  []string{"A", "alpha list", "B", "Shop", "Zeta list"},
		},
		{
			name:  "empty category means all",
			state: QueryState{},
			want:  []string{"A", "alpha list", "B", "Shop", "Zeta list"},
		},
		{
			name:  "title desc",
			state: NewQueryState().WithSort("title-desc"),
			want:  []string{"Zeta list", "Shop", "B", "alpha list", "A"},
		},
		{
			name:  "category filter uses keys",
			state: NewQueryState().WithCategory("geeklist", n),
			want:  []string{"alpha list", "Zeta list"},
		},
		{
			name:  "category asc groups and ties on title",
			state: NewQueryState().WithSort("category-asc"),
			want:  []string{"alpha list", "Zeta list", "Shop", "A", "B"},
		},
		{
			name:  "search matches description",
			state: NewQueryState().WithSearch("  FOLDING "),
			want:  []string{"B"},
		},
		{
			name:  "search matches normalized label",
			state: NewQueryState().WithSearch("pnp stores"),
			want:  []string{"Shop"},
		},
		{
			name:  "search matches raw category",
			state: NewQueryState().WithSearch("websites"),
			want:  []string{"Shop"},
		},
		{
			name:  "search and category combine",
			state: NewQueryState().WithCategory("PnP Geeklists", n).WithSearch("solo"),
			want:  []string{"alpha list"},
		},
		{
			name:  "no match",
			state: NewQueryState().WithSearch("nothing like this"),
			want:  []string{},
		},
		{
			name:  "unknown sort falls back to title asc",
			state: NewQueryState().WithSort("random"),
			want:  []string{"A", "alpha list", "B", "Shop", "Zeta list"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := titles(QueryResources(testCatalog(), tt.state, n))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("QueryResources() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestQueryResourcesCategoryAscExample(t *testing.T) {
	n := NewNormalizer(DefaultCategoryRules(EditionPnP))
	records := []Resource{
		{Category: "Tools", Title: "B", Link: "https://b.test"},
		{Category: "Tools", Title: "A", Link: "https://a.test"},
	}

	got := titles(QueryResources(records, NewQueryState().WithSort(string(SortCategoryAsc)), n))
	if diff := cmp.Diff([]string{"A", "B"}, got); diff != "" {
		t.Errorf("category-asc mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryResourcesLocaleOrder(t *testing.T) {
	n := NewNormalizer(nil)
	records := []Resource{
		{Title: "iPhone stand", Link: "https://i.test"},
		{Title: "Apple crate", Link: "https://a.test"},
		{Title: "banana box", Link: "https://b.test"},
		{Title: "Cherry", Link: "https://c.test"},
	}

	got := titles(QueryResources(records, NewQueryState(), n))
	want := []string{"Apple crate", "banana box", "Cherry", "iPhone stand"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("locale order mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryResourcesStable(t *testing.T) {
	n := NewNormalizer(nil)
	records := []Resource{
		{Title: "Same", Link: "https://1.test"},
		{Title: "Other", Link: "https://x.test"},
		{Title: "Same", Link: "https://2.test"},
		{Title: "Same", Link: "https://3.test"},
	}

	for _, mode := range []SortMode{SortTitleAsc, SortTitleDesc, SortCategoryAsc} {
		got := QueryResources(records, NewQueryState().WithSort(string(mode)), n)

		var links []string
		for _, r := range got {
			if r.Title == "Same" {
				links = append(links, r.Link)
			}
		}
		want := []string{"https://1.test", "https://2.test", "https://3.test"}
		if diff := cmp.Diff(want, links); diff != "" {
			t.Errorf("[%s] equal titles lost catalog order (-want +got):\n%s", mode, diff)
		}
	}
}

func TestQueryResourcesDoesNotMutateInput(t *testing.T) {
	n := NewNormalizer(DefaultCategoryRules(EditionPnP))
	records := testCatalog()
	before := titles(records)

	_ = QueryResources(records, NewQueryState().WithSort("title-desc"), n)

	if diff := cmp.Diff(before, titles(records)); diff != "" {
		t.Errorf("input reordered (-before +after):\n%s", diff)
	}
}

func TestParseSortMode(t *testing.T) {
	tests := []struct {
		input  string
		want   SortMode
		wantOK bool
	}{
		{"title-asc", SortTitleAsc, true},
		{"title-desc", SortTitleDesc, true},
		{" category-asc ", SortCategoryAsc, true},
		{"", SortTitleAsc, false},
		{"TITLE-DESC", SortTitleAsc, false},
	}

	for _, tt := range tests {
		got, ok := ParseSortMode(tt.input)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseSortMode(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}
