package csvsource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/MrSnakeDoc/pnptools/internal/domain"
)

func TestMapResources(t *testing.T) {
	text := "CATEGORY,TITLE,CREATOR,DESCRIPTION,LINK,IMAGE\r\n" +
		"PnP Tools, Deck Builder ,Ann,\"Builds decks, fast\",https://deck.test,/img/deck.png\r\n" +
		"PnP Tools,,Ann,No title,https://nolink.test,\r\n" +
		"PnP Tools,No link,,,   ,\r\n" +
		"Geeklists,Solo List\r\n"

	got := MapResources(text)
	want := []domain.Resource{
		{Category: "PnP Tools", Title: "Deck Builder", Creator: "Ann", Description: "Builds decks, fast", Link: "https://deck.test", Image: "/img/deck.png"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MapResources() mismatch (-want +got):\n%s", diff)
	}
}

func TestMapResourcesHeaderCase(t *testing.T) {
	got := MapResources("category,title,link\nPnP Tools,Deck,https://deck.test\n")
	if len(got) != 0 {
		t.Errorf("MapResources() with lowercase header = %v, want none", got)
	}
}

func TestMapResourcesEmpty(t *testing.T) {
	if got := MapResources(""); len(got) != 0 {
		t.Errorf("MapResources(\"\") = %v", got)
	}
	if got := MapResources("CATEGORY,TITLE,CREATOR,DESCRIPTION,LINK,IMAGE"); len(got) != 0 {
		t.Errorf("MapResources(header only) = %v", got)
	}
}

func TestSourceResources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resources.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("Failed to write catalog: %v", err)
	}

	src := NewSource(NewLoader(path, nil))
	got, err := src.Resources(t.Context())
	if err != nil {
		t.Fatalf("Resources() error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "Deck Builder" {
		t.Errorf("Resources() = %+v", got)
	}
	if src.Location() != path {
		t.Errorf("Location() = %q, want %q", src.Location(), path)
	}
}

func TestRowRoundTrip(t *testing.T) {
	r := domain.Resource{Category: "C", Title: "T", Creator: "Cr", Description: "D", Link: "L", Image: "I"}
	row := make(map[string]string, len(Columns))
	for i, v := range ToRow(r) {
		row[Columns[i]] = v
	}
	if diff := cmp.Diff(r, FromRow(row)); diff != "" {
		t.Errorf("FromRow(ToRow()) mismatch (-want +got):\n%s", diff)
	}
}
