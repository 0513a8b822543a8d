package csvsource

import "github.com/MrSnakeDoc/pnptools/internal/domain"

// Column names of the catalog file, in file order. Lookups are
// case-sensitive and match the header as written.
const (
	ColCategory    = "CATEGORY"
	ColTitle       = "TITLE"
	ColCreator     = "CREATOR"
	ColDescription = "DESCRIPTION"
	ColLink        = "LINK"
	ColImage       = "IMAGE"
)

// Columns is the header row of a catalog file.
var Columns = []string{ColCategory, ColTitle, ColCreator, ColDescription, ColLink, ColImage}

// ToRow returns r's fields in Columns order.
func ToRow(r domain.Resource) []string {
	return []string{r.Category, r.Title, r.Creator, r.Description, r.Link, r.Image}
}

// FromRow builds a trimmed resource from a header-keyed row. Missing
// columns read as empty.
func FromRow(row map[string]string) domain.Resource {
	return domain.Resource{
		Category:    row[ColCategory],
		Title:       row[ColTitle],
		Creator:     row[ColCreator],
		Description: row[ColDescription],
		Link:        row[ColLink],
		Image:       row[ColImage],
	}.Trimmed()
}
