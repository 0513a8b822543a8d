package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/pnptools/internal/domain"
	"github.com/MrSnakeDoc/pnptools/internal/sources/csvsource"
)

type queryOptions struct {
	catalog  string
	search   string
	category string
	sort     string
	json     bool
}

func newQueryCmd(c *cli) *cobra.Command {
	opts := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Search, filter and sort the catalog",
		Example: `  pnptools query --category utilities
  pnptools query --q "card" --sort title-desc --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, c, opts)
		},
	}

	cmd.Flags().StringVar(&opts.catalog, "catalog", "", "catalog CSV path or URL (default $PNP_CATALOG_FILE)")
	cmd.Flags().StringVar(&opts.search, "q", "", "search text")
	cmd.Flags().StringVar(&opts.category, "category", domain.AllCategories, "category or synonym")
	cmd.Flags().StringVar(&opts.sort, "sort", string(domain.SortTitleAsc), "title-asc | title-desc | category-asc")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON")
	return cmd
}

func runQuery(cmd *cobra.Command, c *cli, opts *queryOptions) error {
	pol, err := c.policy()
	if err != nil {
		return err
	}
	n := pol.Normalizer()

	location := opts.catalog
	if location == "" {
		location = c.cfg.CatalogFile
	}
	records, err := csvsource.NewSource(csvsource.NewLoader(location, nil)).Resources(cmd.Context())
	if err != nil {
		return err
	}

	state := domain.NewQueryState().
		WithSearch(opts.search).
		WithCategory(opts.category, n).
		WithSort(opts.sort)

	results := domain.QueryResources(records, state, n)
	cards := make([]domain.Card, 0, len(results))
	for _, r := range results {
		cards = append(cards, domain.NewCard(r, n, c.cfg.BasePath))
	}

	out := cmd.OutOrStdout()
	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(cards)
	}
	printCards(out, cards)
	return nil
}

func printCards(w io.Writer, cards []domain.Card) {
	for _, card := range cards {
		fmt.Fprintf(w, "%s [%s]\n", card.Title, card.Label)
		if card.Creator != "" {
			fmt.Fprintf(w, "  by %s\n", card.Creator)
		}
		fmt.Fprintf(w, "  %s\n", card.Description)
		fmt.Fprintf(w, "  %s\n", card.Link)
	}
	fmt.Fprintln(w, domain.CountText(len(cards)))
}
