package cli

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/JonMunkholm/uikit/internal/ui"
)

// NewTableCmd creates the table subcommand.
func NewTableCmd() *cobra.Command {
	var (
		tableID string
		sortCol string
		desc    bool
		search  string
		inputID string
		locale  string
	)

	cmd := &cobra.Command{
		Use:   "table FILE",
		Short: "Sort and search an HTML table",
		Long: `Sort and search the table with the given id and print the resulting table.

Sortable columns are the headers carrying a data-sort attribute. Searching
needs the id of a search input in the same document; rows that do not match
are hidden and a "No results found" row is added when nothing matches.
FILE may be "-" to read standard input.`,
		Example: "  uikit table people.html --table people --sort name --desc",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, err := language.Parse(locale)
			if err != nil {
				return fmt.Errorf("invalid locale %q: %w", locale, err)
			}

			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			table := doc.Find("#" + tableID)
			if table.Length() == 0 {
				return fmt.Errorf("no table with id %q", tableID)
			}

			if sortCol != "" {
				order := ui.Ascending
				if desc {
					order = ui.Descending
				}
				sortable := ui.MakeTableSortable(doc, tableID, ui.WithLocale(tag))
				if !sortable.SortBy(sortCol, order) {
					return fmt.Errorf("column %q is not sortable (have %v)", sortCol, sortable.Columns())
				}
			}

			if search != "" {
				if doc.Find("#"+inputID).Length() == 0 {
					return fmt.Errorf("no search input with id %q", inputID)
				}
				visible := ui.MakeTableSearchable(doc, tableID, inputID).Input(search)
				fmt.Fprintf(cmd.ErrOrStderr(), "%d rows match %q\n", visible, search)
			}

			markup, err := goquery.OuterHtml(table)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), markup)
			return nil
		},
	}

	cmd.Flags().StringVar(&tableID, "table", "", "Id of the table element (required)")
	cmd.Flags().StringVar(&sortCol, "sort", "", "Column to sort by")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	cmd.Flags().StringVar(&search, "search", "", "Search term")
	cmd.Flags().StringVar(&inputID, "input", "search", "Id of the search input")
	cmd.Flags().StringVar(&locale, "locale", "en", "Collation locale")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}
