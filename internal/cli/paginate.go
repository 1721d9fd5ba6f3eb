package cli

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/uikit/internal/ui"
)

// NewPaginateCmd creates the paginate subcommand.
func NewPaginateCmd() *cobra.Command {
	var (
		current int
		total   int
		html    bool
	)

	cmd := &cobra.Command{
		Use:   "paginate",
		Short: "Render a pagination control",
		Long: `Render the pagination control for a page of a result set.

Without --html the entries are listed one per line, with the active page in
brackets and disabled entries in parentheses.`,
		Example: "  uikit paginate --current 5 --total 10",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if total < 1 {
				return fmt.Errorf("--total must be at least 1")
			}
			out := cmd.OutOrStdout()

			if !html {
				var labels []string
				for _, it := range ui.PageItems(current, total) {
					label := it.Label
					switch {
					case it.Active:
						label = "[" + label + "]"
					case it.Disabled:
						label = "(" + label + ")"
					}
					labels = append(labels, label)
				}
				fmt.Fprintln(out, strings.Join(labels, " "))
				return nil
			}

			doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<div id="pagination"></div>`))
			if err != nil {
				return err
			}
			ui.CreatePagination(doc, "pagination", current, total, nil)
			markup, err := doc.Find("#pagination").Html()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, markup)
			return nil
		},
	}

	cmd.Flags().IntVarP(&current, "current", "c", 1, "Current page")
	cmd.Flags().IntVarP(&total, "total", "t", 1, "Total number of pages")
	cmd.Flags().BoolVar(&html, "html", false, "Print the control markup")

	return cmd
}
