// Package cli implements the uikit command line tool, which applies the UI
// helpers to HTML files and prints the result.
package cli

import (
	"fmt"
	"os"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

// NewRootCmd creates the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "uikit",
		Short: "uikit - server-side form, table and pagination helpers",
		Long: `uikit applies the form, table and pagination helpers to HTML documents.

Use subcommands to:
  - validate: check the required and email fields of a form
  - table: sort and search a table
  - paginate: render a pagination control
  - filesize: format byte counts for display`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	groupDocuments := "documents"
	groupUtilities := "utilities"
	rootCmd.AddGroup(&cobra.Group{ID: groupDocuments, Title: "Document Commands"})
	rootCmd.AddGroup(&cobra.Group{ID: groupUtilities, Title: "Utility Commands"})

	validateCmd := NewValidateCmd()
	tableCmd := NewTableCmd()
	paginateCmd := NewPaginateCmd()
	fileSizeCmd := NewFileSizeCmd()

	validateCmd.GroupID = groupDocuments
	tableCmd.GroupID = groupDocuments
	paginateCmd.GroupID = groupUtilities
	fileSizeCmd.GroupID = groupUtilities

	rootCmd.AddCommand(validateCmd, tableCmd, paginateCmd, fileSizeCmd)
	return rootCmd
}

// readDocument parses an HTML file, or stdin when path is "-".
func readDocument(path string) (*goquery.Document, error) {
	if path == "-" {
		return goquery.NewDocumentFromReader(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}
