package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/uikit/internal/ui"
)

// NewFileSizeCmd creates the filesize subcommand.
func NewFileSizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "filesize BYTES...",
		Short:   "Format byte counts as human readable sizes",
		Example: "  uikit filesize 0 1536 1073741824",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				n, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid byte count %q", arg)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", n, ui.FormatFileSize(n))
			}
			return nil
		},
	}
}
