package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/uikit/internal/ui"
)

// ErrInvalid is returned when a validated form has failing fields.
var ErrInvalid = errors.New("form is invalid")

// NewValidateCmd creates the validate subcommand.
func NewValidateCmd() *cobra.Command {
	var (
		formID string
		html   bool
	)

	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate the required and email fields of a form",
		Long: `Validate a form the way the page does before submitting it: required
fields must not be blank and email fields must hold an address.

The failing fields are listed one per line. The command exits non-zero when
any field fails. FILE may be "-" to read standard input.`,
		Example: "  uikit validate signup.html --form signupForm",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}

			form := doc.Find("form").First()
			if formID != "" {
				form = doc.Find("#" + formID)
			}
			if form.Length() == 0 {
				return fmt.Errorf("no form found in %s", args[0])
			}

			valid := ui.ValidateForm(form)
			out := cmd.OutOrStdout()

			if html {
				markup, err := form.Html()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, markup)
			} else {
				errs := ui.FieldErrors(form)
				fields := make([]string, 0, len(errs))
				for f := range errs {
					fields = append(fields, f)
				}
				sort.Strings(fields)
				for _, f := range fields {
					fmt.Fprintf(out, "%s: %s\n", f, errs[f])
				}
			}

			if !valid {
				return ErrInvalid
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "form is valid")
			return nil
		},
	}

	cmd.Flags().StringVar(&formID, "form", "", "Id of the form (default: the first form)")
	cmd.Flags().BoolVar(&html, "html", false, "Print the form markup with error markers")

	return cmd
}
