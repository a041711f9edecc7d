package admincmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/billetera/pkg/api"
	"github.com/papercomputeco/billetera/pkg/cliui"
)

const userLongDesc string = `Look up a wallet holder by CI.

Examples:
  billetera admin user 1234567
  billetera admin user 1234567 -o json`

func newUserCmd() *cobra.Command {
	l := &lookupCommander{}

	cmd := &cobra.Command{
		Use:   "user <ci>",
		Short: "Look up a wallet holder by CI",
		Long:  userLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer l.env.Close()

			printer, err := l.env.Printer()
			if err != nil {
				return err
			}

			user, err := l.env.APIClient(nil).AdminLookupUser(cmd.Context(), args[0])
			if err != nil {
				if api.IsNotFound(err) {
					return fmt.Errorf("no wallet holder with CI %s", args[0])
				}
				return fmt.Errorf("looking up user: %w", err)
			}

			return printer.Print(user, func(w io.Writer) error {
				state := cliui.SuccessMark + " active"
				if user.Active != nil && !*user.Active {
					state = cliui.FailMark + " inactive"
				}
				fmt.Fprintf(w, "\n  %s %s\n", cliui.NameStyle.Render(user.Name), state)
				fmt.Fprintf(w, "  %s  %s\n", cliui.KeyStyle.Render("CI:     "), cliui.ValueStyle.Render(string(user.CI)))
				fmt.Fprintf(w, "  %s  %d\n", cliui.KeyStyle.Render("ID:     "), user.ID)
				fmt.Fprintf(w, "  %s  %s\n\n", cliui.KeyStyle.Render("Balance:"), cliui.AmountStyle.Render(cliui.FormatAmount(user.Balance)))
				return nil
			})
		},
	}

	l.register(cmd)
	return cmd
}
