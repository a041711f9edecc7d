package admincmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/billetera/pkg/api"
	"github.com/papercomputeco/billetera/pkg/cliui"
)

const cardLongDesc string = `Show the wallet balance behind an RFID card UID.

Examples:
  billetera admin card 04A1B2C3`

func newCardCmd() *cobra.Command {
	l := &lookupCommander{}

	cmd := &cobra.Command{
		Use:   "card <uid>",
		Short: "Show the balance behind an RFID card",
		Long:  cardLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer l.env.Close()

			printer, err := l.env.Printer()
			if err != nil {
				return err
			}

			balance, err := l.env.APIClient(nil).CardBalance(cmd.Context(), args[0])
			if err != nil {
				if api.IsNotFound(err) {
					return fmt.Errorf("card %s is not registered", args[0])
				}
				return fmt.Errorf("fetching card balance: %w", err)
			}

			return printer.Print(balance, func(w io.Writer) error {
				fmt.Fprintf(w, "\n  %s %s  %s\n\n",
					cliui.HashStyle.Render(args[0]),
					cliui.NameStyle.Render(balance.Name),
					cliui.AmountStyle.Render(cliui.FormatAmount(balance.Balance)),
				)
				return nil
			})
		},
	}

	l.register(cmd)
	return cmd
}
