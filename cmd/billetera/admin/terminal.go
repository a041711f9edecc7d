package admincmder

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/billetera/pkg/cliui"
)

const terminalLongDesc string = `Show a card terminal and its latest charges.

Examples:
  billetera admin terminal 3
  billetera admin terminal 3 -o yaml`

func newTerminalCmd() *cobra.Command {
	l := &lookupCommander{}

	cmd := &cobra.Command{
		Use:   "terminal <id>",
		Short: "Show a card terminal and its latest charges",
		Long:  terminalLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer l.env.Close()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid terminal id %q", args[0])
			}

			printer, err := l.env.Printer()
			if err != nil {
				return err
			}

			info, err := l.env.APIClient(nil).Terminal(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("fetching terminal: %w", err)
			}

			return printer.Print(info, func(w io.Writer) error {
				fmt.Fprintf(w, "\n  %s\n", cliui.HeaderStyle.Render(fmt.Sprintf("Terminal %d", id)))

				keys := make([]string, 0, len(info.Terminal))
				for k := range info.Terminal {
					keys = append(keys, k)
				}
				slices.Sort(keys)
				for _, k := range keys {
					fmt.Fprintf(w, "  %s  %v\n", cliui.KeyStyle.Render(fmt.Sprintf("%-16s", k)), info.Terminal[k])
				}

				if len(info.Transactions) == 0 {
					fmt.Fprintf(w, "\n  %s\n\n", cliui.DimStyle.Render("No charges yet."))
					return nil
				}

				fmt.Fprintf(w, "\n  %s\n", cliui.HeaderStyle.Render("Latest charges"))
				for _, tx := range info.Transactions {
					fmt.Fprintf(w, "  %s  %-24s %s\n",
						cliui.DimStyle.Render(tx.Date),
						tx.User,
						cliui.SignedAmount(tx.Amount, false),
					)
				}
				fmt.Fprintln(w)
				return nil
			})
		},
	}

	l.register(cmd)
	return cmd
}
