// Package historycmder provides the history command listing the merged
// transaction history: top-ups, terminal charges and transfers.
package historycmder

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/billetera/cmd/billetera/cmdenv"
	"github.com/papercomputeco/billetera/pkg/api"
	"github.com/papercomputeco/billetera/pkg/cliui"
	"github.com/papercomputeco/billetera/pkg/config"
	"github.com/papercomputeco/billetera/pkg/utils"
)

const historyLongDesc string = `List your latest transactions, newest first.

Top-ups and received transfers are credits; terminal charges and sent
transfers are debits. Use --limit to control how many are fetched
(default 50, "billetera history --recent" shows the last 5).

Examples:
  billetera history
  billetera history --limit 10
  billetera history --recent -o yaml`

const historyShortDesc string = "List recent transactions"

type historyCommander struct {
	flags  cmdenv.Flags
	limit  int
	recent bool

	env *cmdenv.Env
}

func NewHistoryCmd() *cobra.Command {
	cmder := &historyCommander{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: historyShortDesc,
		Long:  historyLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.env, err = cmdenv.Load(cmd, &cmder.flags)
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer cmder.env.Close()
			return cmder.run(cmd.Context())
		},
	}

	cmder.flags.Register(cmd, config.FlagAPITarget, config.FlagTimeout, config.FlagOutput)
	cmd.Flags().IntVarP(&cmder.limit, "limit", "n", api.FullHistoryLimit, "Maximum number of transactions")
	cmd.Flags().BoolVar(&cmder.recent, "recent", false, fmt.Sprintf("Show only the last %d transactions", api.RecentHistoryLimit))

	return cmd
}

func (c *historyCommander) run(ctx context.Context) error {
	sess, err := c.env.Session()
	if err != nil {
		return err
	}

	printer, err := c.env.Printer()
	if err != nil {
		return err
	}

	limit := c.limit
	if c.recent {
		limit = api.RecentHistoryLimit
	}

	txs, err := c.env.APIClient(sess).History(ctx, limit)
	if err != nil {
		return c.env.Backend(fmt.Errorf("fetching history: %w", err))
	}

	return printer.Print(txs, func(w io.Writer) error {
		return writeHistory(w, txs)
	})
}

func writeHistory(w io.Writer, txs []api.Transaction) error {
	if len(txs) == 0 {
		fmt.Fprintf(w, "  %s\n", cliui.DimStyle.Render("No transactions yet."))
		return nil
	}

	fmt.Fprintln(w)
	for _, tx := range txs {
		when := tx.Date
		if ts, ok := tx.Time(); ok {
			when = ts.Format("2006-01-02 15:04")
		}

		mark := cliui.SuccessMark
		if !tx.Settled() {
			mark = cliui.WarnStyle.Render("…")
		}

		line := fmt.Sprintf("  %s %s  %-32s %s",
			mark,
			cliui.DimStyle.Render(when),
			utils.Truncate(tx.Title(), 32),
			cliui.SignedAmount(tx.Amount, tx.Credit()),
		)
		if tx.Description != "" {
			line += "  " + cliui.DimStyle.Render(utils.Truncate(tx.Description, 40))
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)

	return nil
}
