// Package redeemcmder provides the redeem command for crediting the wallet
// with a prepaid top-up card code.
package redeemcmder

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/billetera/cmd/billetera/cmdenv"
	"github.com/papercomputeco/billetera/pkg/api"
	"github.com/papercomputeco/billetera/pkg/cliui"
	"github.com/papercomputeco/billetera/pkg/config"
)

const redeemLongDesc string = `Redeem a prepaid top-up card.

The code is trimmed and upper-cased before it is sent. With --available,
list the unused cards the backend still has, grouped by amount.

Examples:
  billetera redeem abcd-1234-efgh
  billetera redeem --available`

const redeemShortDesc string = "Redeem a top-up card code"

type redeemCommander struct {
	flags     cmdenv.Flags
	available bool

	env *cmdenv.Env
}

func NewRedeemCmd() *cobra.Command {
	cmder := &redeemCommander{}

	cmd := &cobra.Command{
		Use:   "redeem [code]",
		Short: redeemShortDesc,
		Long:  redeemLongDesc,
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.env, err = cmdenv.Load(cmd, &cmder.flags)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer cmder.env.Close()

			if cmder.available {
				return cmder.runAvailable(cmd.Context())
			}
			if len(args) == 0 {
				return errors.New("card code argument required (or use --available)")
			}
			return cmder.run(cmd.Context(), args[0])
		},
	}

	cmder.flags.Register(cmd, config.FlagAPITarget, config.FlagTimeout, config.FlagOutput)
	cmd.Flags().BoolVar(&cmder.available, "available", false, "List unused top-up cards by amount")

	return cmd
}

func (c *redeemCommander) run(ctx context.Context, code string) error {
	sess, err := c.env.Session()
	if err != nil {
		return err
	}

	printer, err := c.env.Printer()
	if err != nil {
		return err
	}

	result, err := c.env.APIClient(sess).Redeem(ctx, code)
	if err != nil {
		return c.env.Backend(fmt.Errorf("redeeming card: %w", err))
	}

	return printer.Print(result, func(w io.Writer) error {
		fmt.Fprintf(w, "\n  %s Redeemed %s for %s\n",
			cliui.SuccessMark,
			cliui.HashStyle.Render(api.NormalizeCode(code)),
			cliui.AmountStyle.Render("+"+cliui.FormatAmount(result.Amount)),
		)
		fmt.Fprintf(w, "  %s  %s\n\n",
			cliui.KeyStyle.Render("New balance:"),
			cliui.ValueStyle.Render(cliui.FormatAmount(result.NewBalance)),
		)
		return nil
	})
}

func (c *redeemCommander) runAvailable(ctx context.Context) error {
	sess, err := c.env.Session()
	if err != nil {
		return err
	}

	printer, err := c.env.Printer()
	if err != nil {
		return err
	}

	cards, err := c.env.APIClient(sess).AvailableCards(ctx)
	if err != nil {
		return c.env.Backend(fmt.Errorf("listing available cards: %w", err))
	}

	return printer.Print(cards, func(w io.Writer) error {
		if len(cards) == 0 {
			fmt.Fprintf(w, "  %s\n", cliui.DimStyle.Render("No top-up cards available."))
			return nil
		}
		fmt.Fprintf(w, "\n  %s\n", cliui.HeaderStyle.Render("Available cards"))
		for _, group := range cards {
			fmt.Fprintf(w, "  %12s  %s\n",
				cliui.AmountStyle.Render(cliui.FormatAmount(group.Amount)),
				cliui.DimStyle.Render(fmt.Sprintf("x%d", group.Quantity)),
			)
		}
		fmt.Fprintln(w)
		return nil
	})
}
