// Package transfercmder provides the transfer command for sending money to
// another wallet holder by CI.
package transfercmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/billetera/cmd/billetera/cmdenv"
	"github.com/papercomputeco/billetera/pkg/api"
	"github.com/papercomputeco/billetera/pkg/cliui"
	"github.com/papercomputeco/billetera/pkg/config"
)

const transferLongDesc string = `Send money to another wallet holder.

The recipient is looked up by CI first and shown by name. On a terminal
you are asked to confirm unless --yes is given.

Examples:
  billetera transfer 1234567 25.50
  billetera transfer 1234567 10 -m "lunch"
  billetera transfer 1234567 10 --yes -o json`

const transferShortDesc string = "Send money to another CI"

// ErrAborted is returned when the user declines the confirmation.
var ErrAborted = errors.New("transfer aborted")

type transferCommander struct {
	flags       cmdenv.Flags
	description string
	yes         bool

	env *cmdenv.Env
}

func NewTransferCmd() *cobra.Command {
	cmder := &transferCommander{}

	cmd := &cobra.Command{
		Use:   "transfer <ci> <amount>",
		Short: transferShortDesc,
		Long:  transferLongDesc,
		Args:  cobra.ExactArgs(2),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.env, err = cmdenv.Load(cmd, &cmder.flags)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer cmder.env.Close()

			amount, err := ParseAmount(args[1])
			if err != nil {
				return err
			}
			return cmder.run(cmd.Context(), args[0], amount)
		},
	}

	cmder.flags.Register(cmd, config.FlagAPITarget, config.FlagTimeout, config.FlagOutput)
	cmd.Flags().StringVarP(&cmder.description, "message", "m", "", "Description shown to both parties")
	cmd.Flags().BoolVarP(&cmder.yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

// ParseAmount parses a positive amount. A comma decimal separator is accepted.
func ParseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if v <= 0 {
		return 0, api.ErrInvalidAmount
	}
	return v, nil
}

func (c *transferCommander) run(ctx context.Context, ci string, amount float64) error {
	sess, err := c.env.Session()
	if err != nil {
		return err
	}

	printer, err := c.env.Printer()
	if err != nil {
		return err
	}

	client := c.env.APIClient(sess)

	recipient, err := client.SearchUser(ctx, ci)
	if err != nil {
		if api.IsNotFound(err) {
			return fmt.Errorf("no wallet holder with CI %s", strings.TrimSpace(ci))
		}
		return c.env.Backend(fmt.Errorf("looking up recipient: %w", err))
	}

	if !c.yes && c.env.Prompt.Interactive() {
		answer, err := c.env.Prompt.Line(fmt.Sprintf("  Send %s to %s (CI %s)? [y/N] ",
			cliui.AmountStyle.Render(cliui.FormatAmount(amount)),
			cliui.NameStyle.Render(recipient.Name),
			recipient.CI,
		))
		if err != nil {
			return err
		}
		if a := strings.ToLower(answer); a != "y" && a != "yes" {
			return ErrAborted
		}
	}

	result, err := client.Transfer(ctx, api.TransferRequest{
		RecipientCI: ci,
		Amount:      amount,
		Description: c.description,
	})
	if err != nil {
		return c.env.Backend(fmt.Errorf("transferring: %w", err))
	}

	return printer.Print(result, func(w io.Writer) error {
		to := result.Recipient
		if to == "" {
			to = recipient.Name
		}
		fmt.Fprintf(w, "\n  %s Sent %s to %s\n",
			cliui.SuccessMark,
			cliui.AmountStyle.Render(cliui.FormatAmount(amount)),
			cliui.NameStyle.Render(to),
		)
		fmt.Fprintf(w, "  %s  %s\n\n",
			cliui.KeyStyle.Render("New balance:"),
			cliui.ValueStyle.Render(cliui.FormatAmount(result.NewBalance)),
		)
		return nil
	})
}
