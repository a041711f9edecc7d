// Package profilecmder provides the profile command, the terminal version of
// the dashboard header: holder, balance and linked RFID cards.
package profilecmder

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/billetera/cmd/billetera/cmdenv"
	"github.com/papercomputeco/billetera/pkg/api"
	"github.com/papercomputeco/billetera/pkg/cliui"
	"github.com/papercomputeco/billetera/pkg/config"
)

const profileLongDesc string = `Show your wallet: holder, balance and RFID cards.

Requires a session from "billetera login".

Examples:
  billetera profile
  billetera balance
  billetera profile -o json`

const profileShortDesc string = "Show balance and linked cards"

type profileCommander struct {
	flags cmdenv.Flags
	env   *cmdenv.Env
}

func NewProfileCmd() *cobra.Command {
	cmder := &profileCommander{}

	cmd := &cobra.Command{
		Use:     "profile",
		Aliases: []string{"balance"},
		Short:   profileShortDesc,
		Long:    profileLongDesc,
		Args:    cobra.NoArgs,
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

	return cmd
}

func (c *profileCommander) run(ctx context.Context) error {
	sess, err := c.env.Session()
	if err != nil {
		return err
	}

	printer, err := c.env.Printer()
	if err != nil {
		return err
	}

	profile, err := c.env.APIClient(sess).Profile(ctx)
	if err != nil {
		return c.env.Backend(fmt.Errorf("fetching profile: %w", err))
	}

	return printer.Print(profile, func(w io.Writer) error {
		return writeProfile(w, profile)
	})
}

func writeProfile(w io.Writer, p *api.Profile) error {
	fmt.Fprintf(w, "\n  %s %s\n", cliui.NameStyle.Render(p.User.Name), cliui.DimStyle.Render(p.User.Contact()))
	fmt.Fprintf(w, "  %s  %s\n", cliui.KeyStyle.Render("CI:     "), cliui.ValueStyle.Render(string(p.User.CI)))
	fmt.Fprintf(w, "  %s  %s\n\n", cliui.KeyStyle.Render("Balance:"), cliui.AmountStyle.Render(cliui.FormatAmount(p.User.Balance)))

	if len(p.Cards) == 0 {
		fmt.Fprintf(w, "  %s\n\n", cliui.DimStyle.Render("No RFID cards linked."))
		return nil
	}

	fmt.Fprintf(w, "  %s\n", cliui.HeaderStyle.Render("Cards"))
	for _, card := range p.Cards {
		state := cliui.SuccessMark + " active"
		if !card.Active {
			state = cliui.FailMark + " inactive"
		}
		fmt.Fprintf(w, "  %s  %s\n", cliui.HashStyle.Render(card.UID), state)
	}
	fmt.Fprintln(w)

	return nil
}
