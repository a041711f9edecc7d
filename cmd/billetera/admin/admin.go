// Package admincmder provides the admin lookups of the wallet's operator
// panel: holders by CI, card terminals and RFID card balances. These
// endpoints do not require a session.
package admincmder

import (
	"github.com/spf13/cobra"

	"github.com/papercomputeco/billetera/cmd/billetera/cmdenv"
	"github.com/papercomputeco/billetera/pkg/config"
)

const adminLongDesc string = `Operator lookups against the wallet backend.

These mirror the admin panel and are served by the backend without a
bearer token.

Examples:
  billetera admin user 1234567
  billetera admin terminal 3
  billetera admin card 04A1B2C3`

const adminShortDesc string = "Operator lookups (users, terminals, cards)"

func NewAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: adminShortDesc,
		Long:  adminLongDesc,
	}

	cmd.AddCommand(newUserCmd())
	cmd.AddCommand(newTerminalCmd())
	cmd.AddCommand(newCardCmd())

	return cmd
}

// lookupCommander is shared by the admin subcommands.
type lookupCommander struct {
	flags cmdenv.Flags
	env   *cmdenv.Env
}

func (l *lookupCommander) register(cmd *cobra.Command) {
	l.flags.Register(cmd, config.FlagAPITarget, config.FlagTimeout, config.FlagOutput)
	cmd.PreRunE = func(cmd *cobra.Command, _ []string) error {
		var err error
		l.env, err = cmdenv.Load(cmd, &l.flags)
		return err
	}
}
