package logincmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/billetera/cmd/billetera/cmdenv"
	"github.com/papercomputeco/billetera/pkg/cliui"
)

const logoutLongDesc string = `Log out by deleting the stored session.

The backend issues stateless tokens, so logging out only forgets the token
locally. Running logout without a session is not an error.

Examples:
  billetera logout`

const logoutShortDesc string = "Delete the stored session"

func NewLogoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: logoutShortDesc,
		Long:  logoutLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := cmdenv.Load(cmd, nil)
			if err != nil {
				return err
			}
			defer env.Close()

			if err := env.Sessions.Clear(); err != nil {
				return fmt.Errorf("clearing session: %w", err)
			}

			fmt.Fprintf(env.Out, "  %s Logged out\n", cliui.SuccessMark)
			return nil
		},
	}

	return cmd
}
