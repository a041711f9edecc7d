// Package logincmder provides the login and logout commands, which create
// and discard the session stored in the .billetera/ directory.
package logincmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/billetera/cmd/billetera/cmdenv"
	"github.com/papercomputeco/billetera/pkg/cliui"
	"github.com/papercomputeco/billetera/pkg/config"
	"github.com/papercomputeco/billetera/pkg/session"
)

const loginLongDesc string = `Log in to the wallet backend.

The username may be your CI, email or name. The password is read without
echo on a terminal, or as a line from stdin when piped. The access token
issued by the backend is stored in session.json in the .billetera/
directory and used by every other command.

Examples:
  billetera login -u 4567890
  billetera login -u ana@example.com --api-target http://wallet.local:5000
  printf 'ana\ns3cret\n' | billetera login`

const loginShortDesc string = "Log in and store a session"

type loginCommander struct {
	flags    cmdenv.Flags
	username string

	env *cmdenv.Env
}

func NewLoginCmd() *cobra.Command {
	cmder := &loginCommander{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: loginShortDesc,
		Long:  loginLongDesc,
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

	cmder.flags.Register(cmd, config.FlagAPITarget, config.FlagTimeout)
	cmd.Flags().StringVarP(&cmder.username, "username", "u", "", "CI, email or name")

	return cmd
}

func (c *loginCommander) run(ctx context.Context) error {
	username := c.username
	if username == "" {
		var err error
		username, err = c.env.Prompt.Line("Username (CI, email or name): ")
		if err != nil {
			return fmt.Errorf("reading username: %w", err)
		}
	}

	password, err := c.env.Prompt.Secret("Password: ")
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	client := c.env.APIClient(nil)
	c.env.Logger.Debug("logging in", zap.String("api_target", client.BaseURL()))

	resp, err := client.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("logging in: %w", err)
	}

	if err := c.env.Sessions.Save(session.New(resp)); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	fmt.Fprintf(c.env.Out, "\n  %s Logged in as %s %s\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(resp.User.Name),
		cliui.DimStyle.Render("("+resp.User.Contact()+")"),
	)
	fmt.Fprintf(c.env.Out, "  %s  %s\n\n",
		cliui.KeyStyle.Render("Balance:"),
		cliui.AmountStyle.Render(cliui.FormatAmount(resp.User.Balance)),
	)

	return nil
}
