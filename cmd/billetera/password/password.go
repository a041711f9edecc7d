// Package passwordcmder provides the password command for changing the
// account password.
package passwordcmder

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/billetera/cmd/billetera/cmdenv"
	"github.com/papercomputeco/billetera/pkg/api"
	"github.com/papercomputeco/billetera/pkg/cliui"
	"github.com/papercomputeco/billetera/pkg/config"
)

const passwordLongDesc string = `Change your account password.

Prompts for the current password, the new one, and a confirmation. All
three are read without echo on a terminal, or as lines from stdin when
piped. The new password must have at least 6 characters.

Examples:
  billetera password
  printf 'old\nnew-pass\nnew-pass\n' | billetera password`

const passwordShortDesc string = "Change the account password"

// ErrMismatch is returned when the confirmation differs from the new password.
var ErrMismatch = errors.New("new password and confirmation do not match")

type passwordCommander struct {
	flags cmdenv.Flags
	env   *cmdenv.Env
}

func NewPasswordCmd() *cobra.Command {
	cmder := &passwordCommander{}

	cmd := &cobra.Command{
		Use:   "password",
		Short: passwordShortDesc,
		Long:  passwordLongDesc,
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

	return cmd
}

func (c *passwordCommander) run(ctx context.Context) error {
	sess, err := c.env.Session()
	if err != nil {
		return err
	}

	current, err := c.env.Prompt.Secret("Current password: ")
	if err != nil {
		return err
	}
	next, err := c.env.Prompt.Secret("New password: ")
	if err != nil {
		return err
	}
	if len(next) < api.MinPasswordLength {
		return api.ErrPasswordTooShort
	}
	confirm, err := c.env.Prompt.Secret("Confirm new password: ")
	if err != nil {
		return err
	}
	if confirm != next {
		return ErrMismatch
	}

	// A wrong current password is also a 401, so the session is kept.
	msg, err := c.env.APIClient(sess).ChangePassword(ctx, current, next)
	if err != nil {
		return fmt.Errorf("changing password: %w", err)
	}
	if msg == "" {
		msg = "Password updated"
	}

	fmt.Fprintf(c.env.Out, "  %s %s\n", cliui.SuccessMark, msg)
	return nil
}
