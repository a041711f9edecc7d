package configcmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/billetera/pkg/cliui"
	"github.com/papercomputeco/billetera/pkg/config"
)

const setLongDesc string = `Set a configuration value.

Writes the key to config.toml in the .billetera/ directory. Values are
validated: client.timeout must be a duration, chat.render one of
markdown, html or plain, and output.format one of text, json or yaml.

Examples:
  billetera config set client.api_target http://localhost:5000
  billetera config set client.timeout 2m
  billetera config set output.format json`

const setShortDesc string = "Set a configuration value"

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: setShortDesc,
		Long:  setLongDesc,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runSet(cmd.OutOrStdout(), args[0], args[1], configDir)
		},
		ValidArgsFunction: completeKeys,
	}

	return cmd
}

func runSet(w io.Writer, key, value, configDir string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	printTarget(w, cfger)

	if err := cfger.SetConfigValue(key, value); err != nil {
		return err
	}

	fmt.Fprintf(w, "  %s Set %s = %s\n\n",
		cliui.SuccessMark,
		cliui.KeyStyle.Render(key),
		cliui.ValueStyle.Render(value),
	)
	return nil
}
