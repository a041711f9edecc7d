package configcmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/billetera/pkg/cliui"
	"github.com/papercomputeco/billetera/pkg/config"
)

const getLongDesc string = `Get a configuration value.

Reads the value for the given key from the config.toml file stored in the
.billetera/ directory.

Examples:
  billetera config get client.api_target
  billetera config get chat.render`

const getShortDesc string = "Get a configuration value"

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: getShortDesc,
		Long:  getLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runGet(cmd.OutOrStdout(), args[0], configDir)
		},
		ValidArgsFunction: completeKeys,
	}

	return cmd
}

func runGet(w io.Writer, key, configDir string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	printTarget(w, cfger)

	value, err := cfger.GetConfigValue(key)
	if err != nil {
		return err
	}

	if value == "" {
		fmt.Fprintf(w, "  %s  %s\n\n", cliui.KeyStyle.Render(key), cliui.DimStyle.Render("<not set>"))
	} else {
		fmt.Fprintf(w, "  %s  %s\n\n", cliui.KeyStyle.Render(key), cliui.ValueStyle.Render(value))
	}

	return nil
}
