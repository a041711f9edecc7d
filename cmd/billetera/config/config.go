// Package configcmder provides the config command for managing persistent
// billetera configuration stored in the .billetera/ directory.
package configcmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/billetera/pkg/cliui"
	"github.com/papercomputeco/billetera/pkg/config"
)

const configLongDesc string = `Manage persistent billetera configuration.

Configuration is stored as config.toml in the .billetera/ directory and
provides default values for command flags. CLI flags and BILLETERA_*
environment variables take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  client.api_target, client.chat_path, client.timeout,
  chat.render, output.format

Use subcommands to get, set, or list configuration values:
  billetera config set <key> <value>    Set a configuration value
  billetera config get <key>            Get a configuration value
  billetera config list                 List all configuration values

Examples:
  billetera config set client.api_target https://wallet.example.com
  billetera config set chat.render plain
  billetera config get client.timeout
  billetera config list`

const configShortDesc string = "Manage persistent billetera configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

func completeKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func checkKey(key string) error {
	if !config.IsValidConfigKey(key) {
		return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
			key, strings.Join(config.ValidConfigKeys(), ", "))
	}
	return nil
}

func printTarget(w io.Writer, cfger *config.Configer) {
	if target := cfger.GetTarget(); target != "" {
		fmt.Fprintf(w, "\n  %s %s\n\n",
			cliui.KeyStyle.Render("Config file:"),
			cliui.DimStyle.Render(target),
		)
		return
	}
	fmt.Fprintf(w, "\n  %s\n\n", cliui.DimStyle.Render("No config file found. Using defaults."))
}
