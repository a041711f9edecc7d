package configcmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/billetera/pkg/config"
)

const listLongDesc string = `List all configuration values.

Examples:
  billetera config list`

const listShortDesc string = "List all configuration values"

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runList(cmd.OutOrStdout(), configDir)
		},
	}

	return cmd
}

func runList(w io.Writer, configDir string) error {
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if target := cfger.GetTarget(); target != "" {
		fmt.Fprintf(w, "Using config file: %s\n\n", target)
	} else {
		fmt.Fprint(w, "No config file found. Using default config.\n\n")
	}

	keys := config.ValidConfigKeys()

	maxLen := 0
	for _, k := range keys {
		maxLen = max(maxLen, len(k))
	}

	for _, key := range keys {
		value, err := cfger.GetConfigValue(key)
		if err != nil {
			return err
		}

		if value == "" {
			fmt.Fprintf(w, "%-*s = <not set>\n", maxLen, key)
		} else {
			fmt.Fprintf(w, "%-*s = %q\n", maxLen, key, value)
		}
	}

	return nil
}
