package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g., --api-target
// on "billetera login", "billetera profile" and "billetera chat").
type Flag struct {
	// Name is the long flag name (e.g. "api-target").
	Name string

	// Shorthand is the one-letter short flag (e.g. "a"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "client.api_target").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
const (
	FlagAPITarget = "api-target"
	FlagChatPath  = "chat-path"
	FlagTimeout   = "timeout"
	FlagRender    = "render"
	FlagOutput    = "output"
)

// ClientFlags is the registry shared by every command that talks to the backend.
var ClientFlags = FlagSet{
	FlagAPITarget: {
		Name:        "api-target",
		Shorthand:   "a",
		ViperKey:    "client.api_target",
		Description: "Wallet backend URL",
	},
	FlagChatPath: {
		Name:        "chat-path",
		ViperKey:    "client.chat_path",
		Description: "Path of the AI chat endpoint",
	},
	FlagTimeout: {
		Name:        "timeout",
		ViperKey:    "client.timeout",
		Description: "HTTP client timeout (e.g. 30s, 5m)",
	},
	FlagRender: {
		Name:        "render",
		Shorthand:   "r",
		ViperKey:    "chat.render",
		Description: "Final render of assistant answers: markdown, html or plain",
	},
	FlagOutput: {
		Name:        "output",
		Shorthand:   "o",
		ViperKey:    "output.format",
		Description: "Output format: text, json or yaml",
	},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}
