package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/billetera/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the BILLETERA_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (BILLETERA_CLIENT_API_TARGET, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("BILLETERA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// FromViper materializes a Config from the resolved viper precedence chain.
func FromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Version: v.GetInt("version"),
		Client: ClientConfig{
			APITarget: strings.TrimRight(v.GetString("client.api_target"), "/"),
			ChatPath:  v.GetString("client.chat_path"),
			Timeout:   v.GetString("client.timeout"),
		},
		Chat: ChatConfig{
			Render: v.GetString("chat.render"),
		},
		Output: OutputConfig{
			Format: v.GetString("output.format"),
		},
	}

	applyDefaults(cfg)

	return cfg
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	v.SetDefault("client.api_target", d.Client.APITarget)
	v.SetDefault("client.chat_path", d.Client.ChatPath)
	v.SetDefault("client.timeout", d.Client.Timeout)

	v.SetDefault("chat.render", d.Chat.Render)

	v.SetDefault("output.format", d.Output.Format)
}
