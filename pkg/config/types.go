package config

import (
	"fmt"
	"slices"
	"time"
)

// Config represents the persistent billetera configuration stored as
// config.toml in the .billetera/ directory. The TOML layout uses sections for
// logical grouping.
type Config struct {
	Version int          `toml:"version"`
	Client  ClientConfig `toml:"client"`
	Chat    ChatConfig   `toml:"chat"`
	Output  OutputConfig `toml:"output"`
}

// ClientConfig holds settings for reaching the wallet backend.
// APITarget is a full URL (scheme + host + port).
type ClientConfig struct {
	APITarget string `toml:"api_target,omitempty"`
	ChatPath  string `toml:"chat_path,omitempty"`
	Timeout   string `toml:"timeout,omitempty"`
}

// ChatConfig holds settings for the AI assistant.
type ChatConfig struct {
	// Render selects the final render pass for a finished answer:
	// "markdown" (glamour, terminal), "html" (goldmark) or "plain".
	Render string `toml:"render,omitempty"`
}

// OutputConfig holds settings for read commands (profile, history, admin).
type OutputConfig struct {
	Format string `toml:"format,omitempty"`
}

// TimeoutDuration parses Timeout, falling back to the default on empty input.
func (c ClientConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return time.ParseDuration(defaultClientTimeout)
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid client.timeout %q: %w", c.Timeout, err)
	}
	return d, nil
}

var (
	validRenderModes   = []string{"markdown", "html", "plain"}
	validOutputFormats = []string{"text", "json", "yaml"}
)

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"client.api_target": {
		get: func(c *Config) string { return c.Client.APITarget },
		set: func(c *Config, v string) error { c.Client.APITarget = v; return nil },
	},
	"client.chat_path": {
		get: func(c *Config) string { return c.Client.ChatPath },
		set: func(c *Config, v string) error { c.Client.ChatPath = v; return nil },
	},
	"client.timeout": {
		get: func(c *Config) string { return c.Client.Timeout },
		set: func(c *Config, v string) error {
			if _, err := time.ParseDuration(v); err != nil {
				return fmt.Errorf("invalid value for client.timeout: %w", err)
			}
			c.Client.Timeout = v
			return nil
		},
	},
	"chat.render": {
		get: func(c *Config) string { return c.Chat.Render },
		set: func(c *Config, v string) error {
			if !slices.Contains(validRenderModes, v) {
				return fmt.Errorf("invalid value for chat.render: %q (available: %v)", v, validRenderModes)
			}
			c.Chat.Render = v
			return nil
		},
	},
	"output.format": {
		get: func(c *Config) string { return c.Output.Format },
		set: func(c *Config, v string) error {
			if !slices.Contains(validOutputFormats, v) {
				return fmt.Errorf("invalid value for output.format: %q (available: %v)", v, validOutputFormats)
			}
			c.Output.Format = v
			return nil
		},
	},
}
