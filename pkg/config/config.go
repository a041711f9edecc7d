package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/billetera/pkg/dotdir"
)

const (
	configFile = "config.toml"

	// v0 is the alpha version of the config
	v0 = 0

	// CurrentV is the currently supported version, points to v0
	CurrentV = v0
)

type Configer struct {
	ddm        *dotdir.Manager
	targetPath string
}

func NewConfiger(override string) (*Configer, error) {
	cfger := &Configer{}

	cfger.ddm = dotdir.NewManager()
	target, err := cfger.ddm.Target(override)
	if err != nil {
		return nil, err
	}

	if target == "" {
		return cfger, nil
	}

	path := filepath.Join(target, configFile)
	_, err = os.Stat(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfger.targetPath = path

	return cfger, nil
}

// ValidConfigKeys returns all supported configuration key names in the
// order of the TOML section layout.
func ValidConfigKeys() []string {
	ordered := []string{
		"client.api_target",
		"client.chat_path",
		"client.timeout",
		"chat.render",
		"output.format",
	}

	result := make([]string, 0, len(ordered))
	for _, k := range ordered {
		if _, ok := configKeys[k]; ok {
			result = append(result, k)
		}
	}

	return result
}

// IsValidConfigKey returns true if the given key is a supported configuration key.
func IsValidConfigKey(key string) bool {
	_, ok := configKeys[key]
	return ok
}

func (c *Configer) GetTarget() string {
	return c.targetPath
}

// LoadConfig loads the configuration from config.toml in the target
// .billetera/ directory. If the file does not exist, returns
// NewDefaultConfig() so callers always receive a fully-populated Config.
// Fields explicitly set in the file override the defaults.
func (c *Configer) LoadConfig() (*Config, error) {
	if c.targetPath == "" {
		return NewDefaultConfig(), nil
	}

	data, err := os.ReadFile(c.targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewDefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := ParseConfigTOML(data)
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults fills zero-value fields in cfg with values from NewDefaultConfig().
func applyDefaults(cfg *Config) {
	defaults := NewDefaultConfig()

	if cfg.Version == 0 {
		cfg.Version = defaults.Version
	}

	if cfg.Client.APITarget == "" {
		cfg.Client.APITarget = defaults.Client.APITarget
	}
	if cfg.Client.ChatPath == "" {
		cfg.Client.ChatPath = defaults.Client.ChatPath
	}
	if cfg.Client.Timeout == "" {
		cfg.Client.Timeout = defaults.Client.Timeout
	}

	if cfg.Chat.Render == "" {
		cfg.Chat.Render = defaults.Chat.Render
	}

	if cfg.Output.Format == "" {
		cfg.Output.Format = defaults.Output.Format
	}
}

// SaveConfig persists the configuration to config.toml in the target .billetera/ directory.
func (c *Configer) SaveConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("cannot save nil config")
	}

	if c.targetPath == "" {
		return errors.New("cannot save empty target path")
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(c.targetPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// SetConfigValue loads the config, sets the given key to the given value, and saves it.
// Returns an error if the key is not a valid config key.
func (c *Configer) SetConfigValue(key string, value string) error {
	info, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return err
	}

	if err := info.set(cfg, value); err != nil {
		return err
	}

	return c.SaveConfig(cfg)
}

// GetConfigValue loads the config and returns the string representation of the given key.
// Returns an error if the key is not a valid config key.
func (c *Configer) GetConfigValue(key string) (string, error) {
	info, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return "", err
	}

	return info.get(cfg), nil
}

// ParseConfigTOML parses raw TOML bytes into a Config.
// Returns an error if the version field is present and not equal to CurrentV.
func ParseConfigTOML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}

	if cfg.Version != 0 && cfg.Version != CurrentV {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentV)
	}

	return cfg, nil
}
