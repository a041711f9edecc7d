package config

const (
	defaultAPITarget     = "http://localhost:5000"
	defaultChatPath      = "/api/ai-chat"
	defaultClientTimeout = "5m"

	defaultRender       = "markdown"
	defaultOutputFormat = "text"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Client: ClientConfig{
			APITarget: defaultAPITarget,
			ChatPath:  defaultChatPath,
			Timeout:   defaultClientTimeout,
		},
		Chat: ChatConfig{
			Render: defaultRender,
		},
		Output: OutputConfig{
			Format: defaultOutputFormat,
		},
	}
}
