// Package config handles loading and managing askai settings.
//
// Settings are non-secret: the default provider, the request timeout, and
// per-provider model overrides. API keys are deliberately kept out of this
// file and handled by the credentials package. The settings file is TOML,
// located per the XDG Base Directory specification, and entirely optional —
// a missing file means the built-in defaults apply.
//
// Example TOML configuration:
//
//	default_provider = "groq"
//	request_timeout_seconds = 60
//
//	[providers.groq]
//	model = "llama-3.3-70b-versatile"
//
//	[providers.ollama]
//	base_url = "http://localhost:11434"
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	appName        = "askai"
	configFileName = "config.toml"
)

// Config holds the application's settings.
type Config struct {
	// DefaultProvider is the provider used when none is named on the
	// command line. Must match a key in Providers.
	DefaultProvider string `toml:"default_provider"`

	// RequestTimeoutSeconds bounds each provider API request. If <= 0, a
	// default of 60 seconds is used.
	RequestTimeoutSeconds int `toml:"request_timeout_seconds"`

	// Providers contains per-provider settings keyed by provider name.
	Providers map[string]ProviderConfig `toml:"providers"`
}

// ProviderConfig holds the non-secret settings for one provider.
type ProviderConfig struct {
	// Model overrides the provider's built-in default model.
	Model string `toml:"model,omitempty"`

	// BaseURL is the server address for self-hosted providers (ollama).
	// Cloud providers ignore it.
	BaseURL string `toml:"base_url,omitempty"`
}

// DefaultModels maps each supported provider to the model used when neither
// the settings file nor the command line names one.
var DefaultModels = map[string]string{
	"groq":      "llama-3.3-70b-versatile",
	"openai":    "gpt-4-turbo-preview",
	"anthropic": "claude-3-5-sonnet-20241022",
	"gemini":    "gemini-pro",
	"ollama":    "llama3",
}

func defaultConfig() Config {
	return Config{
		DefaultProvider:       "groq",
		RequestTimeoutSeconds: 60,
		Providers: map[string]ProviderConfig{
			"groq":      {},
			"openai":    {},
			"anthropic": {},
			"gemini":    {},
			"ollama":    {BaseURL: "http://localhost:11434"},
		},
	}
}

// FilePath determines the settings file path based on XDG specs:
// $XDG_CONFIG_HOME/askai/config.toml, or $HOME/.config/askai/config.toml.
// The returned path may not exist.
func FilePath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not determine user home directory: %w", err)
		}
		configHome = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configHome, appName, configFileName), nil
}

// Load reads the settings file from the default location and merges it over
// the built-in defaults. A missing file is not an error.
func Load() (Config, error) {
	cfgPath, err := FilePath()
	if err != nil {
		return Config{}, fmt.Errorf("failed to determine config path: %w", err)
	}
	return loadPath(cfgPath, true)
}

// LoadFromFile loads settings from a specific file path, merged over the
// defaults. Unlike Load, the file must exist.
func LoadFromFile(filePath string) (Config, error) {
	return loadPath(filePath, false)
}

func loadPath(cfgPath string, missingOK bool) (Config, error) {
	cfg := defaultConfig()

	_, err := os.Stat(cfgPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if missingOK {
				return cfg, nil
			}
			return Config{}, fmt.Errorf("configuration file not found at %s", cfgPath)
		}
		return Config{}, fmt.Errorf("failed to access config file %s: %w", cfgPath, err)
	}

	meta, err := toml.DecodeFile(cfgPath, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to decode TOML config file %s: %w", cfgPath, err)
	}
	if len(meta.Undecoded()) > 0 {
		fmt.Fprintf(os.Stderr, "Warning: unknown configuration keys in %s: %v\n", cfgPath, meta.Undecoded())
	}

	if _, exists := cfg.Providers[cfg.DefaultProvider]; !exists {
		return Config{}, fmt.Errorf("default provider '%s' has no [providers] section", cfg.DefaultProvider)
	}
	return cfg, nil
}

// NewConfig creates settings programmatically, without file I/O. Suitable for
// library usage and tests.
func NewConfig(defaultProvider string, timeoutSeconds int, providers map[string]ProviderConfig) Config {
	return Config{
		DefaultProvider:       defaultProvider,
		RequestTimeoutSeconds: timeoutSeconds,
		Providers:             providers,
	}
}

// ProviderConfig retrieves the settings for a given provider.
func (c *Config) ProviderConfig(provider string) (ProviderConfig, bool) {
	pc, exists := c.Providers[provider]
	return pc, exists
}

// ModelFor resolves the model for a provider: an explicit override wins, then
// the settings file, then the built-in default.
func (c *Config) ModelFor(provider, override string) string {
	if override != "" {
		return override
	}
	if pc, ok := c.Providers[provider]; ok && pc.Model != "" {
		return pc.Model
	}
	return DefaultModels[provider]
}

// Timeout returns the request timeout in seconds, substituting the default
// when the configured value is unset or invalid.
func (c *Config) Timeout() int {
	if c.RequestTimeoutSeconds <= 0 {
		return 60
	}
	return c.RequestTimeoutSeconds
}
