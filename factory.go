// Package askai provides the factory for creating provider adapters.
package askai

import (
	"context"
	"fmt"

	"github.com/xostack/askai/anthropic"
	"github.com/xostack/askai/chat"
	"github.com/xostack/askai/config"
	"github.com/xostack/askai/credentials"
	"github.com/xostack/askai/gemini"
	"github.com/xostack/askai/groq"
	"github.com/xostack/askai/ollama"
	"github.com/xostack/askai/openai"
)

// GetProvider is a factory function that returns a provider adapter for the
// named provider, resolved once at startup.
//
// providerName selects the adapter; an empty name falls back to the
// configuration's default provider. modelOverride takes precedence over the
// settings file, which takes precedence over the built-in default model.
// Credentials are resolved through the store (file entry first, then the
// provider's environment variable); a missing key surfaces as a
// *credentials.ConfigError before any request is made. Ollama needs no
// credential, only a configured base URL.
//
// Supported providers: "groq", "openai", "anthropic", "gemini", "ollama".
//
// Making it a variable to allow for easy mocking in tests.
var GetProvider func(ctx context.Context, cfg config.Config, store *credentials.Store, providerName, modelOverride string, debugMode bool) (chat.Provider, error) = func(ctx context.Context, cfg config.Config, store *credentials.Store, providerName, modelOverride string, debugMode bool) (chat.Provider, error) {
	if providerName == "" {
		providerName = cfg.DefaultProvider
	}
	if providerName == "" {
		return nil, fmt.Errorf("no default provider specified in configuration")
	}

	pc, exists := cfg.ProviderConfig(providerName)
	if !exists {
		return nil, fmt.Errorf("configuration for provider '%s' not found", providerName)
	}

	model := cfg.ModelFor(providerName, modelOverride)
	timeout := cfg.Timeout()

	switch providerName {
	case "groq":
		apiKey, err := store.Resolve(providerName)
		if err != nil {
			return nil, err
		}
		return groq.NewClient(apiKey, model, timeout, debugMode)
	case "openai":
		apiKey, err := store.Resolve(providerName)
		if err != nil {
			return nil, err
		}
		return openai.NewClient(apiKey, model, timeout, debugMode)
	case "anthropic":
		apiKey, err := store.Resolve(providerName)
		if err != nil {
			return nil, err
		}
		return anthropic.NewClient(apiKey, model, timeout, debugMode)
	case "gemini":
		apiKey, err := store.Resolve(providerName)
		if err != nil {
			return nil, err
		}
		return gemini.NewClient(ctx, apiKey, model, timeout, debugMode)
	case "ollama":
		if pc.BaseURL == "" {
			return nil, fmt.Errorf("base URL for Ollama not found in configuration")
		}
		return ollama.NewClient(pc.BaseURL, model, timeout, debugMode)
	default:
		return nil, fmt.Errorf("unsupported provider: %s (supported: groq, openai, anthropic, gemini, ollama)", providerName)
	}
}
