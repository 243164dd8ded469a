// Package credentials resolves and persists API keys for the supported
// providers.
//
// Keys live in a single JSON object mapping provider name to API key, stored
// at a fixed per-user path following the XDG Base Directory specification
// ($XDG_CONFIG_HOME/askai/credentials.json, falling back to
// ~/.config/askai/credentials.json). The file contains secrets and is written
// with owner-only permissions.
//
// Resolution precedence is: credentials file entry first, then the provider's
// environment variable, else a *ConfigError.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	appName         = "askai"
	credentialsFile = "credentials.json"
	dirPerm         = 0750 // rwxr-x---
	filePerm        = 0600 // rw------- (contains secrets)
)

// envVars maps provider names to their fallback environment variable.
var envVars = map[string]string{
	"groq":      "GROQ_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"gemini":    "GEMINI_API_KEY",
}

// ConfigError reports a missing or unresolvable credential for a provider.
type ConfigError struct {
	Provider string
	Reason   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("credentials for %s: %s", e.Provider, e.Reason)
}

// Store reads and writes the per-user credential file.
type Store struct {
	path string
}

// NewStore creates a store backed by the default per-user credentials path.
func NewStore() (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return &Store{path: path}, nil
}

// NewStoreAt creates a store backed by an explicit file path. Intended for
// tests and non-standard layouts.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the fixed per-user credentials file path, following
// XDG_CONFIG_HOME with a ~/.config fallback.
func DefaultPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not determine user home directory: %w", err)
		}
		configHome = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configHome, appName, credentialsFile), nil
}

// Path returns the file path this store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// EnvVar returns the environment variable consulted for a provider, or ""
// if the provider has no environment fallback.
func EnvVar(provider string) string {
	return envVars[provider]
}

// Resolve returns the API key for the named provider. A file entry wins over
// the environment variable; if neither is set the error is a *ConfigError.
func (s *Store) Resolve(provider string) (string, error) {
	keys, err := s.load()
	if err != nil {
		return "", err
	}
	if key := keys[provider]; key != "" {
		return key, nil
	}

	envVar, ok := envVars[provider]
	if !ok {
		return "", &ConfigError{Provider: provider, Reason: "no credential source for this provider"}
	}
	if key := os.Getenv(envVar); key != "" {
		return key, nil
	}

	return "", &ConfigError{
		Provider: provider,
		Reason:   fmt.Sprintf("no API key found; set %s or run 'askai --configure'", envVar),
	}
}

// Persist merges the key for the named provider into the credential file,
// creating the file and its directory as needed. The file is always written
// with owner-only read/write permissions.
func (s *Store) Persist(provider, apiKey string) error {
	keys, err := s.load()
	if err != nil {
		return err
	}
	keys[provider] = apiKey

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create credentials directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	if err := os.WriteFile(s.path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write credentials file %s: %w", s.path, err)
	}
	// WriteFile only applies the mode on creation; restrict pre-existing
	// files too.
	if err := os.Chmod(s.path, filePerm); err != nil {
		return fmt.Errorf("failed to restrict credentials file %s: %w", s.path, err)
	}
	return nil
}

// Keys returns the provider-to-key map currently stored in the file. The
// environment is not consulted. A missing file yields an empty map.
func (s *Store) Keys() (map[string]string, error) {
	return s.load()
}

func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read credentials file %s: %w", s.path, err)
	}

	keys := map[string]string{}
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("failed to decode credentials file %s: %w", s.path, err)
	}
	return keys, nil
}
