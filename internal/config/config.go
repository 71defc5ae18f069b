// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"
)

// =============================================================================
// Configuration Types
// =============================================================================

// Config holds all user-tunable settings. Loaded from config.toml in the
// application directory, with environment variables taking precedence.
type Config struct {
	API     APIConfig     `toml:"api" json:"api"`
	Auth    AuthConfig    `toml:"auth" json:"auth"`
	UI      UIConfig      `toml:"ui" json:"ui"`
	Logging LoggingConfig `toml:"logging" json:"logging"`
}

// APIConfig controls how the backend is reached.
type APIConfig struct {
	// BaseURL is the backend origin, without a trailing slash.
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSeconds bounds each HTTP request.
	TimeoutSeconds int `toml:"timeout_seconds" json:"timeout_seconds"`
	// CaptchaSiteKey is the Turnstile site key used by login and signup.
	CaptchaSiteKey string `toml:"captcha_site_key" json:"captcha_site_key"`
}

// AuthConfig controls the session refresh loop.
type AuthConfig struct {
	// CheckIntervalSeconds is how often the token clock is re-evaluated.
	CheckIntervalSeconds int `toml:"check_interval_seconds" json:"check_interval_seconds"`
	// RefreshThresholdSeconds is the remaining-lifetime low-water mark
	// below which a silent refresh is attempted.
	RefreshThresholdSeconds int `toml:"refresh_threshold_seconds" json:"refresh_threshold_seconds"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// Theme selects the color scheme: "auto", "dark", or "light".
	Theme string `toml:"theme" json:"theme"`
	// DefaultModel is used for new chat sessions with no saved selection.
	DefaultModel string `toml:"default_model" json:"default_model"`
}

// LoggingConfig controls the log file.
type LoggingConfig struct {
	Level string `toml:"level" json:"level"`
}

// =============================================================================
// Defaults
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:8000",
			TimeoutSeconds: 60,
		},
		Auth: AuthConfig{
			CheckIntervalSeconds:    1,
			RefreshThresholdSeconds: 60,
		},
		UI: UIConfig{
			Theme:        "auto",
			DefaultModel: "",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// fillDefaults replaces zero values with defaults so a partial config file
// still yields a usable configuration.
func (c *Config) fillDefaults() {
	def := Default()
	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = def.API.TimeoutSeconds
	}
	if c.Auth.CheckIntervalSeconds == 0 {
		c.Auth.CheckIntervalSeconds = def.Auth.CheckIntervalSeconds
	}
	if c.Auth.RefreshThresholdSeconds == 0 {
		c.Auth.RefreshThresholdSeconds = def.Auth.RefreshThresholdSeconds
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
}

// =============================================================================
// Loading
// =============================================================================

// ConfigDir returns the application directory (~/.llm-assistant), creating it
// with owner-only permissions if missing.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".llm-assistant")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}

// ConfigPath returns the path of the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the configuration file, fills in defaults, applies environment
// overrides, and validates the result. A missing file is not an error.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads configuration from an explicit path. TOML is tried first,
// then JSON as a fallback for hand-migrated files.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		cfg = Default()
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if terr := toml.Unmarshal(data, cfg); terr != nil {
			if jerr := json.Unmarshal(data, cfg); jerr != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", terr)
			}
		}
		cfg.fillDefaults()
	}

	cfg.ApplyEnvOverrides()

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errs
	}
	return cfg, nil
}

// =============================================================================
// Environment Overrides
// =============================================================================

// CONFIG: Environment variables win over the config file, which wins over
// built-in defaults.
const envPrefix = "LLM_ASSISTANT_"

// ApplyEnvOverrides replaces config values with any set environment
// variables.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv(envPrefix + "API_URL"); v != "" {
		c.API.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv(envPrefix + "API_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.API.TimeoutSeconds = n
		} else {
			log.Warn().Str("value", v).Msg("ignoring invalid API_TIMEOUT override")
		}
	}
	if v := os.Getenv(envPrefix + "CAPTCHA_SITE_KEY"); v != "" {
		c.API.CaptchaSiteKey = v
	}
	if v := os.Getenv(envPrefix + "THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv(envPrefix + "MODEL"); v != "" {
		c.UI.DefaultModel = v
	}
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// =============================================================================
// Validation
// =============================================================================

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors aggregates all validation failures.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

// Validate checks the configuration for values that cannot work at runtime.
func (c *Config) Validate() ValidateErrors {
	var errs ValidateErrors

	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		errs = append(errs, ValidationError{"api.base_url", "must start with http:// or https://"})
	}
	if c.API.TimeoutSeconds < 1 || c.API.TimeoutSeconds > 600 {
		errs = append(errs, ValidationError{"api.timeout_seconds", "must be between 1 and 600"})
	}
	if c.Auth.CheckIntervalSeconds < 1 {
		errs = append(errs, ValidationError{"auth.check_interval_seconds", "must be at least 1"})
	}
	if c.Auth.RefreshThresholdSeconds < 5 {
		errs = append(errs, ValidationError{"auth.refresh_threshold_seconds", "must be at least 5"})
	}
	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		errs = append(errs, ValidationError{"ui.theme", "must be auto, dark, or light"})
	}

	return errs
}

// =============================================================================
// Global Access
// =============================================================================

var (
	globalMu     sync.RWMutex
	globalConfig *Config
	loadOnce     sync.Once
)

// Get returns the process-wide configuration, loading it on first use. Load
// failures fall back to defaults so the UI can still start and surface the
// problem.
func Get() *Config {
	loadOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			log.Error().Err(err).Msg("failed to load config, using defaults")
			cfg = Default()
			cfg.ApplyEnvOverrides()
		}
		globalMu.Lock()
		globalConfig = cfg
		globalMu.Unlock()
	})

	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalConfig
}

// SetGlobal replaces the process-wide configuration. Used by the file
// watcher after a successful reload.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	loadOnce.Do(func() {})
	globalConfig = cfg
}

// ResetGlobalForTesting clears the singleton so tests can load fresh state.
func ResetGlobalForTesting() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = nil
	loadOnce = sync.Once{}
}
