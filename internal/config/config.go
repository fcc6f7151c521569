package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// Logging configuration
	Log LogConfig `toml:"log"`

	// Binder view-state configuration
	Binder BinderConfig `toml:"binder"`

	// Card data source configuration
	Scryfall ScryfallConfig `toml:"scryfall"`

	// REST API configuration
	API APIConfig `toml:"api"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level    string `toml:"level"`     // logrus level name (e.g., "info")
	Format   string `toml:"format"`    // "text" or "json"
	Output   string `toml:"output"`    // "stderr", "stdout" or "file"
	FilePath string `toml:"file_path"` // Log file when output is "file"
}

// BinderConfig contains page-transition and data resolution settings.
type BinderConfig struct {
	FlipDelay           string `toml:"flip_delay"`            // Settle delay before a flip commits (e.g., "300ms"); "0s" means the default
	DiscardStaleResults bool   `toml:"discard_stale_results"` // Drop search/reprint responses superseded by a newer request
}

// ScryfallConfig contains data source client settings.
type ScryfallConfig struct {
	BaseURL    string `toml:"base_url"`    // API root
	UserAgent  string `toml:"user_agent"`  // User-Agent header
	Timeout    string `toml:"timeout"`     // HTTP timeout (e.g., "30s")
	RateLimit  string `toml:"rate_limit"`  // Minimum spacing between requests (e.g., "100ms")
	MaxRetries int    `toml:"max_retries"` // Retries on network errors and HTTP 429
}

// APIConfig contains REST server settings.
type APIConfig struct {
	Port           int      `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Binder: BinderConfig{
			FlipDelay:           "300ms",
			DiscardStaleResults: true,
		},
		Scryfall: ScryfallConfig{
			BaseURL:    "https://api.scryfall.com",
			UserAgent:  "CardBinder/1.0",
			Timeout:    "30s",
			RateLimit:  "100ms",
			MaxRetries: 3,
		},
		API: APIConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		},
	}
}

// DefaultPath returns the default configuration file location.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".card-binder", "config.toml"), nil
}

// Load loads the configuration from path. Returns default config if the file doesn't exist.
// Keys missing from the file keep their default values.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	delay, err := time.ParseDuration(c.Binder.FlipDelay)
	if err != nil {
		return fmt.Errorf("invalid flip delay %q: %w", c.Binder.FlipDelay, err)
	}
	if delay < 0 {
		return fmt.Errorf("flip delay cannot be negative: %s", c.Binder.FlipDelay)
	}

	if _, err := time.ParseDuration(c.Scryfall.Timeout); err != nil {
		return fmt.Errorf("invalid scryfall timeout %q: %w", c.Scryfall.Timeout, err)
	}

	if _, err := time.ParseDuration(c.Scryfall.RateLimit); err != nil {
		return fmt.Errorf("invalid scryfall rate limit %q: %w", c.Scryfall.RateLimit, err)
	}

	if c.Scryfall.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative: %d", c.Scryfall.MaxRetries)
	}

	if c.Scryfall.BaseURL == "" {
		return fmt.Errorf("scryfall base url is required")
	}

	if c.API.Port < 0 || c.API.Port > 65535 {
		return fmt.Errorf("invalid api port: %d", c.API.Port)
	}

	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}

	return nil
}

// GetFlipDelay returns the page flip settle delay as a duration.
func (c *Config) GetFlipDelay() (time.Duration, error) {
	return time.ParseDuration(c.Binder.FlipDelay)
}

// GetScryfallTimeout returns the data source HTTP timeout as a duration.
func (c *Config) GetScryfallTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Scryfall.Timeout)
}

// GetScryfallRateLimit returns the minimum spacing between data source requests.
func (c *Config) GetScryfallRateLimit() (time.Duration, error) {
	return time.ParseDuration(c.Scryfall.RateLimit)
}
