package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database   DatabaseConfig   `toml:"database"`
	Provider   ProviderConfig   `toml:"provider"`
	Notify     NotifyConfig     `toml:"notify"`
	ReplayGain ReplayGainConfig `toml:"replaygain"`
}

// DatabaseConfig contains library database settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ProviderConfig contains streaming-provider API settings for stream URL resolution.
type ProviderConfig struct {
	BaseURL      string  `toml:"base_url"`
	ClientID     string  `toml:"client_id"`
	ClientSecret string  `toml:"client_secret"`
	TokenURL     string  `toml:"token_url"`
	RateLimit    float64 `toml:"rate_limit"` // requests per second against the provider API
}

// NotifyConfig contains chat webhook settings for run completion reports.
type NotifyConfig struct {
	WebhookURL string `toml:"webhook_url"`
}

// ReplayGainConfig contains loudness analysis settings.
type ReplayGainConfig struct {
	FFmpegPath     string  `toml:"ffmpeg_path"`
	TargetLoudness float64 `toml:"target_loudness"` // LUFS reference the gain normalizes to
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// SaveConfig writes the configuration to a TOML file at the specified path.
func SaveConfig(path string, config *Config) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: config file already exists at %s", ErrInvalidConfig, path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
