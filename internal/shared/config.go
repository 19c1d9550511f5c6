package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override values from the TOML file.
const (
	EnvDataDir   = "SOCOTK_DATA_DIR"
	EnvBridgeURL = "SOCOTK_BRIDGE_URL"
	EnvLogLevel  = "SOCOTK_LOG_LEVEL"
	EnvArtRate   = "SOCOTK_ART_RATE_LIMIT"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Data   DataConfig   `toml:"data"`
	Bridge BridgeConfig `toml:"bridge"`
	Art    ArtConfig    `toml:"art"`
	Log    LogConfig    `toml:"log"`
}

// DataConfig locates the local store. Directory is resolved once at startup
// and handed to the store explicitly.
type DataConfig struct {
	Directory string `toml:"directory"`
	Database  string `toml:"database"`
}

// BridgeConfig points at the HTTP bridge that speaks to the speakers.
type BridgeConfig struct {
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// ArtConfig controls album art downloads.
type ArtConfig struct {
	RateLimit      float64 `toml:"rate_limit"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DatabasePath joins the data directory and database file name.
func (d DataConfig) DatabasePath() string {
	return filepath.Join(d.Directory, d.Database)
}

// DefaultBridgeTimeout applies when bridge.timeout_seconds is zero or negative.
const DefaultBridgeTimeout = 10 * time.Second

// Timeout is the HTTP client timeout for bridge requests.
func (b BridgeConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return DefaultBridgeTimeout
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// Validate reports missing required values.
func (c *Config) Validate() error {
	if c.Data.Directory == "" {
		return fmt.Errorf("%w: data.directory is required", ErrInvalidConfig)
	}
	if c.Data.Database == "" {
		return fmt.Errorf("%w: data.database is required", ErrInvalidConfig)
	}
	if c.Bridge.URL == "" {
		return fmt.Errorf("%w: bridge.url is required", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv loads variables from the given .env files (default ".env") without
// overriding variables that are already set. Missing files are ignored.
func LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides config values with SOCOTK_* environment variables.
func ApplyEnv(c *Config) error {
	if v, ok := os.LookupEnv(EnvDataDir); ok && v != "" {
		c.Data.Directory = v
	}
	if v, ok := os.LookupEnv(EnvBridgeURL); ok && v != "" {
		c.Bridge.URL = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv(EnvArtRate); ok && v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvArtRate, v)
		}
		c.Art.RateLimit = rate
	}
	return nil
}
