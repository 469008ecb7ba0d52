package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported directory backends
const (
	BackendAPI = "api"
	BackendR2  = "r2"
)

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `mapstructure:"general"`
	API     APIConfig     `mapstructure:"api"`
	R2      R2Config      `mapstructure:"r2"`
	Log     LogConfig     `mapstructure:"log"`
	UI      UIConfig      `mapstructure:"ui"`
}

// GeneralConfig holds general application configuration
type GeneralConfig struct {
	Backend        string `mapstructure:"backend"`
	DefaultTimeout int    `mapstructure:"default_timeout"`
}

// APIConfig holds the public files API configuration
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// R2Config holds R2/S3 specific configuration
type R2Config struct {
	AccountID       string            `mapstructure:"account_id"`
	AccessKeyID     string            `mapstructure:"access_key_id"`
	AccessKeySecret string            `mapstructure:"access_key_secret"`
	Endpoint        string            `mapstructure:"endpoint"`
	Region          string            `mapstructure:"region"`
	CustomDomains   map[string]string `mapstructure:"custom_domains"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// UIConfig holds user interface configuration
type UIConfig struct {
	Storages  []StorageBookmark `mapstructure:"storages"`
	OpenLinks bool              `mapstructure:"open_links"`
}

// StorageBookmark is a named storage offered by the storage picker
type StorageBookmark struct {
	Name string `mapstructure:"name"`
	ID   string `mapstructure:"id"`
}

// Overrides are command line values that take priority over every other source
type Overrides struct {
	Backend    string
	APIBaseURL string
}

// Load loads configuration from multiple sources with priority:
// 1. Command line flags (highest)
// 2. Environment variables
// 3. Configuration file
// 4. Defaults (lowest)
func Load(configPath string, overrides Overrides) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Set environment variable prefix
	v.SetEnvPrefix("PUBDROP")
	v.AutomaticEnv()

	// Environment variable mappings
	v.BindEnv("general.backend", "PUBDROP_BACKEND")
	v.BindEnv("general.default_timeout", "PUBDROP_TIMEOUT")
	v.BindEnv("api.base_url", "PUBDROP_API_BASE_URL")
	v.BindEnv("r2.account_id", "PUBDROP_R2_ACCOUNT_ID")
	v.BindEnv("r2.access_key_id", "PUBDROP_R2_ACCESS_KEY_ID")
	v.BindEnv("r2.access_key_secret", "PUBDROP_R2_ACCESS_KEY_SECRET")
	v.BindEnv("r2.endpoint", "PUBDROP_R2_ENDPOINT")
	v.BindEnv("r2.region", "PUBDROP_R2_REGION")
	v.BindEnv("log.level", "PUBDROP_LOG_LEVEL")
	v.BindEnv("log.format", "PUBDROP_LOG_FORMAT")
	v.BindEnv("ui.open_links", "PUBDROP_UI_OPEN_LINKS")

	// Configuration file handling
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in common locations
		v.SetConfigName("config")
		v.SetConfigType("toml")

		// Add config search paths
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.pubdrop")
		v.AddConfigPath("/etc/pubdrop/")
	}

	// Read configuration file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is not an error - we can use defaults and env vars
	}

	if overrides.Backend != "" {
		v.Set("general.backend", overrides.Backend)
	}
	if overrides.APIBaseURL != "" {
		v.Set("api.base_url", overrides.APIBaseURL)
	}

	// Unmarshal configuration
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.General.Backend = strings.ToLower(strings.TrimSpace(config.General.Backend))

	// Validate configuration
	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// General defaults
	v.SetDefault("general.backend", BackendAPI)
	v.SetDefault("general.default_timeout", 30)

	// R2 defaults
	v.SetDefault("r2.endpoint", "auto")
	v.SetDefault("r2.region", "auto")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// UI defaults
	v.SetDefault("ui.open_links", true)
}

// Timeout returns the request timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.General.DefaultTimeout) * time.Second
}

// StorageName returns the bookmark name of a storage id, or the id itself
func (c *Config) StorageName(id string) string {
	for _, s := range c.UI.Storages {
		if s.ID == id && s.Name != "" {
			return s.Name
		}
	}
	return id
}

// CustomDomain returns the custom domain configured for a bucket
func (c *R2Config) CustomDomain(bucket string) string {
	if c == nil || c.CustomDomains == nil {
		return ""
	}
	if domain, ok := c.CustomDomains[bucket]; ok {
		return strings.TrimSpace(domain)
	}
	// viper lower-cases map keys read from files
	return strings.TrimSpace(c.CustomDomains[strings.ToLower(bucket)])
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./config.toml"
	}
	return filepath.Join(homeDir, ".pubdrop", "config.toml")
}
