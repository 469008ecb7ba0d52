package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate validates the configuration and returns an error if invalid
func Validate(config *Config) error {
	if err := validateGeneralConfig(&config.General); err != nil {
		return fmt.Errorf("general config validation failed: %w", err)
	}

	if config.General.Backend == BackendAPI {
		if err := validateAPIConfig(&config.API); err != nil {
			return fmt.Errorf("API config validation failed: %w", err)
		}
	}

	if config.General.Backend == BackendR2 {
		if err := validateR2Config(&config.R2); err != nil {
			return fmt.Errorf("R2 config validation failed: %w", err)
		}
	}

	if err := validateLogConfig(&config.Log); err != nil {
		return fmt.Errorf("log config validation failed: %w", err)
	}

	if err := validateUIConfig(&config.UI); err != nil {
		return fmt.Errorf("ui config validation failed: %w", err)
	}

	return nil
}

// validateGeneralConfig validates general configuration
func validateGeneralConfig(config *GeneralConfig) error {
	switch config.Backend {
	case BackendAPI, BackendR2:
	default:
		return fmt.Errorf("invalid backend: %s (valid: api, r2)", config.Backend)
	}

	if config.DefaultTimeout <= 0 {
		return fmt.Errorf("default_timeout must be positive, got: %d", config.DefaultTimeout)
	}

	return nil
}

// validateAPIConfig validates the public files API configuration
func validateAPIConfig(config *APIConfig) error {
	if strings.TrimSpace(config.BaseURL) == "" {
		return fmt.Errorf("base_url is required")
	}

	u, err := url.Parse(config.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url must use http or https, got: %s", config.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("base_url has no host: %s", config.BaseURL)
	}

	return nil
}

// validateR2Config validates R2 specific configuration
func validateR2Config(config *R2Config) error {
	endpoint := strings.TrimSpace(config.Endpoint)
	if (endpoint == "" || endpoint == "auto") && strings.TrimSpace(config.AccountID) == "" {
		return fmt.Errorf("account_id is required when endpoint is auto")
	}

	hasKey := strings.TrimSpace(config.AccessKeyID) != ""
	hasSecret := strings.TrimSpace(config.AccessKeySecret) != ""
	if hasKey != hasSecret {
		return fmt.Errorf("access_key_id and access_key_secret must be set together")
	}

	for bucket := range config.CustomDomains {
		if !isValidBucketName(bucket) {
			return fmt.Errorf("invalid bucket name in custom_domains: %s", bucket)
		}
	}

	return nil
}

// validateLogConfig validates log configuration
func validateLogConfig(config *LogConfig) error {
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
		"panic": true,
	}

	level := strings.ToLower(config.Level)
	if !validLevels[level] {
		return fmt.Errorf("invalid log level: %s (valid: trace, debug, info, warn, error, fatal, panic)", config.Level)
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
	}

	format := strings.ToLower(config.Format)
	if !validFormats[format] {
		return fmt.Errorf("invalid log format: %s (valid: text, json)", config.Format)
	}

	return nil
}

// validateUIConfig validates the storage bookmarks
func validateUIConfig(config *UIConfig) error {
	seen := make(map[string]bool)
	for i, s := range config.Storages {
		id := strings.TrimSpace(s.ID)
		if id == "" {
			return fmt.Errorf("storages[%d]: id is required", i)
		}
		if seen[id] {
			return fmt.Errorf("storages[%d]: duplicate id %s", i, id)
		}
		seen[id] = true
	}
	return nil
}

// isValidBucketName checks if the bucket name follows basic S3 naming rules
func isValidBucketName(name string) bool {
	if len(name) < 3 || len(name) > 63 {
		return false
	}

	// Must start and end with letter or number
	if !isAlphaNum(name[0]) || !isAlphaNum(name[len(name)-1]) {
		return false
	}

	// Check each character
	for i, char := range name {
		if !isAlphaNum(byte(char)) && char != '-' && char != '.' {
			return false
		}

		// Cannot have consecutive periods or period-dash combinations
		if i > 0 {
			prev := name[i-1]
			if char == '.' && (prev == '.' || prev == '-') {
				return false
			}
			if char == '-' && prev == '.' {
				return false
			}
		}
	}

	return true
}

// isAlphaNum checks if a byte is alphanumeric
func isAlphaNum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
