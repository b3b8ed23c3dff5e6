package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/s0up4200/brewdb/brewerydb"
)

// Load loads the configuration from file and environment.
//
// Without an explicit path a missing config file is not an error, so the
// API key can come from BREWDB_API_KEY alone.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Environment overrides, e.g. BREWDB_LOGGING_LEVEL
	v.SetEnvPrefix("brewdb")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("brewerydb.api_key", "BREWDB_API_KEY", "BREWERYDB_API_KEY"); err != nil {
		return nil, fmt.Errorf("error binding environment: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".brewdb"))
		}

		v.AddConfigPath("/etc/brewdb/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// BreweryDB defaults
	v.SetDefault("brewerydb.api_key", "")
	v.SetDefault("brewerydb.base_url", brewerydb.DefaultBaseURL)
	v.SetDefault("brewerydb.format", string(brewerydb.FormatJSON))
	v.SetDefault("brewerydb.verify_tls", false)
	v.SetDefault("brewerydb.user_agent", "")

	v.SetDefault("filter.default_expression", "")

	v.SetDefault("batch.concurrency", 5)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.BreweryDB.APIKey == "" || cfg.BreweryDB.APIKey == "your-api-key-here" {
		return fmt.Errorf("brewerydb.api_key must be set to a valid API key")
	}

	if cfg.BreweryDB.BaseURL == "" {
		return fmt.Errorf("brewerydb.base_url is required")
	}

	validFormats := map[string]bool{
		string(brewerydb.FormatJSON): true,
		string(brewerydb.FormatXML):  true,
	}
	if !validFormats[cfg.BreweryDB.Format] {
		return fmt.Errorf("invalid brewerydb.format: %s (must be 'json' or 'xml')", cfg.BreweryDB.Format)
	}

	if cfg.Batch.Concurrency < 1 {
		return fmt.Errorf("batch.concurrency must be at least 1, got %d", cfg.Batch.Concurrency)
	}

	for name, preset := range cfg.Filter.Presets {
		if strings.TrimSpace(preset.Expression) == "" {
			return fmt.Errorf("filter preset '%s' has an empty expression", name)
		}
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validLogFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validLogFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
