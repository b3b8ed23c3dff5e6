package config

// Config represents the complete configuration structure
type Config struct {
	BreweryDB BreweryDBConfig `mapstructure:"brewerydb"`
	Filter    FilterConfig    `mapstructure:"filter"`
	Batch     BatchConfig     `mapstructure:"batch"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// BreweryDBConfig holds BreweryDB API connection details
type BreweryDBConfig struct {
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	Format    string `mapstructure:"format"`
	VerifyTLS bool   `mapstructure:"verify_tls"`
	UserAgent string `mapstructure:"user_agent"`
}

// FilterConfig contains filter definitions
type FilterConfig struct {
	DefaultExpression string                  `mapstructure:"default_expression"`
	Presets           map[string]PresetFilter `mapstructure:"presets"`
}

// PresetFilter is a named filter expression
type PresetFilter struct {
	Expression  string `mapstructure:"expression"`
	Description string `mapstructure:"description"`
}

// BatchConfig contains settings for the fetch command
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
